package build

import "fmt"

// Checks the graph reachable from t for cycles and code clashes.
//
// Known maps codes to targets already accepted. Newly reached targets are
// added to it. Two distinct targets sharing a code fail with
// [ErrDuplicateTarget]; a path that returns to a target on the current
// path fails with [ErrDependencyCycle].
func validate(t Target, known map[string]Target) error {
	return visit(t, known, make(map[Target]bool), nil)
}

func visit(t Target, known map[string]Target, done map[Target]bool, path []Target) error {
	if done[t] {
		return nil
	}
	for i, p := range path {
		if p == t {
			return fmt.Errorf("%w: %s", ErrDependencyCycle, cycle(append(path[i:], t)))
		}
	}
	if other, ok := known[t.Code()]; ok && other != t {
		return fmt.Errorf("%w: %q and %q share code %q", ErrDuplicateTarget, other.Name(), t.Name(), t.Code())
	}

	path = append(path, t)
	for _, dep := range t.Dependencies() {
		if err := visit(dep, known, done, path); err != nil {
			return err
		}
	}

	known[t.Code()] = t
	done[t] = true
	return nil
}

func cycle(path []Target) string {
	s := ""
	for i, t := range path {
		if i > 0 {
			s += " -> "
		}
		s += t.Name()
	}
	return s
}
