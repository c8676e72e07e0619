package targets

import (
	"fmt"
	"maps"
	"slices"

	"github.com/cruciblehq/builder/internal/build"
)

// Local keys and Local defaults of a kind.
type blueprint struct {
	local    []string
	defaults map[string]any
	new      func(base *build.Base) build.Target
}

var kinds = map[string]blueprint{
	"group":     {new: func(b *build.Base) build.Target { return &Group{b} }},
	"download":  downloadKind,
	"extract":   extractKind,
	"patch":     patchKind,
	"create":    createKind,
	"copy":      copyKind,
	"autotools": autotoolsKind,
	"make":      makeKind,
	"cmake":     cmakeKind,
	"execute":   executeKind,
}

// Returns the names of all kinds, sorted.
func Kinds() []string {
	return slices.Sorted(maps.Keys(kinds))
}

// Creates a target of the given kind.
//
// Configuration keys the kind declares Local are namespaced under the
// target; missing Local keys take the kind's defaults. Fails with
// [ErrUnknownKind] if no kind has that name.
func New(kind, name string, deps []build.Target, cfg map[string]any) (build.Target, error) {
	s, ok := kinds[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	global, local := build.SplitLocal(cfg, s.local, s.defaults)
	base := build.NewBase(name, build.Options{
		Dependencies: deps,
		Config:       global,
		Local:        local,
	})
	return s.new(base), nil
}
