package manifest

import (
	"fmt"
	"log/slog"
	"maps"

	"github.com/cruciblehq/builder/internal/build"
	"github.com/cruciblehq/builder/internal/config"
	"github.com/cruciblehq/builder/internal/targets"
)

// Creates a [build.Build] from the manifest.
//
// Targets are constructed after their dependencies. Only roots, the targets
// no other target depends on, are registered, in manifest order; the rest
// are built through their dependents so they see the dependents' declared
// configuration. Fails with [ErrManifest] on a missing name or kind, a
// duplicate name, an unknown dependency or a dependency cycle.
func (m *Manifest) Build() (*build.Build, error) {
	b := build.New(Templates(m.Config))
	for name, cfg := range m.Profiles {
		b.AddProfile(build.NewProfile(name, Templates(cfg)))
	}

	decls := make(map[string]*Target, len(m.Targets))
	for i := range m.Targets {
		t := &m.Targets[i]
		if t.Name == "" {
			return nil, fmt.Errorf("%w: target %d has no name", ErrManifest, i+1)
		}
		if t.Kind == "" {
			return nil, fmt.Errorf("%w: target %q has no kind", ErrManifest, t.Name)
		}
		if _, ok := decls[t.Name]; ok {
			return nil, fmt.Errorf("%w: duplicate target %q", ErrManifest, t.Name)
		}
		decls[t.Name] = t
	}

	c := &constructor{decls: decls, built: make(map[string]build.Target)}
	for _, t := range m.Targets {
		if _, err := c.construct(t.Name, nil); err != nil {
			return nil, err
		}
	}

	for _, name := range m.roots() {
		if err := b.Register(c.built[name]); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrManifest, err)
		}
	}

	slog.Debug("manifest loaded", "targets", len(m.Targets), "profiles", len(m.Profiles))
	return b, nil
}

// Returns the names of targets no other target depends on.
func (m *Manifest) roots() []string {
	depended := make(map[string]bool)
	for _, t := range m.Targets {
		for _, d := range t.Depends {
			depended[d] = true
		}
	}

	var roots []string
	for _, t := range m.Targets {
		if !depended[t.Name] {
			roots = append(roots, t.Name)
		}
	}
	return roots
}

// Builds targets depth-first so dependencies exist before dependents.
type constructor struct {
	decls map[string]*Target
	built map[string]build.Target
}

func (c *constructor) construct(name string, path []string) (build.Target, error) {
	if t, ok := c.built[name]; ok {
		return t, nil
	}
	for _, p := range path {
		if p == name {
			return nil, fmt.Errorf("%w: %w: %q", ErrManifest, build.ErrDependencyCycle, append(path, name))
		}
	}

	decl, ok := c.decls[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q depends on unknown target %q", ErrManifest, path[len(path)-1], name)
	}

	path = append(path, name)
	deps := make([]build.Target, 0, len(decl.Depends))
	for _, d := range decl.Depends {
		dep, err := c.construct(d, path)
		if err != nil {
			return nil, err
		}
		deps = append(deps, dep)
	}

	cfg := Templates(decl.Config)
	if cfg == nil {
		cfg = make(map[string]any)
	}
	code := build.Code(decl.Name)
	for k, v := range config.Flatten(Templates(decl.Local)) {
		cfg[build.LocalKey(code, k)] = v
	}

	t, err := targets.New(decl.Kind, decl.Name, deps, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: target %q: %w", ErrManifest, decl.Name, err)
	}
	c.built[name] = t
	return t, nil
}

// Returns a copy of values with every string containing a "${key}"
// reference replaced by a [config.Template]. Nested maps are copied.
func Templates(values map[string]any) map[string]any {
	if values == nil {
		return nil
	}
	out := maps.Clone(values)
	for k, v := range out {
		switch v := v.(type) {
		case string:
			if config.IsTemplate(v) {
				out[k] = config.Template(v)
			}
		case map[string]any:
			out[k] = Templates(v)
		}
	}
	return out
}
