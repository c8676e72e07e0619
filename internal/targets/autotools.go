package targets

import (
	"context"
	"path/filepath"
	"slices"

	"github.com/cruciblehq/builder/internal/build"
	"github.com/cruciblehq/builder/internal/config"
)

var autotoolsKind = blueprint{
	local: []string{"directory.source", "scripts.autoreconf", "scripts.configure"},
	defaults: map[string]any{
		"scripts.autoreconf": []string{"autoreconf"},
		"scripts.configure":  config.Deferred(configureScript),
	},
	new: func(b *build.Base) build.Target { return &Autotools{b} },
}

// Regenerates and runs an autotools configure script.
type Autotools struct {
	*build.Base
}

// Runs "autoreconf -f" then the configure script in "directory.source".
func (a *Autotools) Build(ctx context.Context, tc *build.TargetConfig) error {
	return runSteps(ctx, a, tc)
}

// Returns the configure script of "directory.source".
func configureScript(g config.Getter) (any, error) {
	src, err := config.String(g, "directory.source")
	if err != nil {
		return nil, err
	}
	return []string{filepath.Join(src, "configure")}, nil
}

func (a *Autotools) steps(tc *build.TargetConfig) ([]step, error) {
	dir, err := config.String(tc, "directory.source")
	if err != nil {
		return nil, err
	}
	autoreconf, err := command(tc, "scripts.autoreconf")
	if err != nil {
		return nil, err
	}
	configure, err := command(tc, "scripts.configure")
	if err != nil {
		return nil, err
	}
	return []step{
		{args: slices.Concat(autoreconf, []string{"-f"}), dir: dir},
		{args: configure, dir: dir},
	}, nil
}
