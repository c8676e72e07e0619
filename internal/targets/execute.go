package targets

import (
	"context"

	"github.com/cruciblehq/builder/internal/build"
	"github.com/cruciblehq/builder/internal/config"
)

var executeKind = blueprint{
	local:    []string{"command", "directory"},
	defaults: map[string]any{"directory": ""},
	new:      func(b *build.Base) build.Target { return &Execute{b} },
}

// Runs an arbitrary command.
type Execute struct {
	*build.Base
}

// Runs "command" in "directory", or in the current directory if empty.
func (e *Execute) Build(ctx context.Context, tc *build.TargetConfig) error {
	return runSteps(ctx, e, tc)
}

func (e *Execute) steps(tc *build.TargetConfig) ([]step, error) {
	args, err := command(tc, "command")
	if err != nil {
		return nil, err
	}
	dir, err := config.String(tc, "directory")
	if err != nil {
		return nil, err
	}
	return []step{{args: args, dir: dir}}, nil
}
