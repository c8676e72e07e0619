package targets

import (
	"context"

	"github.com/cruciblehq/builder/internal/build"
	"github.com/cruciblehq/builder/internal/config"
)

var makeKind = blueprint{
	local: []string{"directory", "arguments"},
	defaults: map[string]any{
		"directory": follow("directory.source"),
	},
	new: func(b *build.Base) build.Target { return &Make{b} },
}

// Runs make(1).
type Make struct {
	*build.Base
}

// Runs "make <arguments>" in "directory".
func (m *Make) Build(ctx context.Context, tc *build.TargetConfig) error {
	return runSteps(ctx, m, tc)
}

func (m *Make) steps(tc *build.TargetConfig) ([]step, error) {
	dir, err := config.String(tc, "directory")
	if err != nil {
		return nil, err
	}
	args, err := arguments(tc, "arguments")
	if err != nil {
		return nil, err
	}
	return []step{{args: append([]string{"make"}, args...), dir: dir}}, nil
}
