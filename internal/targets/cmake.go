package targets

import (
	"context"
	"path/filepath"

	"github.com/cruciblehq/builder/internal/build"
	"github.com/cruciblehq/builder/internal/config"
)

var cmakeKind = blueprint{
	local: []string{"directory.source", "directory.build", "arguments"},
	defaults: map[string]any{
		"directory.build": config.Deferred(func(g config.Getter) (any, error) {
			src, err := config.String(g, "directory.source")
			if err != nil {
				return nil, err
			}
			return filepath.Join(src, "build"), nil
		}),
	},
	new: func(b *build.Base) build.Target { return &CMake{b} },
}

// Configures and builds a CMake project out of tree.
type CMake struct {
	*build.Base
}

// Runs "cmake -S <source> -B <build> <arguments>" then
// "cmake --build <build>".
func (c *CMake) Build(ctx context.Context, tc *build.TargetConfig) error {
	return runSteps(ctx, c, tc)
}

func (c *CMake) steps(tc *build.TargetConfig) ([]step, error) {
	src, err := config.String(tc, "directory.source")
	if err != nil {
		return nil, err
	}
	dir, err := config.String(tc, "directory.build")
	if err != nil {
		return nil, err
	}
	args, err := arguments(tc, "arguments")
	if err != nil {
		return nil, err
	}
	return []step{
		{args: append([]string{"cmake", "-S", src, "-B", dir}, args...), dir: src},
		{args: []string{"cmake", "--build", dir}, dir: src},
	}, nil
}
