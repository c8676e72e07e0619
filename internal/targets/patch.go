package targets

import (
	"context"
	"fmt"

	"github.com/cruciblehq/builder/internal/build"
	"github.com/cruciblehq/builder/internal/config"
)

var patchKind = blueprint{
	local:    []string{"file", "directory", "strip"},
	defaults: map[string]any{"strip": 1},
	new:      func(b *build.Base) build.Target { return &Patch{b} },
}

// Applies a patch file with patch(1).
type Patch struct {
	*build.Base
}

// Runs "patch -p<strip> -i <file>" in "directory".
func (p *Patch) Build(ctx context.Context, tc *build.TargetConfig) error {
	return runSteps(ctx, p, tc)
}

func (p *Patch) steps(tc *build.TargetConfig) ([]step, error) {
	file, err := config.String(tc, "file")
	if err != nil {
		return nil, err
	}
	dir, err := config.String(tc, "directory")
	if err != nil {
		return nil, err
	}
	strip, err := config.Int(tc, "strip")
	if err != nil {
		return nil, err
	}
	return []step{{
		args: []string{"patch", fmt.Sprintf("-p%d", strip), "-i", file},
		dir:  dir,
	}}, nil
}
