package targets

import (
	"context"

	"github.com/cruciblehq/builder/internal/build"
)

// Builds nothing itself; only its dependencies do work.
type Group struct {
	*build.Base
}

// No-op.
func (g *Group) Build(ctx context.Context, tc *build.TargetConfig) error {
	return nil
}
