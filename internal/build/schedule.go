package build

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cruciblehq/builder/internal/config"
)

// Builds t and its dependencies on top of parent.
//
// Dependencies share the target's frame as their parent, so they see its
// declared configuration. A dependency reachable through several edges is
// visited once per edge; the stamp check keeps repeated visits cheap.
func buildTarget(ctx context.Context, t Target, parent *config.Config) error {
	log := slog.With("target", t.Name())

	frame, err := config.New(GlobalTargetLevel+"."+t.Code(), t.Declared(), parent)
	if errors.Is(err, config.ErrLevelCollision) {
		return fmt.Errorf("%w: %s", ErrDependencyCycle, t.Name())
	}
	if err != nil {
		return err
	}

	log.Debug("processing dependencies")
	for _, dep := range t.Dependencies() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := buildTarget(ctx, dep, frame); err != nil {
			return err
		}
	}
	log.Debug("dependencies ready")

	tc := NewTargetConfig(t.Code(), frame)
	defer tc.unbind()

	rebuild, err := outdated(ctx, t, tc)
	if err != nil {
		return fmt.Errorf("%s: %w", t.Name(), err)
	}

	stamp, err := StampFile(tc)
	if err != nil {
		return fmt.Errorf("%s: %w", t.Name(), err)
	}
	if err := tc.Publish("build", rebuild); err != nil {
		return err
	}
	if err := tc.Publish("file.stamp", stamp); err != nil {
		return err
	}

	if rebuild {
		log.Info("building")
		if err := t.Build(ctx, tc); err != nil {
			if errors.Is(err, ErrBuild) {
				return err
			}
			return fmt.Errorf("%w: %s: %w", ErrBuild, t.Name(), err)
		}
		if err := touch(stamp); err != nil {
			return err
		}
		log.Info("built")
	} else {
		log.Debug("up to date")
	}

	if pb, ok := t.(PostBuilder); ok {
		if err := pb.PostBuild(ctx, tc); err != nil {
			return fmt.Errorf("%s: %w", t.Name(), err)
		}
	}

	log.Debug("processed")
	return nil
}

// Decides whether t must be rebuilt.
//
// The global "always_outdated" flag forces a rebuild. Otherwise the
// target's own [Outdater] is asked, falling back to [StampMissing].
func outdated(ctx context.Context, t Target, tc *TargetConfig) (bool, error) {
	always, err := config.Bool(scoped{tc, Global}, "always_outdated")
	if err != nil && !errors.Is(err, config.ErrKeyNotFound) {
		return false, err
	}
	if always {
		return true, nil
	}
	if o, ok := t.(Outdater); ok {
		return o.Outdated(ctx, tc)
	}
	return StampMissing(ctx, tc)
}

// Adapts a [TargetConfig] to [config.Getter] with a fixed scope.
type scoped struct {
	tc    *TargetConfig
	scope Scope
}

func (s scoped) Get(key string) (any, error) {
	return s.tc.Lookup(key, s.scope, "")
}
