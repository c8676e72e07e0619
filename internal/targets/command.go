package targets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mattn/go-shellwords"

	"github.com/cruciblehq/builder/internal/build"
	"github.com/cruciblehq/builder/internal/config"
)

// One external command of a target.
type step struct {
	args []string
	dir  string
}

// Implemented by kinds whose build is a fixed sequence of commands.
type stepper interface {
	steps(tc *build.TargetConfig) ([]step, error)
}

// Runs the steps of s in order, stopping at the first failure.
func runSteps(ctx context.Context, s stepper, tc *build.TargetConfig) error {
	steps, err := s.steps(tc)
	if err != nil {
		return err
	}
	for _, st := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		slog.Info("running", "target", tc.Code(), "command", st.args[0], "dir", st.dir)
		if _, _, err := build.Call(tc, st.args, build.CallOptions{Dir: st.dir}); err != nil {
			return err
		}
	}
	return nil
}

// Returns the command stored at key.
//
// A string is split with shell quoting rules, a list is used as is. An
// empty command is an error.
func command(g config.Getter, key string) ([]string, error) {
	v, err := g.Get(key)
	if err != nil {
		return nil, err
	}

	var args []string
	if s, ok := v.(string); ok {
		if args, err = shellwords.Parse(s); err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
	} else if args, err = config.Strings(g, key); err != nil {
		return nil, err
	}

	if len(args) == 0 {
		return nil, fmt.Errorf("%w: %q is an empty command", config.ErrType, key)
	}
	return args, nil
}

// Returns the list of arguments at key, or nil if the key does not exist.
//
// A string is split with shell quoting rules.
func arguments(g config.Getter, key string) ([]string, error) {
	v, err := g.Get(key)
	if err != nil {
		if errors.Is(err, config.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if s, ok := v.(string); ok {
		return shellwords.Parse(s)
	}
	return config.Strings(g, key)
}

// Returns a deferred value reading key, so a Local default can follow the
// configured value at read time.
func follow(key string) config.Deferred {
	return func(g config.Getter) (any, error) {
		return g.Get(key)
	}
}
