package build

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cruciblehq/builder/internal/config"
	"github.com/cruciblehq/builder/internal/logging"
)

// Addressing mode for target configuration keys.
type Scope int

const (

	// Tries Local first, then Global. Only valid for reads.
	Auto Scope = iota

	// Rewrites the key to "target.<code>.<key>".
	Local

	// Uses the key unchanged.
	Global
)

// Returns the scope name.
func (s Scope) String() string {
	switch s {
	case Auto:
		return "auto"
	case Local:
		return "local"
	case Global:
		return "global"
	}
	return fmt.Sprintf("scope(%d)", int(s))
}

// Configuration view of one target while it is being built.
//
// Reads default to [Auto] and writes to [Local]. Deferred values are
// resolved against the view, so a default that reads "directory.root" sees
// the target's own Local override before the global one.
type TargetConfig struct {
	code     string         // Code of the bound target.
	frame    *config.Config // The target's frame.
	building bool           // Cleared once the build of the target returns.
}

// Creates a new [TargetConfig] binding the target with the given code to
// frame.
func NewTargetConfig(code string, frame *config.Config) *TargetConfig {
	return &TargetConfig{code: code, frame: frame, building: true}
}

// Returns the code of the bound target.
func (tc *TargetConfig) Code() string {
	return tc.code
}

// Returns the target's configuration frame.
func (tc *TargetConfig) Frame() *config.Config {
	return tc.frame
}

// Returns the resolved value for key in [Auto] scope.
func (tc *TargetConfig) Get(key string) (any, error) {
	return tc.Lookup(key, Auto, "")
}

// Returns the resolved value for key in the given scope.
//
// A non-empty level restricts the search to the frame with that name. Auto
// falls back to Global only when the Local key does not exist. A Local
// value that fails to resolve is an error, not a reason to fall back.
func (tc *TargetConfig) Lookup(key string, scope Scope, level string) (any, error) {
	if !tc.building {
		return nil, fmt.Errorf("%w: %s", ErrNotBuilding, tc.code)
	}

	if scope == Auto {
		_, err := tc.frame.Lookup(tc.key(key, Local), config.Options{Level: level, Raw: true})
		if errors.Is(err, config.ErrKeyNotFound) {
			return tc.Lookup(key, Global, level)
		}
		if err != nil {
			return nil, err
		}
		return tc.Lookup(key, Local, level)
	}

	k := tc.key(key, scope)
	v, err := tc.frame.Lookup(k, config.Options{Level: level, Top: tc})
	slog.Log(context.Background(), logging.LevelTrace, "config get", "target", tc.code, "key", k, "scope", scope, "level", level, "value", v, "error", err)
	return v, err
}

// Reports whether key exists in [Auto] scope. Deferred values are not
// evaluated.
func (tc *TargetConfig) Has(key string) bool {
	return tc.frame.Has(tc.key(key, Local)) || tc.frame.Has(key)
}

// Sets key in [Local] scope on the target's frame.
func (tc *TargetConfig) Set(key string, value any) error {
	return tc.SetScoped(key, value, Local, "")
}

// Sets key in the given scope on the frame named level, or on the target's
// frame if level is empty.
//
// Fails with [ErrAutoScopeWrite] for [Auto].
func (tc *TargetConfig) SetScoped(key string, value any, scope Scope, level string) error {
	if !tc.building {
		return fmt.Errorf("%w: %s", ErrNotBuilding, tc.code)
	}
	if scope == Auto {
		return fmt.Errorf("%w: %q", ErrAutoScopeWrite, key)
	}

	k := tc.key(key, scope)
	slog.Log(context.Background(), logging.LevelTrace, "config set", "target", tc.code, "key", k, "scope", scope, "level", level, "value", value)
	return tc.frame.SetAt(k, value, level)
}

// Sets key in [Local] scope on the global target frame.
//
// Values published this way outlive the target's own frame and are visible
// to its dependents as "target.<code>.<key>".
func (tc *TargetConfig) Publish(key string, value any) error {
	return tc.SetScoped(key, value, Local, GlobalTargetLevel)
}

// Releases the view. Later accesses fail with [ErrNotBuilding].
func (tc *TargetConfig) unbind() {
	tc.building = false
}

func (tc *TargetConfig) key(key string, scope Scope) string {
	if scope == Local {
		return LocalKey(tc.code, key)
	}
	return key
}
