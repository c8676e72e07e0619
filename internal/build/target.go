package build

import (
	"context"
	"maps"

	"github.com/cruciblehq/builder/internal/config"
)

// Level name of the frame each top-level target is built on. Targets
// publish outputs at this level so that dependents can read them after the
// dependency's own frame is gone.
const GlobalTargetLevel = "target"

// A node of the build graph.
//
// Concrete kinds usually embed [*Base] and only implement Build. They may
// also implement [Outdater] and [PostBuilder].
type Target interface {
	Name() string             // Display name.
	Code() string             // Normalized identifier, see [Code].
	Dependencies() []Target   // Targets built before this one.
	Declared() map[string]any // Flat configuration seeding the target frame.

	// Performs the step. Only called when the target is outdated.
	Build(ctx context.Context, tc *TargetConfig) error
}

// Implemented by targets that decide staleness themselves.
//
// The default is [StampMissing].
type Outdater interface {
	Outdated(ctx context.Context, tc *TargetConfig) (bool, error)
}

// Implemented by targets that publish results after every build decision,
// including when the build was skipped.
type PostBuilder interface {
	PostBuild(ctx context.Context, tc *TargetConfig) error
}

// Declares a target.
type Options struct {
	Dependencies []Target       // Targets to build first.
	Config       map[string]any // Keys seeding the target frame as-is, visible to dependencies.
	Local        map[string]any // Keys seeding the target frame under "target.<code>.".
}

// Identity, dependencies and declared configuration shared by all kinds.
type Base struct {
	name     string
	code     string
	deps     []Target
	declared map[string]any
}

// Creates a new [Base] for a target called name.
func NewBase(name string, opts Options) *Base {
	b := &Base{
		name: name,
		code: Code(name),
		deps: opts.Dependencies,
	}

	b.declared = config.Flatten(opts.Config)
	for k, v := range config.Flatten(opts.Local) {
		b.declared[LocalKey(b.code, k)] = v
	}

	return b
}

// Returns the display name.
func (b *Base) Name() string {
	return b.name
}

// Returns the normalized identifier.
func (b *Base) Code() string {
	return b.code
}

// Returns the dependencies.
func (b *Base) Dependencies() []Target {
	return b.deps
}

// Returns a copy of the declared configuration.
func (b *Base) Declared() map[string]any {
	return maps.Clone(b.declared)
}

// Returns the global form of a key local to the target with the given code.
func LocalKey(code, key string) string {
	return GlobalTargetLevel + "." + code + "." + key
}

// Splits configuration into Local and Global parts.
//
// Flattened keys listed in localKeys go to local, the rest to global.
// Entries of defaults are added to local for keys absent from cfg.
func SplitLocal(cfg map[string]any, localKeys []string, defaults map[string]any) (global, local map[string]any) {
	flat := config.Flatten(cfg)
	global = make(map[string]any)
	local = make(map[string]any)

	isLocal := make(map[string]bool, len(localKeys))
	for _, k := range localKeys {
		isLocal[k] = true
	}

	for k, v := range flat {
		if isLocal[k] {
			local[k] = v
		} else {
			global[k] = v
		}
	}
	for k, v := range defaults {
		if _, ok := flat[k]; !ok {
			local[k] = v
		}
	}

	return global, local
}
