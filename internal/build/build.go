package build

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"path/filepath"
	"slices"

	"github.com/cruciblehq/builder/internal/config"
)

// Level names of the fixed frames of a build chain.
const (
	DefaultLevel   = "default"
	MainLevel      = "main"
	OverridesLevel = "overrides"
)

// Registry of targets and profiles plus the main configuration.
//
// A Build may be run any number of times. Each run assembles a fresh
// configuration chain; only stamp files persist between runs.
type Build struct {
	config   map[string]any     // Values of the "main" level.
	defaults map[string]any     // Values of the "default" level.
	profiles map[string]Profile // Profiles by name.
	targets  []Target           // Registered top-level targets, in order.
	codes    map[string]Target  // Every reachable target by code.
}

// Selects what a run builds.
type RunOptions struct {
	Targets   []string       // Names or codes of top-level targets. Empty builds all of them.
	Profile   string         // Profile name. Empty selects [DefaultProfile].
	Overrides map[string]any // Values of the "overrides" level.
}

// Creates a new [Build] with the given main configuration.
//
// The build starts with the [Defaults] and an empty "default" profile.
func New(cfg map[string]any) *Build {
	return &Build{
		config:   maps.Clone(cfg),
		defaults: Defaults(),
		profiles: map[string]Profile{DefaultProfile: NewProfile(DefaultProfile, nil)},
		codes:    make(map[string]Target),
	}
}

// Adds p, replacing any profile with the same name.
func (b *Build) AddProfile(p Profile) {
	b.profiles[p.Name] = p
}

// Returns the profile called name.
func (b *Build) Profile(name string) (Profile, bool) {
	p, ok := b.profiles[name]
	return p, ok
}

// Returns the profile names, sorted.
func (b *Build) Profiles() []string {
	return slices.Sorted(maps.Keys(b.profiles))
}

// Registers t as a top-level target.
//
// The graph below t is validated first. Fails with [ErrDependencyCycle] or
// [ErrDuplicateTarget] without registering anything. Registering the same
// target twice is a no-op.
func (b *Build) Register(t Target) error {
	known := maps.Clone(b.codes)
	if err := validate(t, known); err != nil {
		return err
	}
	b.codes = known

	for _, r := range b.targets {
		if r == t {
			return nil
		}
	}
	b.targets = append(b.targets, t)
	return nil
}

// Returns the registered top-level targets in registration order.
func (b *Build) Targets() []Target {
	return b.targets
}

// Builds the selected targets.
//
// Targets and profile are resolved before anything is built, so an unknown
// name fails with [ErrTargetNotFound] or [ErrProfileNotFound] without side
// effects. The first failing target aborts the run.
func (b *Build) Run(ctx context.Context, opts RunOptions) error {
	targets, err := b.selectTargets(opts.Targets)
	if err != nil {
		return err
	}

	base, err := b.chain(opts.Profile, opts.Overrides)
	if err != nil {
		return err
	}

	for _, t := range targets {
		if err := ctx.Err(); err != nil {
			return err
		}

		// Each top-level target gets its own frame for published outputs.
		top, err := config.New(GlobalTargetLevel, nil, base)
		if err != nil {
			return err
		}
		if err := buildTarget(ctx, t, top); err != nil {
			return err
		}
	}

	slog.Info("build complete", "targets", len(targets))
	return nil
}

// Resolves names against the registered top-level targets.
func (b *Build) selectTargets(names []string) ([]Target, error) {
	if len(names) == 0 {
		return b.targets, nil
	}

	selected := make([]Target, 0, len(names))
	for _, name := range names {
		t := b.find(name)
		if t == nil {
			return nil, fmt.Errorf("%w: %q", ErrTargetNotFound, name)
		}
		selected = append(selected, t)
	}
	return selected, nil
}

func (b *Build) find(name string) Target {
	for _, t := range b.targets {
		if t.Name() == name {
			return t
		}
	}
	for _, t := range b.targets {
		if t.Code() == name {
			return t
		}
	}
	return nil
}

// Assembles default, main, profile and overrides levels, then rebases
// "directory.root" onto the profile code.
func (b *Build) chain(profile string, overrides map[string]any) (*config.Config, error) {
	if profile == "" {
		profile = DefaultProfile
	}
	p, ok := b.profiles[profile]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrProfileNotFound, profile)
	}

	c, err := config.New(DefaultLevel, b.defaults, nil)
	if err != nil {
		return nil, err
	}
	if c, err = config.New(MainLevel, b.config, c); err != nil {
		return nil, err
	}
	if c, err = config.New(p.Level(), p.Config, c); err != nil {
		return nil, err
	}
	if c, err = config.New(OverridesLevel, overrides, c); err != nil {
		return nil, err
	}

	root, err := config.String(c, "directory.root")
	if errors.Is(err, config.ErrKeyNotFound) {
		return nil, ErrMissingRoot
	}
	if err != nil {
		return nil, err
	}
	c.Set("directory.root", filepath.Join(root, p.Code))

	slog.Debug("configuration ready", "profile", p.Name, "root", filepath.Join(root, p.Code))
	return c, nil
}
