// Package build schedules targets and resolves their configuration.
//
// A [Target] is a named build step with dependencies. Targets form a DAG
// that is validated when registered with a [Build]. [Build.Run] resolves the
// requested targets and profile, assembles the configuration chain
//
//	default -> main -> profile.<code> -> overrides
//
// rebases "directory.root" onto the profile code, and builds each selected
// target on its own "target" frame.
//
// Building a target pushes a "target.<code>" frame seeded with the target's
// declared configuration, builds every dependency on top of that frame,
// then decides whether to rebuild. A target is rebuilt when
// "always_outdated" is set or when it reports itself outdated, which by
// default means its stamp file is missing. After a successful build the
// stamp file is touched. Post-build hooks always run, so skipped targets
// can republish outputs for their dependents.
//
// Targets read and write configuration through a [TargetConfig], which
// applies [Scope] addressing: Local keys live under "target.<code>.", Global
// keys are used as-is, and Auto reads try Local before Global.
//
// Example usage:
//
//	b := build.New(map[string]any{"directory.root": "/tmp/out"})
//	if err := b.Register(myTarget); err != nil {
//	    return err
//	}
//	if err := b.Run(ctx, build.RunOptions{Profile: "default"}); err != nil {
//	    return err
//	}
package build
