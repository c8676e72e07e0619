package build

import (
	"io"
	"maps"

	"github.com/cruciblehq/builder/internal/config"
	"github.com/cruciblehq/builder/internal/process"
)

// Describes one external command run on behalf of a target.
//
// Nil echo flags fall back to "process.echo.stdout" and
// "process.echo.stderr".
type CallOptions struct {
	Dir           string            // Working directory. Empty uses the current one.
	Env           map[string]string // Variables overlaid on the configured environment.
	Stdin         bool              // Whether the child inherits stdin.
	CaptureStdout bool              // Return stdout.
	CaptureStderr bool              // Return stderr.
	EchoStdout    *bool             // Overrides "process.echo.stdout".
	EchoStderr    *bool             // Overrides "process.echo.stderr".
	Stdout        io.Writer         // Echo destination for stdout. Defaults to os.Stdout.
	Stderr        io.Writer         // Echo destination for stderr. Defaults to os.Stderr.
}

// Process settings a target's configuration contributes to every call.
//
// Call options are overlaid through resolve without modifying the state.
type callState struct {
	env        map[string]string
	echoStdout bool
	echoStderr bool
}

// Reads the process settings visible to g.
func newCallState(g config.Getter) (*callState, error) {
	s := &callState{env: make(map[string]string)}

	inherit, err := config.Bool(g, "process.inherit_environment")
	if err != nil {
		return nil, err
	}
	if inherit {
		maps.Copy(s.env, process.Environ())
	}

	env, err := config.StringMap(g, "process.environment")
	if err != nil {
		return nil, err
	}
	maps.Copy(s.env, env)

	if s.echoStdout, err = config.Bool(g, "process.echo.stdout"); err != nil {
		return nil, err
	}
	if s.echoStderr, err = config.Bool(g, "process.echo.stderr"); err != nil {
		return nil, err
	}

	return s, nil
}

// Returns a new [callState] with the call's overrides applied. The receiver
// is not modified.
func (s *callState) resolve(opts CallOptions) *callState {
	resolved := &callState{
		env:        process.MergeEnv(s.env, opts.Env),
		echoStdout: s.echoStdout,
		echoStderr: s.echoStderr,
	}
	if opts.EchoStdout != nil {
		resolved.echoStdout = *opts.EchoStdout
	}
	if opts.EchoStderr != nil {
		resolved.echoStderr = *opts.EchoStderr
	}
	return resolved
}

// Runs args to completion with settings taken from the target's
// configuration.
//
// The environment is the ambient one when "process.inherit_environment" is
// set, overlaid with "process.environment" and then opts.Env. Returns the
// captured stdout and stderr.
func Call(tc *TargetConfig, args []string, opts CallOptions) ([]byte, []byte, error) {
	state, err := newCallState(tc)
	if err != nil {
		return nil, nil, err
	}
	resolved := state.resolve(opts)

	return process.Run(process.Options{
		Args:          args,
		Dir:           opts.Dir,
		Env:           resolved.env,
		Stdin:         opts.Stdin,
		CaptureStdout: opts.CaptureStdout,
		CaptureStderr: opts.CaptureStderr,
		EchoStdout:    resolved.echoStdout,
		EchoStderr:    resolved.echoStderr,
		Stdout:        opts.Stdout,
		Stderr:        opts.Stderr,
	})
}
