package build

import (
	"bytes"
	"testing"

	"github.com/cruciblehq/builder/internal/config"
)

func newCallView(t *testing.T, values map[string]any) *TargetConfig {
	t.Helper()
	defaults, err := config.New(DefaultLevel, Defaults(), nil)
	if err != nil {
		t.Fatal(err)
	}
	main, err := config.New(MainLevel, values, defaults)
	if err != nil {
		t.Fatal(err)
	}
	frame, err := config.New("target.t", nil, main)
	if err != nil {
		t.Fatal(err)
	}
	return NewTargetConfig("t", frame)
}

func TestCallStateEnvironment(t *testing.T) {
	t.Setenv("BUILDER_AMBIENT", "yes")

	tc := newCallView(t, map[string]any{
		"process.environment": map[string]any{"CC": "clang", "CFLAGS": "-O2"},
	})
	state, err := newCallState(tc)
	if err != nil {
		t.Fatal(err)
	}
	if state.env["BUILDER_AMBIENT"] != "yes" {
		t.Fatalf("ambient variable missing: %v", state.env["BUILDER_AMBIENT"])
	}

	resolved := state.resolve(CallOptions{Env: map[string]string{"CFLAGS": "-O0"}})
	if resolved.env["CC"] != "clang" {
		t.Fatalf("CC = %q, want clang", resolved.env["CC"])
	}
	if resolved.env["CFLAGS"] != "-O0" {
		t.Fatalf("CFLAGS = %q, want -O0", resolved.env["CFLAGS"])
	}
	if state.env["CFLAGS"] != "-O2" {
		t.Fatalf("state modified: CFLAGS = %q", state.env["CFLAGS"])
	}
}

func TestCallStateNoInherit(t *testing.T) {
	t.Setenv("BUILDER_AMBIENT", "yes")

	tc := newCallView(t, map[string]any{"process.inherit_environment": false})
	state, err := newCallState(tc)
	if err != nil {
		t.Fatal(err)
	}
	if len(state.env) != 0 {
		t.Fatalf("env = %v, want empty", state.env)
	}
}

func TestCallStateEcho(t *testing.T) {
	tc := newCallView(t, map[string]any{"process.echo.stderr": true})
	state, err := newCallState(tc)
	if err != nil {
		t.Fatal(err)
	}
	if state.echoStdout || !state.echoStderr {
		t.Fatalf("echo = %v/%v, want false/true", state.echoStdout, state.echoStderr)
	}

	on := true
	off := false
	resolved := state.resolve(CallOptions{EchoStdout: &on, EchoStderr: &off})
	if !resolved.echoStdout || resolved.echoStderr {
		t.Fatalf("resolved echo = %v/%v, want true/false", resolved.echoStdout, resolved.echoStderr)
	}
}

func TestCall(t *testing.T) {
	tc := newCallView(t, map[string]any{
		"process.environment": map[string]any{"GREETING": "hello"},
		"process.echo.stdout": true,
	})

	var echo bytes.Buffer
	stdout, _, err := Call(tc, []string{"/bin/sh", "-c", `printf "%s\n" "$GREETING"`}, CallOptions{
		CaptureStdout: true,
		Stdout:        &echo,
	})
	if err != nil {
		t.Fatal(err)
	}
	if string(stdout) != "hello\n" {
		t.Fatalf("stdout = %q, want %q", stdout, "hello\n")
	}
	if echo.String() != "hello\n" {
		t.Fatalf("echo = %q, want %q", echo.String(), "hello\n")
	}
}
