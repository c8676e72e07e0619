package process

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const shell = "/bin/sh"

func TestCaptureWithoutEcho(t *testing.T) {
	var echo bytes.Buffer
	stdout, stderr, err := Run(Options{
		Args:          []string{shell, "-c", `printf 'Well done!\n'`},
		CaptureStdout: true,
		Stdout:        &echo,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if string(stdout) != "Well done!\n" {
		t.Fatalf("stdout = %q, want %q", stdout, "Well done!\n")
	}
	if len(stderr) != 0 {
		t.Fatalf("stderr = %q, want empty", stderr)
	}
	if echo.Len() != 0 {
		t.Fatalf("echo = %q, want nothing written", echo.String())
	}
}

func TestCaptureAndEcho(t *testing.T) {
	var echo bytes.Buffer
	stdout, _, err := Run(Options{
		Args:          []string{shell, "-c", `printf 'one\ntwo\n'`},
		CaptureStdout: true,
		EchoStdout:    true,
		Stdout:        &echo,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if string(stdout) != "one\ntwo\n" {
		t.Fatalf("stdout = %q", stdout)
	}
	if echo.String() != "one\ntwo\n" {
		t.Fatalf("echo = %q, want live copy", echo.String())
	}
}

func TestEchoWithoutCapture(t *testing.T) {
	var echo bytes.Buffer
	stdout, _, err := Run(Options{
		Args:       []string{shell, "-c", `printf 'no newline'`},
		EchoStdout: true,
		Stdout:     &echo,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(stdout) != 0 {
		t.Fatalf("stdout = %q, want empty when not capturing", stdout)
	}
	if echo.String() != "no newline" {
		t.Fatalf("echo = %q, want trailing output flushed", echo.String())
	}
}

func TestStreamsAreIndependent(t *testing.T) {
	var echoOut, echoErr bytes.Buffer
	stdout, stderr, err := Run(Options{
		Args:          []string{shell, "-c", `printf out; printf err >&2`},
		CaptureStdout: true,
		CaptureStderr: true,
		EchoStderr:    true,
		Stdout:        &echoOut,
		Stderr:        &echoErr,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if string(stdout) != "out" || string(stderr) != "err" {
		t.Fatalf("stdout = %q, stderr = %q", stdout, stderr)
	}
	if echoOut.Len() != 0 {
		t.Fatalf("stdout echoed: %q", echoOut.String())
	}
	if echoErr.String() != "err" {
		t.Fatalf("stderr echo = %q", echoErr.String())
	}
}

func TestLargeOutput(t *testing.T) {
	stdout, _, err := Run(Options{
		Args:          []string{shell, "-c", `i=0; while [ $i -lt 3000 ]; do echo "line $i"; i=$((i+1)); done`},
		CaptureStdout: true,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	var want strings.Builder
	for i := 0; i < 3000; i++ {
		fmt.Fprintf(&want, "line %d\n", i)
	}
	if string(stdout) != want.String() {
		t.Fatalf("captured %d bytes, want %d", len(stdout), want.Len())
	}
}

func TestChildSeesTerminal(t *testing.T) {
	stdout, _, err := Run(Options{
		Args:          []string{shell, "-c", `if [ -t 1 ]; then printf tty; else printf pipe; fi`},
		CaptureStdout: true,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if string(stdout) != "tty" {
		t.Fatalf("stdout = %q, want tty", stdout)
	}
}

func TestNonZeroExit(t *testing.T) {
	_, stderr, err := Run(Options{
		Args:          []string{shell, "-c", `printf boom >&2; exit 3`},
		CaptureStderr: true,
	})
	if !errors.Is(err, ErrProcessFailed) {
		t.Fatalf("err = %v, want ErrProcessFailed", err)
	}
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("err = %T, want *ExitError", err)
	}
	if exitErr.Code != 3 {
		t.Fatalf("code = %d, want 3", exitErr.Code)
	}
	if exitErr.Args[0] != shell {
		t.Fatalf("args = %v", exitErr.Args)
	}
	if string(stderr) != "boom" {
		t.Fatalf("stderr = %q, want boom", stderr)
	}
}

func TestEnvironmentReplaces(t *testing.T) {
	t.Setenv("BUILDER_AMBIENT", "leaked")

	stdout, _, err := Run(Options{
		Args:          []string{shell, "-c", `printf '%s|%s' "$FOO" "$BUILDER_AMBIENT"`},
		Env:           map[string]string{"FOO": "bar"},
		CaptureStdout: true,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if string(stdout) != "bar|" {
		t.Fatalf("stdout = %q, want bar|", stdout)
	}
}

func TestWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	stdout, _, err := Run(Options{
		Args:          []string{shell, "-c", `pwd -P`},
		Dir:           dir,
		CaptureStdout: true,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	want, err := filepath.EvalSymlinks(dir)
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(string(stdout)); got != want {
		t.Fatalf("pwd = %q, want %q", got, want)
	}
}

func TestStartErrors(t *testing.T) {
	if _, err := Start(Options{}); !errors.Is(err, ErrStart) {
		t.Fatalf("empty args err = %v, want ErrStart", err)
	}

	missing := filepath.Join(t.TempDir(), "does-not-exist")
	if _, err := Start(Options{Args: []string{missing}}); !errors.Is(err, ErrStart) {
		t.Fatalf("missing binary err = %v, want ErrStart", err)
	}
}

func TestEnviron(t *testing.T) {
	t.Setenv("BUILDER_TEST_VAR", "a=b")
	env := Environ()
	if env["BUILDER_TEST_VAR"] != "a=b" {
		t.Fatalf("BUILDER_TEST_VAR = %q, want a=b", env["BUILDER_TEST_VAR"])
	}
	if _, ok := env["PATH"]; !ok && os.Getenv("PATH") != "" {
		t.Fatal("PATH missing from Environ()")
	}
}
