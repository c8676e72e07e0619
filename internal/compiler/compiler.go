package compiler

import (
	"fmt"
	"regexp"
	"slices"

	"github.com/cruciblehq/builder/internal/config"
	"github.com/cruciblehq/builder/internal/process"
)

// Compiler family.
type Family string

const (
	Clang Family = "clang"
	GCC   Family = "gcc"
)

// Languages flags can be derived for.
var Languages = []string{"c", "c++"}

// Runs a command and returns its captured stdout and stderr.
type Runner func(args []string) ([]byte, []byte, error)

// Runs args through a PTY with both streams captured and echo disabled.
func ProcessRunner(args []string) ([]byte, []byte, error) {
	return process.Run(process.Options{
		Args:          args,
		CaptureStdout: true,
		CaptureStderr: true,
	})
}

// A detected compiler.
type Compiler struct {
	Family     Family // Compiler family.
	Version    string // Version from the banner, e.g. "3.5.0".
	Executable string // Command the compiler was detected from.
	Language   string // Language the compiler was configured for.
}

var banners = []struct {
	family Family
	re     *regexp.Regexp
}{
	{Clang, regexp.MustCompile(`clang version ((?:[0-9]+\.?)+)`)},
	{GCC, regexp.MustCompile(`gcc version ((?:[0-9]+\.?)+)`)},
}

// Detects the compiler configured as "language.<lang>.compiler".
//
// Fails with [ErrUnknownConfigValue] for a language other than c or c++,
// and with [ErrUnsupportedCompiler] when the banner is not recognized. A
// failing "-v" invocation is treated as unrecognized.
func Detect(lang string, g config.Getter, run Runner) (*Compiler, error) {
	if !slices.Contains(Languages, lang) {
		return nil, fmt.Errorf("%w: language %q", ErrUnknownConfigValue, lang)
	}

	exe, err := config.String(g, "language."+lang+".compiler")
	if err != nil {
		return nil, err
	}

	stdout, stderr, err := run([]string{exe, "-v"})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnsupportedCompiler, exe, err)
	}

	banner := string(stderr) + string(stdout)
	for _, b := range banners {
		if m := b.re.FindStringSubmatch(banner); m != nil {
			return &Compiler{Family: b.family, Version: m[1], Executable: exe, Language: lang}, nil
		}
	}

	return nil, fmt.Errorf("%w: could not detect compiler at %s; configure language.%s.flags manually", ErrUnsupportedCompiler, exe, lang)
}

// Returns a deferred value detecting the compiler for lang with
// [ProcessRunner] and deriving its flags.
func DeferredFlags(lang string) config.Deferred {
	return func(g config.Getter) (any, error) {
		c, err := Detect(lang, g, ProcessRunner)
		if err != nil {
			return nil, err
		}
		return c.Flags(g)
	}
}
