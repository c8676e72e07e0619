package main

import (
	"log/slog"
	"os"

	"github.com/cruciblehq/builder/internal"
	"github.com/cruciblehq/builder/internal/cli"
	"github.com/cruciblehq/builder/internal/logging"
)

// The entry point for the builder.
//
// Initializes logging, displays startup information, and executes the root
// command. If any error occurs during execution, it exits with a non-zero code.
func main() {
	logging.Init(os.Stderr, internal.Verbosity(), false)

	slog.Debug("build", "version", internal.VersionString())

	slog.Debug("builder is running",
		"pid", os.Getpid(),
		"cwd", cwd(),
		"args", os.Args,
	)

	if err := cli.Execute(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

// Returns the current working directory or "(unknown)".
func cwd() string {
	cwd, err := os.Getwd()
	if err != nil {
		return "(unknown)"
	}
	return cwd
}
