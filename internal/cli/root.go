package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/cruciblehq/builder/internal"
	"github.com/cruciblehq/builder/internal/build"
	"github.com/cruciblehq/builder/internal/logging"
	"github.com/cruciblehq/builder/internal/manifest"
	"github.com/cruciblehq/builder/internal/paths"
)

// Represents the root command of the builder.
type RootCmd struct {
	Verbose int               `short:"v" type:"counter" help:"Increase log detail. Repeatable."`
	Profile string            `short:"p" default:"default" help:"Select the build profile." placeholder:"NAME"`
	File    string            `short:"f" type:"path" help:"Manifest to load." placeholder:"PATH"`
	Set     map[string]string `short:"D" help:"Override a configuration key." placeholder:"KEY=VALUE"`
	List    bool              `short:"l" help:"List targets and profiles, then exit."`
	Version kong.VersionFlag  `help:"Show version information."`
	Targets []string          `arg:"" optional:"" help:"Targets to build. Builds every root target if none is given." placeholder:"TARGET"`

	stdout io.Writer
}

// Parses arguments, configures logging, and runs the build.
func Execute() error {

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	root := &RootCmd{stdout: os.Stdout}
	parser, err := newParser(root, kong.BindTo(ctx, (*context.Context)(nil)))
	if err != nil {
		return err
	}

	kongCtx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	configureLogger(root.Verbose)

	return kongCtx.Run()
}

// Creates the kong parser for root.
func newParser(root *RootCmd, options ...kong.Option) (*kong.Kong, error) {
	options = append([]kong.Option{
		kong.Name(internal.Name),
		kong.Description("Integration-centered build orchestrator.\n\nBuilds the targets declared in a manifest, skipping those already up to date."),
		kong.UsageOnError(),
		kong.Vars{
			"version": internal.VersionString(),
		},
	}, options...)
	return kong.New(root, options...)
}

// Loads the manifest and builds the selected targets.
func (c *RootCmd) Run(ctx context.Context) error {
	b, err := c.load()
	if err != nil {
		return err
	}

	if c.List {
		return c.list(b)
	}

	return b.Run(ctx, build.RunOptions{
		Targets:   c.Targets,
		Profile:   c.Profile,
		Overrides: parseOverrides(c.Set),
	})
}

// Loads the manifest named by -f, or the first one found.
func (c *RootCmd) load() (*build.Build, error) {
	path := c.File
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		if path, err = paths.Manifest(cwd); err != nil {
			return nil, fmt.Errorf("%w: create %s or pass --file", err, paths.UserManifest())
		}
	}

	m, err := manifest.Load(path)
	if err != nil {
		return nil, err
	}
	return m.Build()
}

// Writes the registered targets and profile names.
func (c *RootCmd) list(b *build.Build) error {
	out := c.stdout
	if out == nil {
		out = os.Stdout
	}

	fmt.Fprintln(out, "targets:")
	for _, t := range b.Targets() {
		fmt.Fprintf(out, "  %s (%s)\n", t.Name(), t.Code())
	}

	fmt.Fprintln(out, "profiles:")
	for _, p := range b.Profiles() {
		fmt.Fprintf(out, "  %s\n", p)
	}
	return nil
}

// Parses -D values as YAML scalars or flow collections.
//
// A value that does not parse is kept as a string.
func parseOverrides(set map[string]string) map[string]any {
	overrides := make(map[string]any, len(set))
	for k, raw := range set {
		var v any
		if err := yaml.Unmarshal([]byte(raw), &v); err != nil || v == nil {
			v = raw
		}
		overrides[k] = v
	}
	return overrides
}

// Configures the global logger from the -v count and the build-time
// baseline. Colors are used only when stderr is a terminal.
func configureLogger(verbose int) {
	color := term.IsTerminal(int(os.Stderr.Fd()))
	logging.Init(os.Stderr, verbose+internal.Verbosity(), color)
}
