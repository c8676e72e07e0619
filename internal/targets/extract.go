package targets

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/cruciblehq/builder/internal/build"
	"github.com/cruciblehq/builder/internal/config"
	"github.com/cruciblehq/builder/internal/paths"
)

var extractKind = blueprint{
	local: []string{"file.name", "directory.output"},
	defaults: map[string]any{
		"directory.output": follow("directory.source"),
	},
	new: func(b *build.Base) build.Target { return &Extract{b} },
}

// Unpacks an archive into a directory.
//
// Supported formats are tar, optionally compressed with gzip, zstd or lz4,
// and zip. The output directory is published as "directory.output".
type Extract struct {
	*build.Base
}

// Unpacks "file.name" into "directory.output".
func (e *Extract) Build(ctx context.Context, tc *build.TargetConfig) error {
	file, err := config.String(tc, "file.name")
	if err != nil {
		return err
	}
	dir, err := config.String(tc, "directory.output")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, paths.DefaultDirMode); err != nil {
		return fmt.Errorf("%w: %w", ErrArchive, err)
	}

	slog.Info("extracting", "target", e.Name(), "file", file)
	slog.Debug("extraction directory", "target", e.Name(), "dir", dir)
	return unpack(file, dir)
}

// Publishes the output directory as "directory.output".
func (e *Extract) PostBuild(ctx context.Context, tc *build.TargetConfig) error {
	dir, err := config.String(tc, "directory.output")
	if err != nil {
		return err
	}
	return tc.Publish("directory.output", dir)
}
