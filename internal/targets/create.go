package targets

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/cruciblehq/builder/internal/build"
	"github.com/cruciblehq/builder/internal/config"
	"github.com/cruciblehq/builder/internal/paths"
)

var createKind = blueprint{
	local: []string{"file.name", "file.kind", "file.content", "file.mode"},
	defaults: map[string]any{
		"file.kind":    "file",
		"file.content": "",
		"file.mode":    "",
	},
	new: func(b *build.Base) build.Target { return &Create{b} },
}

// Creates a file with fixed content, or a directory.
//
// "file.kind" is "file" or "directory". "file.mode" is an octal string such
// as "0755" or an integer; empty keeps the default mode.
type Create struct {
	*build.Base
}

// Creates "file.name".
func (c *Create) Build(ctx context.Context, tc *build.TargetConfig) error {
	name, err := config.String(tc, "file.name")
	if err != nil {
		return err
	}
	kind, err := config.String(tc, "file.kind")
	if err != nil {
		return err
	}
	mode, err := fileMode(tc, "file.mode")
	if err != nil {
		return err
	}

	slog.Info("creating", "target", c.Name(), "kind", kind, "path", name)

	switch kind {
	case "file":
		content, err := config.String(tc, "file.content")
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(name), paths.DefaultDirMode); err != nil {
			return err
		}
		if err := os.WriteFile(name, []byte(content), paths.DefaultFileMode); err != nil {
			return err
		}
	case "directory":
		if err := os.MkdirAll(name, paths.DefaultDirMode); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: %q", ErrFileKind, kind)
	}

	if mode != 0 {
		return os.Chmod(name, mode)
	}
	return nil
}

// Returns the permission bits at key, or 0 if unset.
func fileMode(g config.Getter, key string) (os.FileMode, error) {
	v, err := g.Get(key)
	if err != nil {
		return 0, err
	}
	if s, ok := v.(string); ok {
		if s == "" {
			return 0, nil
		}
		m, err := strconv.ParseUint(s, 8, 32)
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not an octal mode: %w", config.ErrType, key, err)
		}
		return os.FileMode(m).Perm(), nil
	}
	m, err := config.Int(g, key)
	if err != nil {
		return 0, err
	}
	return os.FileMode(m).Perm(), nil
}
