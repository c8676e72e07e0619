package build

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cruciblehq/builder/internal/config"
	"github.com/cruciblehq/builder/internal/paths"
)

// Returns the path of the stamp file of the target bound to tc.
//
// Stamps live in "directory.stamps" and are named ".stamp-<code>".
func StampFile(tc *TargetConfig) (string, error) {
	dir, err := config.String(tc, "directory.stamps")
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ".stamp-"+tc.Code()), nil
}

// Reports whether the stamp file of the target bound to tc is absent.
//
// This is the staleness check used for targets that do not implement
// [Outdater].
func StampMissing(ctx context.Context, tc *TargetConfig) (bool, error) {
	stamp, err := StampFile(tc)
	if err != nil {
		return false, err
	}
	return Missing(stamp)
}

// Reports whether path does not exist.
func Missing(path string) (bool, error) {
	_, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrFileSystemOperation, err)
	}
	return false, nil
}

// Creates the stamp file, and its directory if needed.
//
// An existing stamp is left untouched; only its presence matters.
func touch(stamp string) error {
	if err := os.MkdirAll(filepath.Dir(stamp), paths.DefaultDirMode); err != nil {
		return fmt.Errorf("%w: %w", ErrFileSystemOperation, err)
	}
	f, err := os.OpenFile(stamp, os.O_WRONLY|os.O_CREATE, paths.DefaultFileMode)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFileSystemOperation, err)
	}
	return f.Close()
}
