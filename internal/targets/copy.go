package targets

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cruciblehq/builder/internal/build"
	"github.com/cruciblehq/builder/internal/config"
	"github.com/cruciblehq/builder/internal/paths"
)

var copyKind = blueprint{
	local: []string{"source", "destination"},
	new:   func(b *build.Base) build.Target { return &Copy{b} },
}

// Copies a file or directory tree.
//
// The source is streamed as a tar archive into the parent directory of the
// destination, so the same confinement rules as extraction apply.
type Copy struct {
	*build.Base
}

// Copies "source" to "destination".
func (c *Copy) Build(ctx context.Context, tc *build.TargetConfig) error {
	src, err := config.String(tc, "source")
	if err != nil {
		return err
	}
	dest, err := config.String(tc, "destination")
	if err != nil {
		return err
	}
	return copyPath(src, dest)
}

// Copies the file or directory at src to dest.
func copyPath(src, dest string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCopy, err)
	}

	destDir := filepath.Dir(dest)
	if err := os.MkdirAll(destDir, paths.DefaultDirMode); err != nil {
		return fmt.Errorf("%w: %w", ErrCopy, err)
	}

	slog.Debug("copy", "src", src, "dest", dest, "dir", info.IsDir())

	pr, pw := io.Pipe()

	go func() {
		tw := tar.NewWriter(pw)
		var writeErr error

		if info.IsDir() {
			writeErr = writeDirToTar(tw, src, filepath.Base(dest))
		} else {
			writeErr = writeFileToTar(tw, src, filepath.Base(dest))
		}

		if err := tw.Close(); writeErr == nil {
			writeErr = err
		}
		pw.CloseWithError(writeErr)
	}()

	err = untar(pr, destDir)
	pr.CloseWithError(err)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCopy, err)
	}
	return nil
}

// Writes a single file to a tar writer with the given archive name.
func writeFileToTar(tw *tar.Writer, hostPath, name string) error {
	info, err := os.Stat(hostPath)
	if err != nil {
		return err
	}

	header, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return err
	}
	header.Name = name

	if err := tw.WriteHeader(header); err != nil {
		return err
	}

	f, err := os.Open(hostPath)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(tw, f)
	return err
}

// Writes a directory tree to a tar writer rooted at the given archive prefix.
func writeDirToTar(tw *tar.Writer, hostDir, prefix string) error {
	return filepath.WalkDir(hostDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(hostDir, path)
		if err != nil {
			return err
		}

		archivePath := filepath.ToSlash(filepath.Join(prefix, relPath))
		return writeTarEntry(tw, path, archivePath, d)
	})
}

// Writes a single file, directory or symlink entry to a tar writer.
func writeTarEntry(tw *tar.Writer, hostPath, archivePath string, d os.DirEntry) error {
	info, err := d.Info()
	if err != nil {
		return err
	}

	var linkname string
	if info.Mode()&os.ModeSymlink != 0 {
		if linkname, err = os.Readlink(hostPath); err != nil {
			return err
		}
	}

	header, err := tar.FileInfoHeader(info, linkname)
	if err != nil {
		return err
	}
	header.Name = archivePath

	if err := tw.WriteHeader(header); err != nil {
		return err
	}

	if info.Mode().IsRegular() {
		f, err := os.Open(hostPath)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(tw, f)
		return err
	}

	return nil
}
