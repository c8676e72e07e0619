package targets

import (
	"archive/tar"
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	securejoin "github.com/cyphar/filepath-securejoin"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/cruciblehq/builder/internal/paths"
)

// Archive formats recognized by file name suffix.
type format int

const (
	formatUnknown format = iota
	formatTar
	formatTarGzip
	formatTarZstd
	formatTarLZ4
	formatZip
)

var suffixes = []struct {
	suffix string
	format format
}{
	{".tar.gz", formatTarGzip},
	{".tgz", formatTarGzip},
	{".tar.zst", formatTarZstd},
	{".tzst", formatTarZstd},
	{".tar.lz4", formatTarLZ4},
	{".tar", formatTar},
	{".zip", formatZip},
}

// Returns the archive format of name.
func detectFormat(name string) format {
	lower := strings.ToLower(name)
	for _, s := range suffixes {
		if strings.HasSuffix(lower, s.suffix) {
			return s.format
		}
	}
	return formatUnknown
}

// Unpacks the archive at file into dir.
func unpack(file, dir string) error {
	f := detectFormat(file)
	if f == formatUnknown {
		return fmt.Errorf("%w: unrecognized archive format: %s", ErrArchive, file)
	}
	if f == formatZip {
		return unzip(file, dir)
	}

	in, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrArchive, err)
	}
	defer in.Close()

	var r io.Reader = in
	switch f {
	case formatTarGzip:
		gz, err := gzip.NewReader(in)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrArchive, err)
		}
		defer gz.Close()
		r = gz
	case formatTarZstd:
		zr, err := zstd.NewReader(in)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrArchive, err)
		}
		defer zr.Close()
		r = zr
	case formatTarLZ4:
		r = lz4.NewReader(in)
	}

	return untar(r, dir)
}

// Extracts a tar stream into dir.
//
// Entry names and hard link targets are resolved inside dir; an entry that
// would land outside it fails with [ErrArchive]. Symbolic links are created
// as stored, since later entries are resolved through them within dir.
func untar(r io.Reader, dir string) error {
	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: %w", ErrArchive, err)
		}

		target, err := entryPath(dir, hdr.Name)
		if err != nil {
			return err
		}
		mode := hdr.FileInfo().Mode().Perm()

		switch hdr.Typeflag {
		case tar.TypeDir:
			err = os.MkdirAll(target, mode|0o700)
		case tar.TypeReg:
			err = writeFile(target, tr, mode)
		case tar.TypeSymlink:
			err = symlink(hdr.Linkname, target)
		case tar.TypeLink:
			var source string
			if source, err = entryPath(dir, hdr.Linkname); err == nil {
				err = link(source, target)
			}
		default:
			continue
		}
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrArchive, hdr.Name, err)
		}
	}
}

// Extracts the zip archive at file into dir.
func unzip(file, dir string) error {
	zr, err := zip.OpenReader(file)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrArchive, err)
	}
	defer zr.Close()

	for _, zf := range zr.File {
		target, err := entryPath(dir, zf.Name)
		if err != nil {
			return err
		}
		if err := unzipEntry(zf, target); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrArchive, zf.Name, err)
		}
	}
	return nil
}

func unzipEntry(zf *zip.File, target string) error {
	info := zf.FileInfo()
	if info.IsDir() {
		return os.MkdirAll(target, info.Mode().Perm()|0o700)
	}

	rc, err := zf.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	if info.Mode()&os.ModeSymlink != 0 {
		dest, err := io.ReadAll(rc)
		if err != nil {
			return err
		}
		return symlink(string(dest), target)
	}
	return writeFile(target, rc, info.Mode().Perm())
}

// Resolves the archive entry name inside dir.
func entryPath(dir, name string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(name))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: entry %q escapes the output directory", ErrArchive, name)
	}
	target, err := securejoin.SecureJoin(dir, clean)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrArchive, err)
	}
	return target, nil
}

func writeFile(target string, r io.Reader, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), paths.DefaultDirMode); err != nil {
		return err
	}
	if mode == 0 {
		mode = paths.DefaultFileMode
	}
	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func symlink(dest, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), paths.DefaultDirMode); err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return os.Symlink(dest, target)
}

func link(source, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), paths.DefaultDirMode); err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return os.Link(source, target)
}
