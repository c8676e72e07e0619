package targets

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/cruciblehq/builder/internal/build"
	"github.com/cruciblehq/builder/internal/config"
)

type entry struct {
	name string
	body string
	dir  bool
}

var sampleEntries = []entry{
	{name: "zlib-1.3", dir: true},
	{name: "zlib-1.3/README", body: "zlib"},
	{name: "zlib-1.3/src/inflate.c", body: "int inflate;"},
}

func tarBytes(t *testing.T, entries []entry) []byte {
	t.Helper()
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	for _, e := range entries {
		hdr := &tar.Header{Name: e.name, Mode: 0o644, Size: int64(len(e.body)), Typeflag: tar.TypeReg}
		if e.dir {
			hdr = &tar.Header{Name: e.name + "/", Mode: 0o755, Typeflag: tar.TypeDir}
		}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatal(err)
		}
		if _, err := tw.Write([]byte(e.body)); err != nil {
			t.Fatal(err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func compress(t *testing.T, name string, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	var w io.WriteCloser
	switch filepath.Ext(name) {
	case ".gz", ".tgz":
		w = gzip.NewWriter(&buf)
	case ".zst":
		zw, err := zstd.NewWriter(&buf)
		if err != nil {
			t.Fatal(err)
		}
		w = zw
	case ".lz4":
		w = lz4.NewWriter(&buf)
	default:
		return data
	}
	if _, err := w.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func zipBytes(t *testing.T, entries []entry) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		if e.dir {
			if _, err := zw.Create(e.name + "/"); err != nil {
				t.Fatal(err)
			}
			continue
		}
		w, err := zw.Create(e.name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(e.body)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		want format
	}{
		{"a.tar", formatTar},
		{"a.tar.gz", formatTarGzip},
		{"A.TGZ", formatTarGzip},
		{"a.tar.zst", formatTarZstd},
		{"a.tar.lz4", formatTarLZ4},
		{"a.zip", formatZip},
		{"a.tar.bz2", formatUnknown},
	}
	for _, tt := range tests {
		if got := detectFormat(tt.name); got != tt.want {
			t.Fatalf("detectFormat(%q) = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestExtract(t *testing.T) {
	for _, name := range []string{"zlib.tar", "zlib.tar.gz", "zlib.tgz", "zlib.tar.zst", "zlib.tar.lz4", "zlib.zip"} {
		t.Run(name, func(t *testing.T) {
			archive := filepath.Join(t.TempDir(), name)
			data := compress(t, name, tarBytes(t, sampleEntries))
			if filepath.Ext(name) == ".zip" {
				data = zipBytes(t, sampleEntries)
			}
			if err := os.WriteFile(archive, data, 0o644); err != nil {
				t.Fatal(err)
			}

			out := t.TempDir()
			ex := mustNew(t, "extract", "unpack", nil, map[string]any{
				"file.name":        archive,
				"directory.output": out,
			})
			p := newProbe([]build.Target{ex}, "target.unpack.directory.output")
			runBuild(t, t.TempDir(), p, nil)

			if p.values["target.unpack.directory.output"] != out {
				t.Fatalf("directory.output = %v, want %s", p.values["target.unpack.directory.output"], out)
			}
			got, err := os.ReadFile(filepath.Join(out, "zlib-1.3", "src", "inflate.c"))
			if err != nil {
				t.Fatal(err)
			}
			if string(got) != "int inflate;" {
				t.Fatalf("content = %q, want %q", got, "int inflate;")
			}
		})
	}
}

func TestExtractFromDownload(t *testing.T) {
	archive := filepath.Join(t.TempDir(), "zlib.tar.gz")
	if err := os.WriteFile(archive, compress(t, archive, tarBytes(t, sampleEntries)), 0o644); err != nil {
		t.Fatal(err)
	}
	root := t.TempDir()

	dl := mustNew(t, "download", "download zlib", nil, map[string]any{"url": "file://" + archive})
	ex := mustNew(t, "extract", "extract zlib", []build.Target{dl}, map[string]any{
		"file.name": config.Template("${target.download_zlib.file.output}"),
	})
	runBuild(t, root, ex, nil)

	if _, err := os.Stat(filepath.Join(root, "default", "src", "zlib-1.3", "README")); err != nil {
		t.Fatalf("extracted file: %v", err)
	}
}

func TestUntarRejectsEscape(t *testing.T) {
	tests := []string{"../evil", "a/../../evil", "/etc/evil"}
	for _, name := range tests {
		data := tarBytes(t, []entry{{name: name, body: "x"}})
		out := t.TempDir()
		err := untar(bytes.NewReader(data), out)
		if !errors.Is(err, ErrArchive) {
			t.Fatalf("untar(%q) err = %v, want ErrArchive", name, err)
		}
	}
}

func TestUntarSymlinkConfined(t *testing.T) {
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	outside := t.TempDir()
	tw.WriteHeader(&tar.Header{Name: "link", Typeflag: tar.TypeSymlink, Linkname: outside, Mode: 0o777})
	tw.WriteHeader(&tar.Header{Name: "link/owned", Typeflag: tar.TypeReg, Mode: 0o644, Size: 1})
	tw.Write([]byte("x"))
	tw.Close()

	out := t.TempDir()
	if err := untar(&buf, out); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(outside, "owned")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("file written outside the output directory: %v", err)
	}
}
