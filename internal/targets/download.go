package targets

import (
	"context"
	_ "crypto/sha256"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/opencontainers/go-digest"

	"github.com/cruciblehq/builder/internal/build"
	"github.com/cruciblehq/builder/internal/config"
	"github.com/cruciblehq/builder/internal/paths"
)

var downloadKind = blueprint{
	local: []string{"url", "directory.target", "digest"},
	defaults: map[string]any{
		"directory.target": follow("directory.packages"),
		"digest":           "",
	},
	new: func(b *build.Base) build.Target { return &Download{Base: b} },
}

// Fetches a URL into a directory.
//
// The file keeps the last path segment of the URL as its name. When
// "digest" is set ("sha256:<hex>"), the content is verified before the file
// is put in place. The file is published as "file.output".
type Download struct {
	*build.Base
}

// HTTP client for downloads. Also serves file:// URLs.
var client = newClient()

// Reports whether the downloaded file is missing.
func (d *Download) Outdated(ctx context.Context, tc *build.TargetConfig) (bool, error) {
	file, err := d.file(tc)
	if err != nil {
		return false, err
	}
	return build.Missing(file)
}

// Downloads the file.
//
// Data is written to a temporary file next to the destination and renamed
// once complete and verified, so an interrupted download is retried.
func (d *Download) Build(ctx context.Context, tc *build.TargetConfig) error {
	rawURL, err := config.String(tc, "url")
	if err != nil {
		return err
	}
	file, err := d.file(tc)
	if err != nil {
		return err
	}
	expected, err := config.String(tc, "digest")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(file), paths.DefaultDirMode); err != nil {
		return fmt.Errorf("%w: %w", ErrDownload, err)
	}

	slog.Info("downloading", "target", d.Name(), "url", rawURL, "file", file)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDownload, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDownload, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s: %s", ErrDownload, rawURL, resp.Status)
	}

	tmp, err := os.CreateTemp(filepath.Dir(file), ".download-*")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDownload, err)
	}
	defer os.Remove(tmp.Name())

	n, err := fetch(tmp, resp.Body, expected)
	if cerr := tmp.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("%w: %w", ErrDownload, cerr)
	}
	if err != nil {
		return err
	}

	if err := os.Rename(tmp.Name(), file); err != nil {
		return fmt.Errorf("%w: %w", ErrDownload, err)
	}

	slog.Info("downloaded", "target", d.Name(), "size", humanize.Bytes(uint64(n)))
	return nil
}

// Publishes the downloaded file as "file.output".
func (d *Download) PostBuild(ctx context.Context, tc *build.TargetConfig) error {
	file, err := d.file(tc)
	if err != nil {
		return err
	}
	return tc.Publish("file.output", file)
}

// Returns the destination path of the download.
func (d *Download) file(tc *build.TargetConfig) (string, error) {
	rawURL, err := config.String(tc, "url")
	if err != nil {
		return "", err
	}
	dir, err := config.String(tc, "directory.target")
	if err != nil {
		return "", err
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDownload, err)
	}
	name := path.Base(u.Path)
	if name == "/" || name == "." {
		return "", fmt.Errorf("%w: %s has no file name", ErrDownload, rawURL)
	}
	return filepath.Join(dir, name), nil
}

func newClient() *http.Client {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.RegisterProtocol("file", http.NewFileTransport(http.Dir("/")))
	return &http.Client{Transport: t}
}

// Copies body to w, verifying it against expected when set.
func fetch(w io.Writer, body io.Reader, expected string) (int64, error) {
	if expected == "" {
		n, err := io.Copy(w, body)
		if err != nil {
			return n, fmt.Errorf("%w: %w", ErrDownload, err)
		}
		return n, nil
	}

	want, err := digest.Parse(expected)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrDigestMismatch, err)
	}
	verifier := want.Verifier()

	n, err := io.Copy(io.MultiWriter(w, verifier), body)
	if err != nil {
		return n, fmt.Errorf("%w: %w", ErrDownload, err)
	}
	if !verifier.Verified() {
		return n, fmt.Errorf("%w: want %s", ErrDigestMismatch, want)
	}
	return n, nil
}
