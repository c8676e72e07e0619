package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Manifest encoding.
type Format string

const (
	TOML Format = "toml"
	YAML Format = "yaml"
)

// Decoded manifest.
type Manifest struct {
	Config   map[string]any            `toml:"config" yaml:"config"`     // Values of the "main" level.
	Profiles map[string]map[string]any `toml:"profiles" yaml:"profiles"` // Profile configurations by name.
	Targets  []Target                  `toml:"targets" yaml:"targets"`   // Target declarations.
}

// Declares one target.
type Target struct {
	Name    string         `toml:"name" yaml:"name"`       // Display name.
	Kind    string         `toml:"kind" yaml:"kind"`       // Kind, see [targets.Kinds].
	Depends []string       `toml:"depends" yaml:"depends"` // Names of targets built first.
	Config  map[string]any `toml:"config" yaml:"config"`   // Configuration passed to the kind.
	Local   map[string]any `toml:"local" yaml:"local"`     // Extra keys namespaced to the target.
}

// Returns the format of path from its extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return TOML, nil
	case ".yaml", ".yml":
		return YAML, nil
	}
	return "", fmt.Errorf("%w: %s", ErrFormat, path)
}

// Reads and decodes the manifest at path.
func Load(path string) (*Manifest, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m, err := Decode(bytes.NewReader(data), format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Decodes a manifest from r.
func Decode(r io.Reader, format Format) (*Manifest, error) {
	var m Manifest
	switch format {
	case TOML:
		md, err := toml.NewDecoder(r).Decode(&m)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrManifest, err)
		}
		for _, key := range md.Undecoded() {
			if !freeForm(key) {
				return nil, fmt.Errorf("%w: unknown key %q", ErrManifest, key.String())
			}
		}
	case YAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&m); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %w", ErrManifest, err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrFormat, format)
	}
	return &m, nil
}

// Reports whether key lies in a table holding arbitrary configuration.
func freeForm(key toml.Key) bool {
	switch {
	case len(key) == 0:
		return false
	case key[0] == "config", key[0] == "profiles":
		return true
	case key[0] == "targets" && len(key) > 1:
		return key[1] == "config" || key[1] == "local"
	}
	return false
}
