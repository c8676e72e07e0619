package manifest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cruciblehq/builder/internal/build"
	"github.com/cruciblehq/builder/internal/config"
	"github.com/cruciblehq/builder/internal/targets"
)

const tomlManifest = `
[config]
travel = "car"

[profiles.release]
process.echo.stdout = true

[[targets]]
name = "fetch"
kind = "create"
config.file.name = "${directory.packages}/fetched.txt"
config.file.content = "payload"

[[targets]]
name = "Lib Gary"
kind = "execute"
depends = ["fetch"]
config.command = ["/bin/sh", "-c", "cat ../packages/fetched.txt > gary.txt"]
config.directory = "${directory.root}/src"
local.travel = "ship"
`

const yamlManifest = `
config:
  travel: car
profiles:
  release:
    process:
      echo:
        stdout: true
targets:
  - name: fetch
    kind: create
    config:
      file:
        name: "${directory.packages}/fetched.txt"
        content: payload
  - name: Lib Gary
    kind: execute
    depends: [fetch]
    config:
      command: ["/bin/sh", "-c", "cat ../packages/fetched.txt > gary.txt"]
      directory: "${directory.root}/src"
    local:
      travel: ship
`

func TestDecode(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		input  string
	}{
		{"toml", TOML, tomlManifest},
		{"yaml", YAML, yamlManifest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Decode(strings.NewReader(tt.input), tt.format)
			if err != nil {
				t.Fatal(err)
			}
			if m.Config["travel"] != "car" {
				t.Fatalf("travel = %v, want car", m.Config["travel"])
			}
			if _, ok := m.Profiles["release"]; !ok {
				t.Fatalf("profiles = %v, want release", m.Profiles)
			}
			if len(m.Targets) != 2 {
				t.Fatalf("targets = %d, want 2", len(m.Targets))
			}
			gary := m.Targets[1]
			if gary.Name != "Lib Gary" || gary.Kind != "execute" {
				t.Fatalf("target = %q/%q, want Lib Gary/execute", gary.Name, gary.Kind)
			}
			if len(gary.Depends) != 1 || gary.Depends[0] != "fetch" {
				t.Fatalf("depends = %v, want [fetch]", gary.Depends)
			}
			if gary.Local["travel"] != "ship" {
				t.Fatalf("local travel = %v, want ship", gary.Local["travel"])
			}
		})
	}
}

func TestDecodeUnknownField(t *testing.T) {
	if _, err := Decode(strings.NewReader("[[targets]]\nname = \"a\"\nkinds = \"group\"\n"), TOML); !errors.Is(err, ErrManifest) {
		t.Fatalf("toml err = %v, want ErrManifest", err)
	}
	if _, err := Decode(strings.NewReader("targets:\n  - name: a\n    kinds: group\n"), YAML); !errors.Is(err, ErrManifest) {
		t.Fatalf("yaml err = %v, want ErrManifest", err)
	}
}

func TestFormatOf(t *testing.T) {
	tests := []struct {
		path string
		want Format
		err  bool
	}{
		{"builder.toml", TOML, false},
		{"builder.yaml", YAML, false},
		{"x/builder.YML", YAML, false},
		{"builder.json", "", true},
	}
	for _, tt := range tests {
		got, err := FormatOf(tt.path)
		if (err != nil) != tt.err {
			t.Fatalf("FormatOf(%q) err = %v, want error %v", tt.path, err, tt.err)
		}
		if got != tt.want {
			t.Fatalf("FormatOf(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestLoadAndRun(t *testing.T) {
	for _, name := range []string{"builder.toml", "builder.yaml"} {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, name)
			content := tomlManifest
			if filepath.Ext(name) == ".yaml" {
				content = yamlManifest
			}
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				t.Fatal(err)
			}

			m, err := Load(path)
			if err != nil {
				t.Fatal(err)
			}
			b, err := m.Build()
			if err != nil {
				t.Fatal(err)
			}
			if len(b.Targets()) != 1 || b.Targets()[0].Name() != "Lib Gary" {
				t.Fatalf("registered = %d, want only Lib Gary", len(b.Targets()))
			}
			if _, ok := b.Profile("release"); !ok {
				t.Fatal("release profile missing")
			}

			root := t.TempDir()
			if err := os.MkdirAll(filepath.Join(root, "release", "src"), 0o755); err != nil {
				t.Fatal(err)
			}
			err = b.Run(context.Background(), build.RunOptions{
				Targets:   []string{"Lib Gary"},
				Profile:   "release",
				Overrides: map[string]any{"directory.root": root},
			})
			if err != nil {
				t.Fatal(err)
			}

			data, err := os.ReadFile(filepath.Join(root, "release", "src", "gary.txt"))
			if err != nil {
				t.Fatal(err)
			}
			if string(data) != "payload" {
				t.Fatalf("gary.txt = %q, want payload", data)
			}
		})
	}
}

const inheritManifest = `
[[targets]]
name = "hello"
kind = "create"
config.file.name = "${out}/hello.txt"
config.file.content = "hi"

[[targets]]
name = "app"
kind = "group"
depends = ["hello"]
config.out = "${directory.root}/app"
`

func TestRunAllSeesDependentConfig(t *testing.T) {
	m, err := Decode(strings.NewReader(inheritManifest), TOML)
	if err != nil {
		t.Fatal(err)
	}
	b, err := m.Build()
	if err != nil {
		t.Fatal(err)
	}

	var names []string
	for _, tgt := range b.Targets() {
		names = append(names, tgt.Name())
	}
	if len(names) != 1 || names[0] != "app" {
		t.Fatalf("registered = %q, want [app]", names)
	}

	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "default", "app"), 0o755); err != nil {
		t.Fatal(err)
	}
	err = b.Run(context.Background(), build.RunOptions{
		Overrides: map[string]any{"directory.root": root},
	})
	if err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(root, "default", "app", "hello.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "hi" {
		t.Fatalf("hello.txt = %q, want hi", data)
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name    string
		targets []Target
		want    error
	}{
		{
			name:    "missing name",
			targets: []Target{{Kind: "group"}},
			want:    ErrManifest,
		},
		{
			name:    "missing kind",
			targets: []Target{{Name: "a"}},
			want:    ErrManifest,
		},
		{
			name:    "duplicate",
			targets: []Target{{Name: "a", Kind: "group"}, {Name: "a", Kind: "group"}},
			want:    ErrManifest,
		},
		{
			name:    "unknown dependency",
			targets: []Target{{Name: "a", Kind: "group", Depends: []string{"b"}}},
			want:    ErrManifest,
		},
		{
			name: "cycle",
			targets: []Target{
				{Name: "a", Kind: "group", Depends: []string{"b"}},
				{Name: "b", Kind: "group", Depends: []string{"a"}},
			},
			want: build.ErrDependencyCycle,
		},
		{
			name:    "unknown kind",
			targets: []Target{{Name: "a", Kind: "teleport"}},
			want:    targets.ErrUnknownKind,
		},
		{
			name:    "duplicate code",
			targets: []Target{{Name: "lib-a", Kind: "group"}, {Name: "Lib A", Kind: "group"}},
			want:    build.ErrDuplicateTarget,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Manifest{Targets: tt.targets}
			if _, err := m.Build(); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestTemplates(t *testing.T) {
	out := Templates(map[string]any{
		"plain":  "value",
		"ref":    "${directory.root}/x",
		"nested": map[string]any{"ref": "${a}"},
		"n":      3,
	})

	if out["plain"] != "value" || out["n"] != 3 {
		t.Fatalf("literals changed: %v", out)
	}
	if _, ok := out["ref"].(config.Deferred); !ok {
		t.Fatalf("ref = %T, want deferred", out["ref"])
	}
	if _, ok := out["nested"].(map[string]any)["ref"].(config.Deferred); !ok {
		t.Fatalf("nested ref = %T, want deferred", out["nested"].(map[string]any)["ref"])
	}
}
