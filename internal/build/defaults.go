package build

import (
	"path/filepath"

	"github.com/cruciblehq/builder/internal/compiler"
	"github.com/cruciblehq/builder/internal/config"
)

// Returns the configuration of the "default" level.
//
// Directories are deferred below "directory.root" so that they follow any
// root override. Compiler flags are derived on first read from the
// configured compiler and warning categories.
func Defaults() map[string]any {
	return map[string]any{
		"always_outdated": false,
		"directory": map[string]any{
			"binaries": underRoot("bin"),
			"include":  underRoot("include"),
			"packages": underRoot("packages"),
			"source":   underRoot("src"),
			"stamps":   underRoot("stamps"),
		},
		"process": map[string]any{
			"echo": map[string]any{
				"stdout": false,
				"stderr": false,
			},
			"environment":         map[string]any{},
			"inherit_environment": true,
		},
		"language": map[string]any{
			"c": map[string]any{
				"compiler": "cc",
				"flags":    compiler.DeferredFlags("c"),
				"warnings": defaultWarnings(),
			},
			"c++": map[string]any{
				"compiler": "c++",
				"flags":    compiler.DeferredFlags("c++"),
				"warnings": defaultWarnings(),
			},
		},
	}
}

func defaultWarnings() map[string]any {
	return map[string]any{
		"errors": false,
		"enable": map[string]any{
			"normal":        true,
			"extensions":    false,
			"compatibility": false,
			"performance": map[string]any{
				"normal":   false,
				"platform": false,
			},
			"system_code": false,
		},
	}
}

// Returns a deferred path named dir below "directory.root".
func underRoot(dir string) config.Deferred {
	return func(g config.Getter) (any, error) {
		root, err := config.String(g, "directory.root")
		if err != nil {
			return nil, err
		}
		return filepath.Join(root, dir), nil
	}
}
