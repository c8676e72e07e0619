package paths

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const (

	// Name used for directory and file naming.
	appName = "builder"

	// Default permission mode for directories.
	DefaultDirMode os.FileMode = 0755

	// Default permission mode for files.
	DefaultFileMode os.FileMode = 0644
)

// Manifest file names, in lookup order.
var ManifestNames = []string{"builder.toml", "builder.yaml", "builder.yml"}

// Returned when no manifest can be found.
var ErrNoManifest = errors.New("no manifest found")

// Returns the path of the manifest to load.
//
// Each name in [ManifestNames] is tried in dir, then under the XDG config
// search path:
//
//	Linux:   $XDG_CONFIG_HOME/builder/builder.toml, $XDG_CONFIG_DIRS/builder/...
//	macOS:   ~/Library/Application Support/builder/builder.toml
func Manifest(dir string) (string, error) {
	for _, name := range ManifestNames {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
	}

	for _, name := range ManifestNames {
		if p, err := xdg.SearchConfigFile(filepath.Join(appName, name)); err == nil {
			return p, nil
		}
	}

	return "", ErrNoManifest
}

// Path under the user's XDG config home where a manifest would be created.
//
//	Linux:   $XDG_CONFIG_HOME/builder/builder.toml
//	macOS:   ~/Library/Application Support/builder/builder.toml
func UserManifest() string {
	return filepath.Join(xdg.ConfigHome, appName, ManifestNames[0])
}
