package manifest

import "errors"

var (
	ErrManifest = errors.New("invalid manifest")
	ErrFormat   = errors.New("unsupported manifest format")
)
