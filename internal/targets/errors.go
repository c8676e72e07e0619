package targets

import "errors"

var (
	ErrUnknownKind    = errors.New("unknown target kind")
	ErrDownload       = errors.New("download failed")
	ErrDigestMismatch = errors.New("digest mismatch")
	ErrArchive        = errors.New("invalid archive")
	ErrCopy           = errors.New("copy failed")
	ErrFileKind       = errors.New("unsupported file kind")
)
