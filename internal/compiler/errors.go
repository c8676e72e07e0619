package compiler

import "errors"

var (
	ErrUnsupportedCompiler = errors.New("unsupported compiler")
	ErrUnknownConfigValue  = errors.New("unknown configuration value")
)
