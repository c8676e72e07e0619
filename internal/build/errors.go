package build

import "errors"

var (
	ErrBuild               = errors.New("build failed")
	ErrFileSystemOperation = errors.New("file system operation failed")
	ErrTargetNotFound      = errors.New("target not found")
	ErrProfileNotFound     = errors.New("profile not found")
	ErrMissingRoot         = errors.New(`option "directory.root" does not exist`)
	ErrDependencyCycle     = errors.New("dependency cycle")
	ErrDuplicateTarget     = errors.New("duplicate target")
	ErrAutoScopeWrite      = errors.New("writes do not support the Auto scope")
	ErrNotBuilding         = errors.New("target configuration used outside of its build")
)
