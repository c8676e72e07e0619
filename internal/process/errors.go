package process

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrProcessFailed = errors.New("process failed")
	ErrStart         = errors.New("process could not be started")
	ErrPTY           = errors.New("pseudo-terminal allocation failed")
)

// Returned by [Process.Communicate] when the child exits with a non-zero code.
type ExitError struct {
	Code int      // Exit code, or -1 if the child was killed by a signal.
	Args []string // Argument vector of the child.
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s: %s exited with code %d", ErrProcessFailed, strings.Join(e.Args, " "), e.Code)
}

// Matches [ErrProcessFailed].
func (e *ExitError) Is(target error) bool {
	return target == ErrProcessFailed
}
