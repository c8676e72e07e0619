package internal

import (
	"strconv"
	"sync/atomic"
)

var verbosity atomic.Int32 // Baseline log verbosity, added to the -v count.

// Parses the linker flags into usable runtime variables.
//
// The rawVerbosity variable should be set via ldflags during the build
// process. If not set or not a number, it defaults to 0.
func init() {
	if v, err := strconv.Atoi(rawVerbosity); err == nil && v > 0 {
		verbosity.Store(int32(v))
	}
}

// Sets the baseline verbosity.
func SetVerbosity(v int) {
	verbosity.Store(int32(max(v, 0)))
}

// Returns the baseline verbosity.
func Verbosity() int {
	return int(verbosity.Load())
}
