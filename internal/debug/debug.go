// Package debug provides a tiny, dependency-free, env-gated logger for
// verbose developer tracing; no other chronograph package calls it at
// present. It deliberately stays on the standard library: this is the
// lowest-frequency, lowest-stakes logging path in the codebase, and the
// structured observability stack (internal/obslog) covers the parts that
// warrant spans and metrics.
package debug

import (
	"fmt"
	"os"
	"sync"
)

var (
	enabled     = os.Getenv("CHRONOGRAPH_DEBUG") != ""
	verboseMode = false
	quietMode   = false
	logMutex    sync.Mutex
)

// Enabled reports whether verbose tracing is active, either via the
// CHRONOGRAPH_DEBUG environment variable or SetVerbose.
func Enabled() bool {
	return enabled || verboseMode
}

// SetVerbose toggles verbose/debug output on or off at runtime (e.g. from a
// CLI --verbose flag).
func SetVerbose(verbose bool) {
	verboseMode = verbose
}

// SetQuiet suppresses non-essential output written via PrintNormal.
func SetQuiet(quiet bool) {
	quietMode = quiet
}

// IsQuiet reports whether quiet mode is enabled.
func IsQuiet() bool {
	return quietMode
}

// Logf writes a formatted trace line to stderr if verbose tracing is
// enabled. It is safe to call from concurrent goroutines.
func Logf(format string, args ...interface{}) {
	if !(enabled || verboseMode) {
		return
	}
	logMutex.Lock()
	defer logMutex.Unlock()
	fmt.Fprintf(os.Stderr, format, args...)
}

// PrintNormal writes to stdout unless quiet mode is enabled. Used for
// routine CLI output that a scripted/quiet caller wants suppressed.
func PrintNormal(format string, args ...interface{}) {
	if !quietMode {
		fmt.Printf(format, args...)
	}
}

// PrintlnNormal is PrintNormal's Println counterpart.
func PrintlnNormal(args ...interface{}) {
	if !quietMode {
		fmt.Println(args...)
	}
}
