// Package debug provides opt-in tracing of pool growth events. It is
// deliberately not a general logging library: the hot allocate/deallocate
// path never calls into it, since growth is by construction rare and the
// steady-state free-list path must stay allocation- and lock-free.
package debug

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// EnableDebug is a build flag that can be overridden at build time:
// go build -ldflags "-X github.com/standardbeagle/msgpool/internal/debug.EnableDebug=true"
var EnableDebug = "false"

// debugOutput is the writer for debug output (nil means no output).
var debugOutput io.Writer

// debugMutex protects access to debug output.
var debugMutex sync.Mutex

// SetDebugOutput sets a custom writer for debug output. Pass nil to
// disable debug output entirely.
func SetDebugOutput(w io.Writer) {
	debugMutex.Lock()
	defer debugMutex.Unlock()
	debugOutput = w
}

// IsDebugEnabled returns true if debug mode is enabled, either via the
// build-time flag or the MSGPOOL_DEBUG environment variable.
func IsDebugEnabled() bool {
	if EnableDebug == "true" {
		return true
	}
	v := os.Getenv("MSGPOOL_DEBUG")
	return v == "1" || v == "true"
}

// getDebugWriter returns the writer for debug output, or nil if none is
// configured.
func getDebugWriter() io.Writer {
	debugMutex.Lock()
	defer debugMutex.Unlock()
	return debugOutput
}

// Log provides structured debug logging tagged with a component name, e.g.
// "growth" or "bench".
func Log(component, format string, args ...interface{}) {
	if !IsDebugEnabled() {
		return
	}
	w := getDebugWriter()
	if w == nil {
		return
	}
	fmt.Fprintf(w, "[DEBUG:%s] "+format, append([]interface{}{component}, args...)...)
}

// LogGrowth traces class-table extension and slab expansion, the only
// events a live pool ever needs to explain after the fact.
func LogGrowth(format string, args ...interface{}) {
	Log("GROWTH", format, args...)
}

// LogBench traces load-harness activity from cmd/msgpoolbench.
func LogBench(format string, args ...interface{}) {
	Log("BENCH", format, args...)
}

// Fatal records a catastrophic error to the debug log and returns it as an
// error rather than exiting, leaving the decision to the caller.
func Fatal(format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	if w := getDebugWriter(); w != nil {
		fmt.Fprintf(w, "[FATAL] %s", msg)
	}
	return fmt.Errorf("fatal error: %s", msg)
}
