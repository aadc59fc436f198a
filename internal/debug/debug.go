package debug

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Build flag for debug mode - can be overridden at build time
// go build -ldflags "-X github.com/standardbeagle/cheatcheck/internal/debug.EnableDebug=true"
var EnableDebug = "false"

// Verbose is set by the CLI when -v/--verbose is passed
var Verbose = false

// debugOutput is the writer for debug output (defaults to nil, meaning no output)
var debugOutput io.Writer

// debugMutex protects access to debug output
var debugMutex sync.Mutex

// SetVerbose enables debug output for the rest of the run
func SetVerbose(enabled bool) {
	debugMutex.Lock()
	defer debugMutex.Unlock()
	Verbose = enabled
}

// SetDebugOutput sets a custom writer for debug output.
// Pass nil to disable debug output entirely.
func SetDebugOutput(w io.Writer) {
	debugMutex.Lock()
	defer debugMutex.Unlock()
	debugOutput = w
}

// IsDebugEnabled returns true if verbose mode, the build flag or DEBUG env var is set
func IsDebugEnabled() bool {
	debugMutex.Lock()
	verbose := Verbose
	debugMutex.Unlock()
	if verbose {
		return true
	}

	// Check build flag first
	if EnableDebug == "true" {
		return true
	}

	// Allow runtime override via environment variable
	if os.Getenv("DEBUG") == "1" || os.Getenv("DEBUG") == "true" {
		return true
	}

	return false
}

// getDebugWriter returns the writer for debug output, or nil if none is configured
func getDebugWriter() io.Writer {
	debugMutex.Lock()
	defer debugMutex.Unlock()
	return debugOutput
}

// Log provides structured debug logging with component names
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

// LogLoad provides debug logging for file resolution and loading
func LogLoad(format string, args ...interface{}) {
	Log("LOAD", format, args...)
}

// LogEngine provides debug logging for the comparison engine
func LogEngine(format string, args ...interface{}) {
	Log("ENGINE", format, args...)
}

// LogReport provides debug logging for report output
func LogReport(format string, args ...interface{}) {
	Log("REPORT", format, args...)
}
