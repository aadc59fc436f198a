package version

import (
	"fmt"
	"runtime/debug"
)

// Version is the current semantic version of cheatcheck
const Version = "0.3.0"

// Set during build with -ldflags "-X github.com/standardbeagle/cheatcheck/internal/version.GitCommit=..."
var (
	BuildDate = "development"
	GitCommit = "unknown"
)

// Info returns version information as a string
func Info() string {
	return Version
}

// FullInfo returns detailed version information
func FullInfo() string {
	return fmt.Sprintf("cheatcheck %s (commit: %s, built: %s)", Version, commit(), BuildDate)
}

// commit falls back to the VCS revision embedded by the Go toolchain when
// GitCommit was not set at link time
func commit() string {
	if GitCommit != "unknown" {
		return GitCommit
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return GitCommit
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && len(s.Value) >= 12 {
			return s.Value[:12]
		}
	}
	return GitCommit
}
