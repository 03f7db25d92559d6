// Package version records build identification for lml binaries.
package version

// Version is the current semantic version of lml.
const Version = "0.3.0"

var (
	// BuildDate is set during build time (use -ldflags).
	BuildDate = "development"

	// GitCommit is set during build time (use -ldflags).
	GitCommit = "unknown"
)

// Info returns version information as a string.
func Info() string {
	return Version
}

// FullInfo returns detailed version information.
func FullInfo() string {
	return "lml " + Version + " (commit: " + GitCommit + ", built: " + BuildDate + ")"
}
