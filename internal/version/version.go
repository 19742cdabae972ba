// Package version provides version information for the Linktine CLI.
package version

import "fmt"

// These variables are set at build time via ldflags.
var (
	// Version is the semantic version of the build.
	Version = "dev"
	// Commit is the git commit hash of the build.
	Commit = "unknown"
	// Date is the build date.
	Date = "unknown"
)

// String returns the full version string.
func String() string {
	return fmt.Sprintf("linktine %s (commit %s, built %s)", Version, Commit, Date)
}

// Short returns just the version number.
func Short() string {
	return Version
}
