// Package buildinfo holds release metadata stamped in at link time.
package buildinfo

import "fmt"

// Set with -ldflags "-X github.com/statementlens/statementlens/internal/buildinfo.Version=...".
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String formats the metadata for `statementlens --version`.
func String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date)
}
