// Package version reports build information stamped in with -ldflags, e.g.
//
//	go build -ldflags "-X pancrop/internal/version.GitCommit=$(git rev-parse --short HEAD)"
package version

import "fmt"

var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String returns a one-line build description.
func String() string {
	return fmt.Sprintf("pancrop %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
