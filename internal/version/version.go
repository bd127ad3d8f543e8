// Package version holds build information stamped in at link time.
package version

// Populated via -ldflags at release build time, e.g.
//
//	-X github.com/anomstream/anomstream/internal/version.Version=v0.3.0
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)
