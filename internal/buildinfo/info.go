// Package buildinfo carries the release metadata stamped in by the linker:
//
//	go build -ldflags "-X github.com/revipro-dev/revipro/internal/buildinfo.Version=v1.2.0"
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String formats the metadata for `revipro --version`.
func String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date)
}
