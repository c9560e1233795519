// Package buildconfig carries the provenance stamped into the binary at link
// time:
//
//	go build -ldflags "-X github.com/psyche-works/psyche/internal/buildconfig.version=v0.3.0 \
//	  -X github.com/psyche-works/psyche/internal/buildconfig.commit=$(git rev-parse --short HEAD)"
//
// Unstamped binaries report "dev"/"unknown", which is how local builds show
// up in the health endpoint and the startup log line.
package buildconfig

var (
	version = "dev"
	commit  = "unknown"
)

// Version is the release tag the binary was built from.
func Version() string {
	return version
}

// Commit is the git revision the binary was built from.
func Commit() string {
	return commit
}
