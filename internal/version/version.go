// Package version carries build identification, stamped at link time with
// -ldflags "-X github.com/banshee-data/sightline/internal/version.Version=...".
package version

var (
	// Version is the current collector version.
	Version = "dev"
	// GitSHA is the git commit the binary was built from.
	GitSHA = "unknown"
	// BuildTime is the build timestamp.
	BuildTime = "unknown"
)
