// Package version exposes the build identity reported by the "uci"
// command and by cmd/franky's printVersionInfo. The values are set at
// build time via -ldflags.
package version

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Version returns the engine's version string, falling back to "dev"
// when built without -ldflags.
func Version() string {
	if version == "dev" {
		return version
	}
	return version + " (" + commit + ", " + date + ")"
}
