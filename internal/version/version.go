// Package version exposes build-time metadata stamped into the meta-gen binary via ldflags.
package version

const unknown = "unknown"

var (
	// Version is the semantic version associated with this build.
	Version = "dev"
	// Commit is the source revision the binary was built from.
	Commit = unknown
	// BuildDate is the UTC timestamp when the binary was built.
	BuildDate = unknown
)

// Summary returns a human-readable description of the build metadata.
func Summary() string {
	if Commit == unknown || Commit == "" {
		return Version + " (built " + BuildDate + ")"
	}
	return Version + " (" + Commit + ", built " + BuildDate + ")"
}
