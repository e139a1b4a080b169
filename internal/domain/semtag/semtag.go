package semtag

import (
	"regexp"
	"strconv"
	"strings"

	semver "github.com/blang/semver/v4"
)

var releasePattern = regexp.MustCompile(`^([0-9]+)\.([0-9]+)\.([0-9]+)$`)

// Version is the (major, minor, patch) tuple stamped into pack manifests.
type Version struct {
	semver.Version
}

// New builds a Version from its three components.
func New(major, minor, patch uint64) Version {
	return Version{Version: semver.Version{Major: major, Minor: minor, Patch: patch}}
}

// Tuple returns the components in manifest order.
func (v Version) Tuple() []uint64 {
	return []uint64{v.Major, v.Minor, v.Patch}
}

// String renders the dotted form, e.g. 1.2.3.
func (v Version) String() string {
	return v.Version.String()
}

// Parse reads a release tag of the form [v]MAJOR.MINOR.PATCH.
// Pre-release and build suffixes are rejected. The boolean is false for any
// input that does not match, including the empty string.
func Parse(tag string) (Version, bool) {
	normalized := strings.TrimPrefix(tag, "v")
	match := releasePattern.FindStringSubmatch(normalized)
	if match == nil {
		return Version{}, false
	}

	parts := make([]uint64, 0, 3)
	for _, raw := range match[1:] {
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return Version{}, false
		}
		parts = append(parts, n)
	}

	return New(parts[0], parts[1], parts[2]), true
}

// Valid reports whether the tag parses as a release version.
func Valid(tag string) bool {
	_, ok := Parse(tag)
	return ok
}
