// Package version centralizes the game version string used by the save
// envelope and the release checker.
package version

import "strings"

// Version follows semver.  Saves written by a different major version
// are refused on load.
const Version = "2.1.0"

// Compatible reports whether a save written by the given game version
// can be loaded by this build.  Only the major version has to match;
// minor and patch releases keep the save schema stable.
func Compatible(other string) bool {
	if other == "" {
		return true
	}
	return major(other) == major(Version)
}

func major(v string) string {
	v = strings.TrimPrefix(v, "v")
	if i := strings.IndexByte(v, '.'); i >= 0 {
		return v[:i]
	}
	return v
}
