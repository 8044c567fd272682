// Package version reports the build version of the soitin binary.
package version

import "runtime/debug"

// Version is set at build time with
// go build -ldflags "-X github.com/lsalmela/soitin/version.Version=$(git describe --dirty)"
var Version string

// String returns Version if set, otherwise the short vcs revision baked into
// the build info, with a -dirty suffix for modified trees.
func String() string {
	if Version != "" {
		return Version
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	var rev string
	var dirty bool
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if len(rev) > 7 {
		rev = rev[:7]
	}
	if dirty && rev != "" {
		rev += "-dirty"
	}
	return rev
}
