// Package tarball builds and repairs gzip-compressed tar archives laid out
// like a toolchain release: every entry rooted under a base directory, with
// executable bits confined to the bin and tool directories.
package tarball

import "strings"

// DefaultBaseName is the top-level directory archive entries are rooted
// under when no override is given.
const DefaultBaseName = "go"

// ExecutablePath reports whether a regular file at rel belongs to a
// directory that ships executables. rel is slash-separated and relative to
// the source root:
//
//   - bin/<file...>        binaries
//   - pkg/tool/<os_arch>/<file...>  toolchain tools
//   - tools/...            anything, including a root file named "tools"
func ExecutablePath(rel string) bool {
	parts := strings.Split(rel, "/")
	switch {
	case len(parts) >= 2 && parts[0] == "bin":
		return true
	case len(parts) >= 3 && parts[0] == "pkg" && parts[1] == "tool":
		return true
	case parts[0] == "tools":
		return true
	}
	return false
}

// NormalizeName strips the "./" prefix some tar writers put on entry names.
func NormalizeName(name string) string {
	return strings.TrimPrefix(name, "./")
}

// ExecutableEntry reports whether a normalized regular-file entry name sits
// in one of the executable directories of an assembled release archive.
func ExecutableEntry(name string) bool {
	return strings.HasPrefix(name, "go/bin/") || strings.HasPrefix(name, "go/pkg/tool/")
}
