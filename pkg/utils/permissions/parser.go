// Package permissions provides the mode constants and octal helpers shared
// by the archive tools.
package permissions

import (
	"fmt"
	"strconv"
	"strings"
)

// Normalized modes for release archive entries.
const (
	FileMode int64 = 0o644 // rw-r--r--
	ExecMode int64 = 0o755 // rwxr-xr-x
	DirMode  int64 = 0o755 // drwxr-xr-x
)

// ParseOctalString parses an octal permission string into mode bits.
// Handles formats like "755", "0755", "0o755". An empty string yields the
// default file mode.
func ParseOctalString(s string) (int64, error) {
	if s == "" {
		return FileMode, nil
	}

	trimmed := strings.TrimPrefix(s, "0o")
	trimmed = strings.TrimPrefix(trimmed, "0")
	if trimmed == "" {
		trimmed = "0"
	}

	val, err := strconv.ParseInt(trimmed, 8, 32)
	if err != nil {
		return FileMode, fmt.Errorf("invalid permission string %q: %w", s, err)
	}

	return val, nil
}

// FormatOctal renders mode bits the way tar listings do.
func FormatOctal(mode int64) string {
	return fmt.Sprintf("%04o", mode)
}

// IsExecutable reports whether the owner execute bit is set.
func IsExecutable(mode int64) bool {
	return mode&0o100 != 0
}
