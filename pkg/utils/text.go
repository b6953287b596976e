package utils

import (
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Truncate shortens s to at most max runes for log previews.
func Truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max]) + "..."
}

// SanitizeFilename strips path components and traversal sequences from a
// name so it is safe to use inside a local storage directory.
func SanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, "..", "")
	base = strings.ReplaceAll(base, "/", "_")
	base = strings.ReplaceAll(base, "\\", "_")
	return base
}
