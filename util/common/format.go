package common

import (
	"regexp"
)

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// SanitizeFilename replaces every character outside [A-Za-z0-9._-] with
// an underscore. Total and idempotent: it never fails, and sanitizing an
// already-clean name is a no-op.
func SanitizeFilename(name string) string {
	return unsafeFilenameChars.ReplaceAllString(name, "_")
}
