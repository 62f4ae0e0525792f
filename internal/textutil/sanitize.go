package textutil

import (
	"strings"
	"unicode"
)

// reserved are the characters no archive file name may carry.
const reserved = `/\:*?"<>|`

// SanitizeFileName turns a provider identifier into an archive file name.
// Runs of reserved characters and whitespace collapse into one dash and control
// characters are dropped. Case is preserved.
func SanitizeFileName(name string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.TrimSpace(name) {
		switch {
		case unicode.IsControl(r):
		case unicode.IsSpace(r) || strings.ContainsRune(reserved, r):
			pendingDash = b.Len() > 0
		default:
			if pendingDash {
				b.WriteByte('-')
				pendingDash = false
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SanitizeToken reduces value to a lowercase ASCII token for staging paths.
// Anything outside [a-z0-9_-] becomes a single underscore. Empty results map to
// "unknown".
func SanitizeToken(value string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range strings.TrimSpace(value) {
		r = unicode.ToLower(r)
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			b.WriteRune(r)
			lastUnderscore = r == '_'
			continue
		}
		if !lastUnderscore {
			b.WriteByte('_')
			lastUnderscore = true
		}
	}
	if out := strings.Trim(b.String(), "_-"); out != "" {
		return out
	}
	return "unknown"
}
