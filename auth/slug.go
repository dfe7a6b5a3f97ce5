package auth

import "strings"

// Slugify lowercases a display name into a stable machine identifier: runs of
// anything that is not a letter or digit collapse into single dashes.
func Slugify(name string) string {
	var b strings.Builder
	lastDash := true

	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}

	return strings.TrimSuffix(b.String(), "-")
}
