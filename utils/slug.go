package utils

import "strings"

// Slugify derives a URL-safe, lowercase, hyphenated key from a name or title.
// Runs of spaces become a single hyphen and every other character outside
// [a-z0-9-] is dropped, so "Go & Gin Tips!" yields "go-gin-tips".
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	var b strings.Builder
	lastHyphen := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		case r == ' ' || r == '-' || r == '_':
			if !lastHyphen && b.Len() > 0 {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	return strings.TrimSuffix(b.String(), "-")
}
