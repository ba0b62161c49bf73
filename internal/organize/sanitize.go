package organize

import (
	"regexp"
	"strings"
)

var featPattern = regexp.MustCompile(`(?i)\s+feat\.?\s+.*$`)

// Sanitize replaces filesystem-illegal characters so the name is safe as a
// file or directory component on every supported platform.
func Sanitize(name string) string {
	const invalid = `<>:"/\|?*`
	var b strings.Builder
	for _, r := range name {
		if strings.ContainsRune(invalid, r) {
			b.WriteRune('_')
		} else {
			b.WriteRune(r)
		}
	}
	return strings.TrimRight(strings.TrimSpace(b.String()), ".")
}

// PrimaryArtist strips featuring credits so all of an artist's videos land
// in one folder.
func PrimaryArtist(artist string) string {
	return strings.TrimSpace(featPattern.ReplaceAllString(artist, ""))
}
