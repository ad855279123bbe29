package slug

import (
	"strings"
	"unicode"
)

const maxLen = 48

// Make turns a free-form name into a lowercase file-name fragment of ASCII
// letters, digits and single dashes.
func Make(input string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(input) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(r)
		default:
			dash = true
		}
		if b.Len() >= maxLen {
			break
		}
	}
	s := strings.TrimRight(b.String(), "-")
	if len(s) > maxLen {
		s = strings.TrimRight(s[:maxLen], "-")
	}
	if s == "" {
		return "untitled"
	}
	return s
}
