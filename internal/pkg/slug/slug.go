package slug

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Make folds a title into a URL-safe slug: lowercase, diacritics stripped,
// runs of non-alphanumerics collapsed to single dashes.
func Make(input string) string {
	decomposed := norm.NFKD.String(strings.ToLower(input))

	var b strings.Builder
	b.Grow(len(decomposed))
	lastDash := true
	for _, r := range decomposed {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case unicode.Is(unicode.Mn, r):
			// combining mark left over from decomposition
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}

	return strings.Trim(b.String(), "-")
}

// WithSuffix appends a numeric dedupe suffix: "luna" -> "luna-2".
func WithSuffix(base string, suffix int) string {
	return base + "-" + strconv.Itoa(suffix)
}
