package utils

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Characters removed outright before word splitting, so "it's" becomes
// "its" rather than "it-s".
const slugStripSet = `*+~.()'"!:@`

// GenerateSlug converts free-form text into a URL-safe slug: diacritics are
// folded to ASCII, the strip set above is deleted, and any remaining run of
// non-alphanumeric characters collapses into a single hyphen. The result
// matches [a-z0-9]+(-[a-z0-9]+)* or is empty when the input contains no
// usable characters; callers must treat an empty slug as invalid input.
func GenerateSlug(text string) string {
	// Decompose accented characters and drop the combining marks (é -> e).
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMark))
	folded, _, err := transform.String(t, text)
	if err != nil {
		folded = text
	}
	folded = strings.ToLower(folded)

	var b strings.Builder
	b.Grow(len(folded))
	lastWasHyphen := false
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastWasHyphen = false
		case strings.ContainsRune(slugStripSet, r):
			// deleted, not hyphenated
		default:
			if !lastWasHyphen && b.Len() > 0 {
				b.WriteByte('-')
				lastWasHyphen = true
			}
		}
	}

	return strings.TrimRight(b.String(), "-")
}

// ResolveUniqueSlug probes base, base-1, base-2, ... until the injected
// exists check reports a free candidate. The resolver itself holds no state;
// excluding a post from colliding with its own slug is the caller's concern
// (bake it into the closure). Probing is O(n) in the number of same-titled
// posts, which is accepted at this scale.
func ResolveUniqueSlug(base string, exists func(candidate string) (bool, error)) (string, error) {
	candidate := base
	for counter := 1; ; counter++ {
		taken, err := exists(candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = base + "-" + strconv.Itoa(counter)
	}
}

func isMark(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
