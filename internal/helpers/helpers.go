package helpers

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	slugPattern  = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
	nonSlugRunes = regexp.MustCompile(`[^a-z0-9]+`)
)

// IsValidSlug reports whether s is lowercase alphanumeric segments joined by
// single hyphens. The input is never normalised.
func IsValidSlug(s string) bool {
	if s == "" {
		return false
	}
	return slugPattern.MatchString(s)
}

// GenerateSlug derives a slug from free text, e.g. "React Summit 2025!" ->
// "react-summit-2025". Accents are folded ("Café" -> "cafe"). It returns ""
// when a letter or digit has no ASCII form, since dropping it would make
// unrelated titles collide.
func GenerateSlug(parts ...string) string {
	folded, _, err := transform.String(accentFolder(), strings.Join(parts, " "))
	if err != nil {
		return ""
	}
	for _, r := range folded {
		if r > unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return ""
		}
	}
	return strings.Trim(nonSlugRunes.ReplaceAllString(strings.ToLower(folded), "-"), "-")
}

func accentFolder() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

func StringTrim(s string) string {
	return strings.TrimSpace(s)
}
