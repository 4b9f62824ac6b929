// Package util provides slug generation and text sanitizing helpers used by the content models.
package util

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxSlugLength is the longest slug Slugify produces.
const MaxSlugLength = 200

var (
	// nonSlugChars matches everything except lowercase letters, digits and hyphens
	nonSlugChars = regexp.MustCompile(`[^a-z0-9-]+`)
	// multipleHyphens matches runs of hyphens
	multipleHyphens = regexp.MustCompile(`-{2,}`)
	// validSlug is the accepted slug shape
	validSlug = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// Slugify converts a title into a URL-friendly slug.
//
// Accents are stripped, non-Latin scripts are transliterated, whitespace and
// punctuation collapse into single hyphens.
func Slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	result, _, err := transform.String(t, s)
	if err != nil {
		result = s
	}

	result = unidecode.Unidecode(result)
	result = strings.ToLower(result)
	result = strings.Join(strings.Fields(result), "-")
	result = nonSlugChars.ReplaceAllString(result, "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")

	if len(result) > MaxSlugLength {
		result = strings.TrimRight(result[:MaxSlugLength], "-")
	}

	return result
}

// IsValidSlug reports whether s is lowercase alphanumerics separated by single hyphens.
func IsValidSlug(s string) bool {
	return validSlug.MatchString(s)
}
