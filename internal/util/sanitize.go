package util

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	ugcPolicy    = bluemonday.UGCPolicy()
	strictPolicy = bluemonday.StrictPolicy()
)

// SanitizeHTML keeps user generated markup that is safe to render (links, lists, emphasis...).
func SanitizeHTML(s string) string {
	return strings.TrimSpace(ugcPolicy.Sanitize(s))
}

// StripTags removes all markup from s and returns plain text.
func StripTags(s string) string {
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(s)))
}

// SanitizeHTMLPtr is SanitizeHTML for optional fields.
func SanitizeHTMLPtr(s *string) *string {
	if s == nil {
		return nil
	}

	out := SanitizeHTML(*s)

	return &out
}

// StripTagsPtr is StripTags for optional fields.
func StripTagsPtr(s *string) *string {
	if s == nil {
		return nil
	}

	out := StripTags(*s)

	return &out
}
