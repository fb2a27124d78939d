package validate

import (
	"regexp"
	"strings"
)

// boilerplatePhrases are template strings that appear where an organization
// name might be scraped from.
var boilerplatePhrases = []string{
	"all rights reserved",
	"contact us",
	"privacy policy",
	"terms of service",
	"terms of use",
	"cookie policy",
	"skip to content",
	"skip to main content",
	"page not found",
	"sign in",
	"log in",
	"subscribe",
	"newsletter",
	"loading",
	"javascript is disabled",
	"enable javascript",
	"404",
	"untitled",
	"home page",
	"welcome",
}

var (
	// The word boundary belongs to the copyright branch only: \b never
	// matches between © or ) and a following space.
	copyrightRe = regexp.MustCompile(`(?i)^(©|\(c\)|copyright\b)`)
	orgMarkupRe = regexp.MustCompile(`[<>{}|]|&[a-z]+;`)
)

// PlausibleOrganizationName reports whether s can stand as an organization
// name. It rejects empty strings, boilerplate, copyright lines, and markup
// remnants; it does not try to verify the organization exists.
func PlausibleOrganizationName(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || len(s) < 3 || len(s) > 120 {
		return false
	}
	if orgMarkupRe.MatchString(s) {
		return false
	}
	if copyrightRe.MatchString(s) {
		return false
	}

	lower := strings.ToLower(s)
	for _, phrase := range boilerplatePhrases {
		if lower == phrase || (strings.Contains(lower, phrase) && len(lower) < len(phrase)+12) {
			return false
		}
	}

	// Must contain at least one letter.
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return true
		}
	}
	return false
}
