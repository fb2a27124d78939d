package extract

import (
	"regexp"
	"strings"
)

var (
	emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	// phoneRe matches US-style numbers: (202) 555-1234, 202-555-1234,
	// 202.555.1234, +1 202 555 1234.
	phoneRe = regexp.MustCompile(`(?:\+?1[\s.-]?)?\(?\d{3}\)?[\s.-]\d{3}[\s.-]\d{4}`)

	// imageExtRe filters asset filenames that match the email shape
	// (logo@2x.png).
	imageExtRe = regexp.MustCompile(`(?i)\.(png|jpe?g|gif|svg|webp|css|js)$`)
)

// junkEmailPrefixes are mailbox names that never identify a person.
var junkEmailPrefixes = []string{
	"noreply", "no-reply", "donotreply", "webmaster", "postmaster",
	"abuse", "example", "user@", "email@", "name@", "test@",
}

// FirstEmail returns the first plausible email address in text, lowercased,
// or "".
func FirstEmail(text string) string {
	for _, m := range emailRe.FindAllString(text, 10) {
		e := strings.ToLower(m)
		if imageExtRe.MatchString(e) {
			continue
		}
		junk := false
		for _, p := range junkEmailPrefixes {
			if strings.HasPrefix(e, p) {
				junk = true
				break
			}
		}
		if !junk {
			return e
		}
	}
	return ""
}

// FirstPhone returns the first phone-shaped string in text, trimmed, or "".
func FirstPhone(text string) string {
	m := phoneRe.FindString(text)
	return strings.TrimSpace(m)
}
