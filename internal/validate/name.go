// Package validate holds the pure predicates that keep garbage out of the
// prospect set. Nothing here touches the network.
package validate

import (
	"regexp"
	"strings"
)

const maxNameTokens = 5

// genericRoleWords are strings that directory pages render where a person
// name is expected. A candidate consisting only of these (plus filler) is
// navigation or template text, not a person.
var genericRoleWords = map[string]bool{
	"educational": true, "education": true, "patient": true, "experience": true,
	"admissions": true, "contact": true, "about": true, "team": true,
	"staff": true, "services": true, "support": true, "office": true,
	"department": true, "program": true, "center": true, "clinic": true,
	"our": true, "the": true, "and": true, "of": true, "for": true,
	"home": true, "read": true, "more": true, "learn": true, "view": true,
	"profile": true, "directory": true, "find": true, "search": true,
	"privacy": true, "policy": true, "terms": true, "resources": true,
	"general": true, "information": true, "welcome": true, "overview": true,
}

// credentialSuffixes are professional credentials that may trail a name as
// comma-separated initials ("Jane Roe, PhD, LCSW"). They are part of the
// name span, not a reason to reject.
var credentialSuffixes = map[string]bool{
	"md": true, "do": true, "phd": true, "psyd": true, "lcsw": true,
	"lpc": true, "lmft": true, "lmhc": true, "rn": true, "np": true,
	"pa": true, "pa-c": true, "mba": true, "ma": true, "ms": true,
	"msw": true, "edd": true, "dds": true, "dmd": true, "faap": true,
	"cadc": true, "crnp": true, "aprn": true, "pmhnp": true, "bcba": true,
	"jd": true, "mph": true, "med": true,
}

// nameParticles are lowercase surname particles allowed between capitalized
// tokens ("Maria de la Cruz").
var nameParticles = map[string]bool{
	"de": true, "la": true, "van": true, "von": true, "der": true,
	"del": true, "di": true, "da": true, "bin": true, "al": true,
	"el": true, "ter": true, "den": true,
}

var (
	markupRe    = regexp.MustCompile(`[<>{}\[\]|=_]|&[a-z]+;|https?://`)
	digitRe     = regexp.MustCompile(`\d`)
	nameTokenRe = regexp.MustCompile(`^(?:[A-Z][a-zA-Z'’.-]*|[A-Z]\.?)$`)
	honorificRe = regexp.MustCompile(`^(?i:dr|mr|mrs|ms|prof|rev|hon)\.?$`)
)

// NameValidator judges whether a string is a plausible person name. The
// location blocklist is seeded per run with the request's own city and
// configured neighboring jurisdictions, which directory pages frequently
// render in name-shaped positions.
type NameValidator struct {
	locations map[string]bool
}

// NewNameValidator builds a validator that additionally rejects the given
// location names (case-insensitive, full-string match).
func NewNameValidator(locationNames []string) *NameValidator {
	locs := make(map[string]bool, len(locationNames))
	for _, l := range locationNames {
		l = strings.ToLower(strings.TrimSpace(l))
		if l != "" {
			locs[l] = true
		}
	}
	return &NameValidator{locations: locs}
}

// PlausiblePersonName reports whether s looks like a real person's name.
func (v *NameValidator) PlausiblePersonName(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	if markupRe.MatchString(s) || digitRe.MatchString(s) {
		return false
	}
	if v.locations[strings.ToLower(s)] {
		return false
	}

	// Split off trailing comma-separated credential suffixes; they are
	// acceptable but don't count as name tokens.
	core := s
	if idx := strings.Index(s, ","); idx > 0 {
		core = s[:idx]
		for _, part := range strings.Split(s[idx+1:], ",") {
			p := strings.ToLower(strings.TrimSpace(strings.ReplaceAll(part, ".", "")))
			if p == "" {
				continue
			}
			if !credentialSuffixes[p] {
				// A comma segment that isn't a credential makes this a
				// sentence fragment, not a name.
				return false
			}
		}
	}

	tokens := strings.Fields(core)

	// Drop a leading honorific before the shape check.
	if len(tokens) > 0 && honorificRe.MatchString(tokens[0]) {
		tokens = tokens[1:]
	}
	if len(tokens) < 2 || len(tokens) > maxNameTokens {
		return false
	}

	// First and last tokens must be capitalized name-shaped tokens; interior
	// tokens may be surname particles.
	generic := 0
	for i, tok := range tokens {
		if !nameTokenRe.MatchString(tok) {
			interior := i > 0 && i < len(tokens)-1
			if !interior || !nameParticles[tok] {
				return false
			}
			continue
		}
		if genericRoleWords[strings.ToLower(strings.Trim(tok, "."))] {
			generic++
		}
	}
	// "Patient Experience" has a capitalized first+last shape; every token
	// being a generic role word is the tell.
	return generic < len(tokens)
}
