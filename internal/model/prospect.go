// Package model defines the core data types of the prospect pipeline.
package model

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Category is one of the supported professional verticals.
type Category string

const (
	CategoryPediatricians    Category = "pediatricians"
	CategoryPsychologists    Category = "psychologists"
	CategoryTreatmentCenters Category = "treatment_centers"
	CategoryEmbassies        Category = "embassies"
	CategoryYouthSports      Category = "youth_sports"
	CategoryGeneric          Category = "generic"
)

// Categories lists the concrete verticals a discovery request may name.
// CategoryGeneric is a routing fallback, not a requestable vertical.
var Categories = []Category{
	CategoryPediatricians,
	CategoryPsychologists,
	CategoryTreatmentCenters,
	CategoryEmbassies,
	CategoryYouthSports,
}

// ParseCategory validates a category string from external input.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Categories {
		if c == known {
			return c, true
		}
	}
	return "", false
}

// CandidateRecord is the unvalidated output of a category extractor. It is
// created and discarded within a single pipeline run; no identity guarantees.
type CandidateRecord struct {
	RawName         string   `json:"raw_name"`
	RawTitle        string   `json:"raw_title"`
	RawOrganization string   `json:"raw_organization"`
	SourceURL       string   `json:"source_url"`
	Category        Category `json:"category"`
	PageExcerpt     string   `json:"page_excerpt,omitempty"`

	// Contact details picked up during extraction, if the page exposed any.
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Website    string `json:"website,omitempty"`
	ProfileURL string `json:"profile_url,omitempty"`

	// LowConfidence marks records from the generic fallback extractor.
	LowConfidence bool `json:"low_confidence,omitempty"`
}

// Contact holds the optional contact fields of a prospect.
type Contact struct {
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Website    string `json:"website,omitempty"`
	ProfileURL string `json:"profile_url,omitempty"`
}

// PopulatedFields counts non-empty contact fields, used by dedup to pick the
// richer record.
func (c Contact) PopulatedFields() int {
	n := 0
	for _, v := range []string{c.Email, c.Phone, c.Website, c.ProfileURL} {
		if v != "" {
			n++
		}
	}
	return n
}

// Prospect is a validated, scoreable contact record. Construct via
// NewProspect only after the name validator has accepted the raw name.
type Prospect struct {
	Name          string   `json:"name"`
	Title         string   `json:"title"`
	Organization  string   `json:"organization,omitempty"`
	Category      Category `json:"category"`
	Contact       Contact  `json:"contact"`
	SourceURL     string   `json:"source_url"`
	Score         int      `json:"score"`
	LowConfidence bool     `json:"low_confidence,omitempty"`
}

// NewProspect builds a Prospect from a validated candidate. The caller is
// responsible for having run the name validator; this is the only place a
// CandidateRecord crosses the validation boundary.
func NewProspect(c CandidateRecord) Prospect {
	return Prospect{
		Name:         strings.TrimSpace(c.RawName),
		Title:        strings.TrimSpace(c.RawTitle),
		Organization: strings.TrimSpace(c.RawOrganization),
		Category:     c.Category,
		Contact: Contact{
			Email:      strings.ToLower(strings.TrimSpace(c.Email)),
			Phone:      strings.TrimSpace(c.Phone),
			Website:    strings.TrimSpace(c.Website),
			ProfileURL: strings.TrimSpace(c.ProfileURL),
		},
		SourceURL:     c.SourceURL,
		LowConfidence: c.LowConfidence,
	}
}

// IdentityKey recomputes the deduplication key from the prospect's current
// fields. Never cached: dedup must see post-merge state.
func (p *Prospect) IdentityKey() string {
	return IdentityKey(p.Contact.Email, p.Name, p.Organization)
}

// IdentityKey derives the dedup key: the normalized email when present,
// otherwise normalized name joined with normalized organization.
func IdentityKey(email, name, org string) string {
	if e := normalizeKey(email); e != "" {
		return e
	}
	return normalizeKey(name) + "|" + normalizeKey(org)
}

var keyTransformer = transform.Chain(
	norm.NFKD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// normalizeKey lowercases, strips diacritics, and collapses whitespace so
// "Dr. José  Pérez" and "dr. jose perez" produce the same key component.
func normalizeKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	if folded, _, err := transform.String(keyTransformer, s); err == nil {
		s = folded
	}
	return strings.Join(strings.Fields(s), " ")
}
