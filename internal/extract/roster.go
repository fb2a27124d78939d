package extract

import (
	"context"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/validate"
)

// rosterCardSelectors are the repeated name+title card containers found on
// team/staff/about pages, tried in order.
var rosterCardSelectors = []string{
	".team-member", ".staff-member", ".person", ".bio-card", ".member",
	".profile-card", ".leadership-member", "li.staff", "article.team",
	".card",
}

// rosterNameSelectors locate the name inside a card.
var rosterNameSelectors = []string{
	"h2", "h3", "h4", ".name", ".member-name", "strong", "b",
}

// rosterTitleSelectors locate the role line inside a card.
var rosterTitleSelectors = []string{
	".title", ".role", ".position", ".job-title", "p", "em", "span",
}

// roleWordRe marks a string as role-like. Leadership titles keep their full
// string ("Director of Admissions, Family Programs" is not truncated at the
// first comma).
var roleWordRe = regexp.MustCompile(`(?i)\b(director|chief|head|president|founder|officer|manager|coordinator|counselor|therapist|clinician|supervisor|specialist|lead|dean|chair|administrator|nurse|physician|doctor|psychologist|psychiatrist|attache|ambassador|consul|secretary|advisor|adviser|coach|trainer|instructor)\b`)

// RosterExtractor scans team/staff/about pages for repeated name+title
// patterns. A candidate is emitted only when a name-validator pass sits
// adjacent to a role-like string, which separates staff cards from
// navigation and boilerplate blocks.
type RosterExtractor struct {
	names *validate.NameValidator
	// stripPrefixes are honorific or label prefixes removed from the name
	// span before validation ("Coach Mike Torres" -> "Mike Torres").
	stripPrefixes []string
	// requireRole limits title matching to these words when non-empty;
	// the embassy and youth-sports variants focus their verticals this way.
	requireRole *regexp.Regexp
	name        string
}

// NewRosterExtractor creates the general staff-roster extractor used for
// treatment centers and other organization sites.
func NewRosterExtractor(names *validate.NameValidator) *RosterExtractor {
	return &RosterExtractor{names: names, name: ExtractorRoster}
}

// NewEmbassyExtractor creates the roster variant tuned for embassy staff
// listings: diplomatic honorifics stripped, education/cultural roles ranked.
func NewEmbassyExtractor(names *validate.NameValidator) *RosterExtractor {
	return &RosterExtractor{
		names:         names,
		name:          ExtractorEmbassy,
		stripPrefixes: []string{"H.E.", "His Excellency", "Her Excellency", "Amb.", "Ambassador", "Mr.", "Mrs.", "Ms."},
		requireRole:   regexp.MustCompile(`(?i)\b(attache|attaché|officer|counselor|counsellor|secretary|ambassador|consul|minister|advisor|adviser|director|head)\b`),
	}
}

// NewYouthSportsExtractor creates the roster variant for coaching staffs.
func NewYouthSportsExtractor(names *validate.NameValidator) *RosterExtractor {
	return &RosterExtractor{
		names:         names,
		name:          ExtractorYouthSports,
		stripPrefixes: []string{"Coach", "Head Coach", "Asst. Coach", "Assistant Coach"},
		requireRole:   regexp.MustCompile(`(?i)\b(coach|director|trainer|instructor|manager|coordinator|president|founder)\b`),
	}
}

func (e *RosterExtractor) Name() string { return e.name }

func (e *RosterExtractor) Extract(_ context.Context, page model.FetchedPage, cat model.Category) []model.CandidateRecord {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.HTML))
	if err != nil {
		zap.L().Debug("roster extractor: parse failed", zap.String("url", page.URL), zap.Error(err))
		return e.extractFromText(page, cat)
	}

	var out []model.CandidateRecord
	seen := map[string]bool{}

	for _, sel := range rosterCardSelectors {
		doc.Find(sel).Each(func(_ int, card *goquery.Selection) {
			if c, ok := e.extractCard(card, page, cat); ok && !seen[c.RawName] {
				seen[c.RawName] = true
				out = append(out, c)
			}
		})
		// A matching selector yields the whole roster; stop at the first
		// selector that produced repeated cards.
		if len(out) > 1 {
			return out
		}
	}

	if len(out) > 0 {
		return out
	}

	// Headings-based layout: name in an hN, role in the next element.
	doc.Find("h2, h3, h4").Each(func(_ int, h *goquery.Selection) {
		name := e.stripName(cleanCell(h.Text()))
		if !e.names.PlausiblePersonName(name) {
			return
		}
		title := cleanCell(h.Next().Text())
		if !e.roleLike(title) || seen[name] {
			return
		}
		seen[name] = true
		out = append(out, model.CandidateRecord{
			RawName:   name,
			RawTitle:  title,
			SourceURL: page.URL,
			Category:  cat,
		})
	})

	if len(out) > 0 {
		return out
	}
	return e.extractFromText(page, cat)
}

// extractCard pulls one name+title pair out of a card element.
func (e *RosterExtractor) extractCard(card *goquery.Selection, page model.FetchedPage, cat model.Category) (model.CandidateRecord, bool) {
	var name string
	for _, sel := range rosterNameSelectors {
		cand := e.stripName(cleanCell(card.Find(sel).First().Text()))
		if e.names.PlausiblePersonName(cand) {
			name = cand
			break
		}
	}
	if name == "" {
		return model.CandidateRecord{}, false
	}

	var title string
	for _, sel := range rosterTitleSelectors {
		cand := cleanCell(card.Find(sel).First().Text())
		if cand != "" && cand != name && e.roleLike(cand) {
			title = cand
			break
		}
	}
	if title == "" {
		// Name without an adjacent role-like string is not a staff card.
		return model.CandidateRecord{}, false
	}

	c := model.CandidateRecord{
		RawName:   name,
		RawTitle:  title,
		SourceURL: page.URL,
		Category:  cat,
	}
	if href, ok := card.Find(`a[href^="mailto:"]`).First().Attr("href"); ok {
		c.Email = strings.ToLower(strings.TrimPrefix(href, "mailto:"))
	}
	if href, ok := card.Find(`a[href^="tel:"]`).First().Attr("href"); ok {
		c.Phone = strings.TrimPrefix(href, "tel:")
	} else {
		c.Phone = FirstPhone(card.Text())
	}
	return c, true
}

// extractFromText is the line-adjacency fallback for rosters rendered
// without card markup: a validated name line directly followed by a
// role-like line.
func (e *RosterExtractor) extractFromText(page model.FetchedPage, cat model.Category) []model.CandidateRecord {
	lines := strings.Split(page.Text, "\n")
	var out []model.CandidateRecord
	seen := map[string]bool{}

	for i := 0; i < len(lines)-1; i++ {
		name := e.stripName(strings.TrimSpace(lines[i]))
		if !e.names.PlausiblePersonName(name) || seen[name] {
			continue
		}
		title := strings.TrimSpace(lines[i+1])
		if !e.roleLike(title) {
			continue
		}
		seen[name] = true
		out = append(out, model.CandidateRecord{
			RawName:   name,
			RawTitle:  title,
			SourceURL: page.URL,
			Category:  cat,
		})
	}
	return out
}

// roleLike reports whether s reads as a role/title line.
func (e *RosterExtractor) roleLike(s string) bool {
	if s == "" || len(s) > 120 {
		return false
	}
	if e.requireRole != nil && e.requireRole.MatchString(s) {
		return true
	}
	return roleWordRe.MatchString(s)
}

// stripName removes configured honorific/label prefixes from a name span.
func (e *RosterExtractor) stripName(s string) string {
	for _, p := range e.stripPrefixes {
		if strings.HasPrefix(s, p+" ") {
			return strings.TrimSpace(strings.TrimPrefix(s, p))
		}
	}
	return s
}
