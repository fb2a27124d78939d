package extract

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/model"
)

// ProfileDirExtractor parses practitioner profile pages on directory sites
// (Healthgrades/Psychology Today style). Structured JSON blobs in script
// tags are the primary source; label-adjacent DOM heuristics are the
// fallback. A listing page with embedded Person blocks yields one candidate
// per block.
type ProfileDirExtractor struct{}

// NewProfileDirExtractor creates a ProfileDirExtractor.
func NewProfileDirExtractor() *ProfileDirExtractor {
	return &ProfileDirExtractor{}
}

func (e *ProfileDirExtractor) Name() string { return ExtractorProfileDir }

// nameSelectors are tried in order for the practitioner name on profile
// pages; sites vary but keep the name in an h1 or an itemprop span.
var nameSelectors = []string{
	`[itemprop="name"]`,
	`h1[data-qa-target="provider-name"]`,
	".provider-name",
	".profile-name",
	"h1",
}

// titleSelectors locate the credential/specialty line adjacent to the name.
var titleSelectors = []string{
	`[itemprop="jobTitle"]`,
	`[data-qa-target="provider-specialty"]`,
	".provider-specialty",
	".profile-title",
	".specialty",
	"h1 + p",
	"h1 ~ .subtitle",
}

func (e *ProfileDirExtractor) Extract(_ context.Context, page model.FetchedPage, cat model.Category) []model.CandidateRecord {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.HTML))
	if err != nil {
		zap.L().Debug("profile extractor: parse failed", zap.String("url", page.URL), zap.Error(err))
		return nil
	}

	// JSON-first: directory sites embed Person blocks with exactly the
	// fields we need.
	persons, orgs := parseJSONLD(doc)
	if len(persons) > 0 {
		var out []model.CandidateRecord
		for _, p := range persons {
			c := model.CandidateRecord{
				RawName:         p.Name,
				RawTitle:        p.JobTitle,
				RawOrganization: p.WorksFor,
				SourceURL:       page.URL,
				Category:        cat,
				Phone:           p.Telephone,
				Email:           p.Email,
				ProfileURL:      p.URL,
			}
			if c.RawOrganization == "" && len(orgs) > 0 {
				c.RawOrganization = orgs[0].Name
			}
			out = append(out, c)
		}
		return out
	}

	// DOM fallback: single-profile layout.
	if c, ok := e.extractFromDOM(doc, page, cat); ok {
		return []model.CandidateRecord{c}
	}
	return nil
}

// extractFromDOM applies the anchor-and-label heuristics for profile pages
// without structured data.
func (e *ProfileDirExtractor) extractFromDOM(doc *goquery.Document, page model.FetchedPage, cat model.Category) (model.CandidateRecord, bool) {
	var name string
	for _, sel := range nameSelectors {
		if t := cleanCell(doc.Find(sel).First().Text()); t != "" {
			name = t
			break
		}
	}
	if name == "" {
		return model.CandidateRecord{}, false
	}

	var title string
	for _, sel := range titleSelectors {
		if t := cleanCell(doc.Find(sel).First().Text()); t != "" && t != name {
			title = t
			break
		}
	}

	c := model.CandidateRecord{
		RawName:     name,
		RawTitle:    title,
		SourceURL:   page.URL,
		Category:    cat,
		PageExcerpt: excerpt(page.Text),
	}

	// Contact details are label-adjacent or anywhere in the page text.
	if href, ok := doc.Find(`a[href^="mailto:"]`).First().Attr("href"); ok {
		c.Email = strings.ToLower(strings.TrimPrefix(href, "mailto:"))
	} else {
		c.Email = FirstEmail(page.Text)
	}
	if href, ok := doc.Find(`a[href^="tel:"]`).First().Attr("href"); ok {
		c.Phone = strings.TrimPrefix(href, "tel:")
	} else {
		c.Phone = FirstPhone(page.Text)
	}

	return c, true
}

// cleanCell collapses the whitespace goquery returns for nested elements.
func cleanCell(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// excerpt returns the head of the page text for diagnostics.
func excerpt(text string) string {
	const n = 240
	text = strings.TrimSpace(text)
	if len(text) > n {
		return text[:n]
	}
	return text
}
