package extract

import (
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/scrape"
)

// listingEntry is one result card on a physician-directory listing page:
// the profile link plus the listing-level name/title used as a degraded
// fallback when the profile fetch fails.
type listingEntry struct {
	profileURL string
	name       string
	title      string
}

// ListingExtractor handles physician directories whose search results link
// to individual profile pages: stage 1 parses the listing for profile URLs,
// stage 2 re-enters the fetcher per profile. Two network round-trips per
// prospect, so stage 2 is bounded and a single profile failure degrades
// that one entry instead of aborting the batch.
type ListingExtractor struct {
	fetcher     scrape.Fetcher
	profile     *ProfileDirExtractor
	concurrency int
	maxProfiles int
}

// NewListingExtractor creates a ListingExtractor. concurrency and
// maxProfiles fall back to 2 and 10.
func NewListingExtractor(fetcher scrape.Fetcher, concurrency, maxProfiles int) *ListingExtractor {
	if concurrency <= 0 {
		concurrency = 2
	}
	if maxProfiles <= 0 {
		maxProfiles = 10
	}
	return &ListingExtractor{
		fetcher:     fetcher,
		profile:     NewProfileDirExtractor(),
		concurrency: concurrency,
		maxProfiles: maxProfiles,
	}
}

func (e *ListingExtractor) Name() string { return ExtractorListing }

func (e *ListingExtractor) Extract(ctx context.Context, page model.FetchedPage, cat model.Category) []model.CandidateRecord {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.HTML))
	if err != nil {
		zap.L().Debug("listing extractor: parse failed", zap.String("url", page.URL), zap.Error(err))
		return nil
	}

	entries := e.collectEntries(doc, page.URL)
	if len(entries) == 0 {
		// Not a listing after all; some directory URLs serve a single
		// profile. Delegate to the profile extractor.
		return e.profile.Extract(ctx, page, cat)
	}
	if len(entries) > e.maxProfiles {
		entries = entries[:e.maxProfiles]
	}

	// Each worker writes its own slot; order of the listing is preserved.
	results := make([][]model.CandidateRecord, len(entries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i, entry := range entries {
		g.Go(func() error {
			results[i] = e.extractProfile(gctx, entry, cat)
			return nil
		})
	}
	_ = g.Wait() // workers never return errors; failures degrade per entry

	var out []model.CandidateRecord
	for _, recs := range results {
		out = append(out, recs...)
	}
	return out
}

// profileLinkPatterns identify anchors that point at individual profiles.
var profileLinkPatterns = []string{
	"/physician", "/doctor", "/provider", "/profile", "/therapist",
	"/practitioner", "/bio", "/dr-",
}

// cardSelectors are the repeated result-card containers tried in order.
var cardSelectors = []string{
	".search-result", ".provider-card", ".result-card", ".listing-item",
	"li.result", "article",
}

// collectEntries parses the listing page into entries. Cards give the best
// signal (link + name + title together); a flat scan over profile-shaped
// anchors is the fallback.
func (e *ListingExtractor) collectEntries(doc *goquery.Document, baseURL string) []listingEntry {
	base, _ := url.Parse(baseURL)
	var entries []listingEntry
	seen := map[string]bool{}

	addFromCard := func(card *goquery.Selection) {
		link := card.Find("a").FilterFunction(func(_ int, a *goquery.Selection) bool {
			href, _ := a.Attr("href")
			return isProfileLink(href)
		}).First()
		href, ok := link.Attr("href")
		if !ok {
			return
		}
		abs := resolveURL(base, href)
		if abs == "" || seen[abs] {
			return
		}
		seen[abs] = true

		name := cleanCell(link.Text())
		if n := cleanCell(card.Find("h2, h3, .name").First().Text()); n != "" {
			name = n
		}
		entries = append(entries, listingEntry{
			profileURL: abs,
			name:       name,
			title:      cleanCell(card.Find(".specialty, .title, .credentials").First().Text()),
		})
	}

	for _, sel := range cardSelectors {
		doc.Find(sel).Each(func(_ int, card *goquery.Selection) {
			addFromCard(card)
		})
		if len(entries) > 1 {
			return entries
		}
	}

	// Fallback: any profile-shaped anchor.
	doc.Find("a").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if !isProfileLink(href) {
			return
		}
		abs := resolveURL(base, href)
		if abs == "" || seen[abs] {
			return
		}
		seen[abs] = true
		entries = append(entries, listingEntry{profileURL: abs, name: cleanCell(a.Text())})
	})
	return entries
}

// extractProfile runs stage 2 for one entry. A fetch failure falls back to
// the listing-level name/title rather than dropping the entry.
func (e *ListingExtractor) extractProfile(ctx context.Context, entry listingEntry, cat model.Category) []model.CandidateRecord {
	page := e.fetcher.Fetch(ctx, entry.profileURL)
	if page.OK() {
		recs := e.profile.Extract(ctx, page, cat)
		for i := range recs {
			if recs[i].ProfileURL == "" {
				recs[i].ProfileURL = entry.profileURL
			}
		}
		if len(recs) > 0 {
			return recs
		}
	} else {
		zap.L().Debug("listing extractor: profile fetch degraded",
			zap.String("profile_url", entry.profileURL),
			zap.String("status", string(page.Status)),
		)
	}

	// Degraded fallback: listing-level fields only.
	if entry.name == "" {
		return nil
	}
	return []model.CandidateRecord{{
		RawName:    entry.name,
		RawTitle:   entry.title,
		SourceURL:  entry.profileURL,
		Category:   cat,
		ProfileURL: entry.profileURL,
	}}
}

func isProfileLink(href string) bool {
	if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "javascript:") {
		return false
	}
	lower := strings.ToLower(href)
	for _, p := range profileLinkPatterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	if base != nil {
		ref = base.ResolveReference(ref)
	}
	if ref.Scheme != "http" && ref.Scheme != "https" {
		return ""
	}
	return ref.String()
}
