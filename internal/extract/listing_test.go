package extract

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/prospect-cli/internal/model"
)

// mapFetcher serves canned pages by URL and records fetch order.
type mapFetcher struct {
	mu      sync.Mutex
	pages   map[string]model.FetchedPage
	fetched []string
}

func (f *mapFetcher) Fetch(_ context.Context, url string) model.FetchedPage {
	f.mu.Lock()
	f.fetched = append(f.fetched, url)
	f.mu.Unlock()
	if page, ok := f.pages[url]; ok {
		return page
	}
	return model.FetchedPage{URL: url, Status: model.FetchTimeout}
}

func profilePage(url, name, title string) model.FetchedPage {
	html := fmt.Sprintf(`<html><head><script type="application/ld+json">
{"@type": "Physician", "name": %q, "jobTitle": %q}
</script></head><body></body></html>`, name, title)
	return model.FetchedPage{URL: url, HTML: html, Status: model.FetchOK}
}

const listingHTML = `<html><body>
<div class="search-result">
  <h3 class="name">Dr. Sarah Johnson</h3>
  <span class="specialty">Pediatrics</span>
  <a href="/physician/dr-sarah-johnson">View Profile</a>
</div>
<div class="search-result">
  <h3 class="name">Dr. Robert Chen</h3>
  <span class="specialty">Pediatrics</span>
  <a href="/physician/dr-robert-chen">View Profile</a>
</div>
<div class="search-result">
  <h3 class="name">Dr. Emily Tran</h3>
  <span class="specialty">Pediatrics</span>
  <a href="/physician/dr-emily-tran">View Profile</a>
</div>
</body></html>`

func TestListing_TwoHop(t *testing.T) {
	fetcher := &mapFetcher{pages: map[string]model.FetchedPage{
		"https://dir.example.com/physician/dr-sarah-johnson": profilePage(
			"https://dir.example.com/physician/dr-sarah-johnson", "Dr. Sarah Johnson", "Pediatrician, MD"),
		"https://dir.example.com/physician/dr-robert-chen": profilePage(
			"https://dir.example.com/physician/dr-robert-chen", "Dr. Robert Chen", "Pediatrician"),
		"https://dir.example.com/physician/dr-emily-tran": profilePage(
			"https://dir.example.com/physician/dr-emily-tran", "Dr. Emily Tran", "Pediatrician"),
	}}

	e := NewListingExtractor(fetcher, 2, 10)
	page := model.FetchedPage{URL: "https://dir.example.com/usearch?what=pediatrics", HTML: listingHTML, Status: model.FetchOK}
	recs := e.Extract(context.Background(), page, model.CategoryPediatricians)

	require.Len(t, recs, 3)
	// Listing order survives concurrent stage-2 fetches.
	assert.Equal(t, "Dr. Sarah Johnson", recs[0].RawName)
	assert.Equal(t, "Dr. Robert Chen", recs[1].RawName)
	assert.Equal(t, "Dr. Emily Tran", recs[2].RawName)
	assert.Equal(t, "Pediatrician, MD", recs[0].RawTitle)
	assert.Len(t, fetcher.fetched, 3)
}

func TestListing_ProfileFailureDegradesToListingFields(t *testing.T) {
	// Only the first profile resolves; the others fall back to the name and
	// specialty scraped off the listing card.
	fetcher := &mapFetcher{pages: map[string]model.FetchedPage{
		"https://dir.example.com/physician/dr-sarah-johnson": profilePage(
			"https://dir.example.com/physician/dr-sarah-johnson", "Dr. Sarah Johnson", "Pediatrician, MD"),
	}}

	e := NewListingExtractor(fetcher, 2, 10)
	page := model.FetchedPage{URL: "https://dir.example.com/usearch", HTML: listingHTML, Status: model.FetchOK}
	recs := e.Extract(context.Background(), page, model.CategoryPediatricians)

	require.Len(t, recs, 3)
	assert.Equal(t, "Pediatrician, MD", recs[0].RawTitle)
	assert.Equal(t, "Dr. Robert Chen", recs[1].RawName)
	assert.Equal(t, "Pediatrics", recs[1].RawTitle, "degraded entries keep listing-level fields")
	assert.Equal(t, "https://dir.example.com/physician/dr-robert-chen", recs[1].ProfileURL)
}

func TestListing_MaxProfilesCap(t *testing.T) {
	fetcher := &mapFetcher{pages: map[string]model.FetchedPage{}}

	e := NewListingExtractor(fetcher, 2, 2)
	page := model.FetchedPage{URL: "https://dir.example.com/usearch", HTML: listingHTML, Status: model.FetchOK}
	recs := e.Extract(context.Background(), page, model.CategoryPediatricians)

	assert.Len(t, recs, 2)
	assert.Len(t, fetcher.fetched, 2)
}

func TestListing_SingleProfilePageDelegates(t *testing.T) {
	// A "listing" URL that actually serves one profile has no profile-shaped
	// anchors; the profile extractor takes over.
	fetcher := &mapFetcher{}
	e := NewListingExtractor(fetcher, 2, 10)

	page := profilePage("https://dir.example.com/usearch/odd", "Dr. Sarah Johnson", "Pediatrician")
	recs := e.Extract(context.Background(), page, model.CategoryPediatricians)

	require.Len(t, recs, 1)
	assert.Equal(t, "Dr. Sarah Johnson", recs[0].RawName)
	assert.Empty(t, fetcher.fetched)
}

func TestIsProfileLink(t *testing.T) {
	assert.True(t, isProfileLink("/physician/dr-sarah-johnson"))
	assert.True(t, isProfileLink("https://x.com/provider/123"))
	assert.True(t, isProfileLink("/dr-jane-roe"))
	assert.False(t, isProfileLink(""))
	assert.False(t, isProfileLink("#top"))
	assert.False(t, isProfileLink("javascript:void(0)"))
	assert.False(t, isProfileLink("/about-us"))
}
