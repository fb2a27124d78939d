package scrape

import (
	"context"

	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/pkg/firecrawl"
)

// FirecrawlTier is the last-resort rendering tier.
type FirecrawlTier struct {
	client firecrawl.Client
}

// NewFirecrawlTier creates a FirecrawlTier backed by the given client.
func NewFirecrawlTier(client firecrawl.Client) *FirecrawlTier {
	return &FirecrawlTier{client: client}
}

func (f *FirecrawlTier) Name() string { return "firecrawl" }

func (f *FirecrawlTier) Fetch(ctx context.Context, targetURL string) (*model.FetchedPage, error) {
	resp, err := f.client.Scrape(ctx, firecrawl.ScrapeRequest{
		URL:     targetURL,
		Formats: []string{"html"},
		WaitFor: 2000,
	})
	if err != nil {
		return nil, err
	}

	page := &model.FetchedPage{
		URL:        targetURL,
		Title:      resp.Data.Title,
		HTML:       resp.Data.HTML,
		StatusCode: resp.Data.StatusCode,
		Source:     f.Name(),
	}
	if resp.Data.HTML == "" {
		page.Status = model.FetchEmpty
		return page, nil
	}

	page.Text = StripHTML(resp.Data.HTML)
	page.Status = model.FetchOK
	return page, nil
}
