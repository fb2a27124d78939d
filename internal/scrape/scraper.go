// Package scrape implements the two-tier page fetcher: a cheap static HTTP
// fetch first, escalating to a JavaScript-capable rendering service only
// when the static result is blocked, empty, or too thin to extract from.
package scrape

import (
	"context"

	"github.com/sells-group/prospect-cli/internal/model"
)

// Fetcher retrieves page content for a URL. Implementations never surface
// transport failures as errors; the returned page's Status carries the
// outcome so one bad URL cannot abort a batch.
type Fetcher interface {
	Fetch(ctx context.Context, url string) model.FetchedPage
}

// Tier is a single fetch strategy within the tiered fetcher.
type Tier interface {
	Name() string
	// Fetch attempts the URL. A non-nil error means the tier itself failed
	// (transport, API); a nil error with a non-ok Status means the tier
	// answered but the page is unusable.
	Fetch(ctx context.Context, url string) (*model.FetchedPage, error)
}
