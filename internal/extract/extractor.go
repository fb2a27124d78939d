// Package extract turns fetched pages into candidate prospect records. Each
// supported site taxonomy gets its own extraction strategy; the router picks
// the strategy from the URL.
package extract

import (
	"context"

	"github.com/sells-group/prospect-cli/internal/model"
)

// Extractor is one taxonomy-specific extraction strategy. Extract returns
// zero or more unvalidated candidates; an empty result is a valid outcome,
// not an error.
type Extractor interface {
	Name() string
	Extract(ctx context.Context, page model.FetchedPage, cat model.Category) []model.CandidateRecord
}

// Extractor identifiers used by the router rule table.
const (
	ExtractorProfileDir  = "profile_directory"
	ExtractorListing     = "listing_2hop"
	ExtractorRoster      = "staff_roster"
	ExtractorEmbassy     = "embassy"
	ExtractorYouthSports = "youth_sports"
	ExtractorGeneric     = "generic"
)
