// Package enrich fills missing contact fields on extracted prospects
// through bounded secondary lookups.
package enrich

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/config"
	"github.com/sells-group/prospect-cli/internal/extract"
	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/scrape"
	"github.com/sells-group/prospect-cli/pkg/google"
	"github.com/sells-group/prospect-cli/pkg/jina"
)

// Searcher is the slice of the search collaborator the enricher needs.
type Searcher interface {
	Search(ctx context.Context, query string, num int) ([]google.Result, error)
}

// Enricher issues one targeted search-and-fetch per missing contact field.
// Best-effort by design: a failed lookup leaves the field empty, and at
// most cfg.MaxLookupsPerField secondary searches run per field per
// prospect, capping API spend.
type Enricher struct {
	search  Searcher
	jina    jina.Client // search fallback when google quota runs out; may be nil
	fetcher scrape.Fetcher
	cfg     config.EnrichConfig

	quotaExhausted bool
}

// New creates an Enricher.
func New(search Searcher, jinaClient jina.Client, fetcher scrape.Fetcher, cfg config.EnrichConfig) *Enricher {
	if cfg.MaxLookupsPerField <= 0 {
		cfg.MaxLookupsPerField = 1
	}
	return &Enricher{search: search, jina: jinaClient, fetcher: fetcher, cfg: cfg}
}

// Enrich fills p's missing email and phone in place. Returns the number of
// fields filled. Never returns an error: enrichment failure is an expected
// condition.
func (e *Enricher) Enrich(ctx context.Context, p *model.Prospect) int {
	if !e.cfg.Enabled || p == nil {
		return 0
	}

	filled := 0
	if p.Contact.Email == "" {
		if email := e.lookup(ctx, p, "email"); email != "" {
			p.Contact.Email = email
			filled++
		}
	}
	if ctx.Err() != nil {
		return filled
	}
	if p.Contact.Phone == "" {
		if phone := e.lookup(ctx, p, "phone"); phone != "" {
			p.Contact.Phone = phone
			filled++
		}
	}
	return filled
}

// lookup runs the single search-and-fetch for one missing field and applies
// contact-only regex extraction over the fetched text.
func (e *Enricher) lookup(ctx context.Context, p *model.Prospect, field string) string {
	query := fmt.Sprintf("%q %q %s contact", p.Name, p.Organization, field)
	if p.Organization == "" {
		query = fmt.Sprintf("%q %s %s contact", p.Name, p.Category, field)
	}

	topURL, err := e.topResult(ctx, query)
	if err != nil {
		zap.L().Debug("enrich: search failed",
			zap.String("name", p.Name),
			zap.String("field", field),
			zap.Error(err),
		)
		return ""
	}
	if topURL == "" {
		return ""
	}

	page := e.fetcher.Fetch(ctx, topURL)
	if !page.OK() {
		zap.L().Debug("enrich: fetch failed",
			zap.String("url", topURL),
			zap.String("status", string(page.Status)),
		)
		return ""
	}

	switch field {
	case "email":
		return extract.FirstEmail(page.Text)
	case "phone":
		return extract.FirstPhone(page.Text)
	}
	return ""
}

// topResult returns the first organic result URL for query, switching to
// the jina search fallback once the primary quota is exhausted.
func (e *Enricher) topResult(ctx context.Context, query string) (string, error) {
	if !e.quotaExhausted {
		results, err := e.search.Search(ctx, query, 1)
		if err == nil {
			if len(results) == 0 {
				return "", nil
			}
			return results[0].Link, nil
		}
		if !eris.Is(err, google.ErrQuotaExceeded) {
			return "", err
		}
		e.quotaExhausted = true
		zap.L().Warn("enrich: search quota exhausted, switching to fallback")
	}

	if e.jina == nil {
		return "", google.ErrQuotaExceeded
	}
	resp, err := e.jina.Search(ctx, query)
	if err != nil {
		return "", err
	}
	if len(resp.Data) == 0 {
		return "", nil
	}
	return resp.Data[0].URL, nil
}
