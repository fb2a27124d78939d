// Package pipeline orchestrates a discovery run: query building, search,
// fetch, extraction, validation, enrichment, dedup/scoring, persistence.
package pipeline

import (
	"context"
	"sort"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/config"
	"github.com/sells-group/prospect-cli/internal/dedupe"
	"github.com/sells-group/prospect-cli/internal/enrich"
	"github.com/sells-group/prospect-cli/internal/extract"
	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/query"
	"github.com/sells-group/prospect-cli/internal/scrape"
	"github.com/sells-group/prospect-cli/internal/store"
	"github.com/sells-group/prospect-cli/internal/validate"
	"github.com/sells-group/prospect-cli/pkg/google"
	"github.com/sells-group/prospect-cli/pkg/jina"
)

// Clients bundles the external collaborators the pipeline needs. Built once
// at startup and passed in; nothing here is ambient global state.
type Clients struct {
	Search  google.Client
	Jina    jina.Client // optional enrichment search fallback
	Fetcher scrape.Fetcher
	Store   store.Store // optional; nil skips persistence
}

// Request is a discovery request.
type Request struct {
	Categories []model.Category `json:"categories"`
	Location   string           `json:"location"`
	MaxResults int              `json:"max_results"`
}

// Result is the outcome of one run. A run always produces a Result: partial
// failures land in Failures, and zero prospects is a valid outcome.
type Result struct {
	Prospects          []model.Prospect         `json:"prospects"`
	PerCategoryCounts  map[model.Category]int   `json:"per_category_counts"`
	Failures           []model.Failure          `json:"failures"`
	ValidationRejected int                      `json:"validation_rejected,omitempty"`
}

// ErrBadRequest marks malformed input: unknown category or missing
// location. The only condition the pipeline surfaces as an error.
var ErrBadRequest = eris.New("pipeline: bad request")

// Pipeline is the orchestrator.
type Pipeline struct {
	cfg     *config.Config
	clients Clients
	builder *query.Builder
	scorer  *dedupe.Scorer
}

// New creates a Pipeline.
func New(cfg *config.Config, clients Clients) *Pipeline {
	return &Pipeline{
		cfg:     cfg,
		clients: clients,
		builder: query.NewBuilder(cfg.Query),
		scorer:  dedupe.NewScorer(cfg.Score),
	}
}

// candidateURL is one searched URL awaiting fetch+extract.
type candidateURL struct {
	url      string
	category model.Category
}

// Run executes the full pipeline for one request. Cancellation is
// cooperative: checked between URLs, not mid-fetch, since fetches carry
// their own timeouts.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	start := time.Now()
	log := zap.L().With(zap.String("location", req.Location))

	var run *model.Run
	if p.clients.Store != nil {
		var err error
		run, err = p.clients.Store.CreateRun(ctx, req.Categories, req.Location)
		if err != nil {
			// Persistence trouble must not kill discovery.
			log.Warn("create run failed, continuing without run record", zap.Error(err))
		}
	}
	setStatus := func(s model.RunStatus) {
		if run != nil && p.clients.Store != nil {
			if err := p.clients.Store.UpdateRunStatus(ctx, run.ID, s); err != nil {
				log.Debug("update run status failed", zap.Error(err))
			}
		}
	}

	result := &Result{
		PerCategoryCounts: make(map[model.Category]int),
		Failures:          []model.Failure{},
	}

	// Per-run validation context: the request's own location names are the
	// blocklist seed.
	names := validate.NewNameValidator(p.builder.LocationBlocklist(req.Location))
	router, err := p.buildRouter(names)
	if err != nil {
		return nil, err
	}
	enricher := enrich.New(p.clients.Search, p.clients.Jina, p.clients.Fetcher, p.cfg.Enrich)

	// BUILD_QUERIES → SEARCH
	setStatus(model.RunStatusSearch)
	candidates := p.search(ctx, req, result, log)

	// FETCH_CANDIDATES → EXTRACT → VALIDATE
	setStatus(model.RunStatusExtract)
	prospects := p.extractAll(ctx, candidates, names, router, result, log)

	// ENRICH
	setStatus(model.RunStatusEnrich)
	for i := range prospects {
		if ctx.Err() != nil {
			break
		}
		if prospects[i].Contact.Email != "" && prospects[i].Contact.Phone != "" {
			continue
		}
		enricher.Enrich(ctx, &prospects[i])
	}

	// DEDUP_SCORE
	setStatus(model.RunStatusDedupScore)
	prospects = dedupe.Dedupe(prospects)
	p.scorer.ScoreAll(prospects)
	sort.SliceStable(prospects, func(i, j int) bool {
		return prospects[i].Score > prospects[j].Score
	})
	if req.MaxResults > 0 && len(prospects) > req.MaxResults {
		prospects = prospects[:req.MaxResults]
	}

	for _, pr := range prospects {
		result.PerCategoryCounts[pr.Category]++
	}
	result.Prospects = prospects

	// PERSIST
	setStatus(model.RunStatusPersist)
	if p.clients.Store != nil {
		for _, pr := range prospects {
			if ctx.Err() != nil {
				break
			}
			if _, err := p.clients.Store.UpsertProspect(ctx, pr); err != nil {
				log.Warn("upsert prospect failed", zap.String("name", pr.Name), zap.Error(err))
				result.Failures = append(result.Failures, model.Failure{
					URL:    pr.SourceURL,
					Reason: "persist failed",
				})
			}
		}
	}

	// DONE
	if run != nil && p.clients.Store != nil {
		runResult := &model.RunResult{
			Prospects:          len(prospects),
			PerCategoryCounts:  result.PerCategoryCounts,
			Failures:           result.Failures,
			ValidationRejected: result.ValidationRejected,
			DurationMs:         time.Since(start).Milliseconds(),
		}
		if err := p.clients.Store.CompleteRun(ctx, run.ID, runResult); err != nil {
			log.Warn("complete run failed", zap.Error(err))
		}
	}

	log.Info("discovery run complete",
		zap.Int("prospects", len(prospects)),
		zap.Int("failures", len(result.Failures)),
		zap.Int("validation_rejected", result.ValidationRejected),
		zap.Duration("elapsed", time.Since(start)),
	)
	return result, nil
}

// validateRequest rejects malformed input; everything else is recoverable.
func validateRequest(req Request) error {
	if req.Location == "" {
		return eris.Wrap(ErrBadRequest, "location is required")
	}
	if len(req.Categories) == 0 {
		return eris.Wrap(ErrBadRequest, "at least one category is required")
	}
	for _, c := range req.Categories {
		if _, ok := model.ParseCategory(string(c)); !ok {
			return eris.Wrapf(ErrBadRequest, "unknown category %q", c)
		}
	}
	return nil
}

// buildRouter assembles the per-run extractor set and routing table.
func (p *Pipeline) buildRouter(names *validate.NameValidator) (*extract.Router, error) {
	extractors := map[string]extract.Extractor{
		extract.ExtractorProfileDir: extract.NewProfileDirExtractor(),
		extract.ExtractorListing: extract.NewListingExtractor(
			p.clients.Fetcher,
			p.cfg.Pipeline.ListingConcurrency,
			p.cfg.Pipeline.MaxProfilesPerListing,
		),
		extract.ExtractorRoster:      extract.NewRosterExtractor(names),
		extract.ExtractorEmbassy:     extract.NewEmbassyExtractor(names),
		extract.ExtractorYouthSports: extract.NewYouthSportsExtractor(names),
		extract.ExtractorGeneric:     extract.NewGenericExtractor(names),
	}
	return extract.NewRouter(extract.DefaultRules(), extractors)
}

// search runs one query set per category. Quota exhaustion stops new
// searches but keeps every URL already found; unsearched categories get a
// failure entry.
func (p *Pipeline) search(ctx context.Context, req Request, result *Result, log *zap.Logger) []candidateURL {
	queries := p.builder.BuildAll(req.Categories, req.Location, nil)

	perQuery := p.cfg.Google.ResultsPerQuery
	if perQuery <= 0 || perQuery > 10 {
		perQuery = 10
	}
	maxPerCategory := p.cfg.Pipeline.MaxResultsPerCategory

	var candidates []candidateURL
	seen := map[string]bool{}
	quotaDone := false

	for _, cat := range req.Categories {
		if ctx.Err() != nil {
			break
		}
		if quotaDone {
			result.Failures = append(result.Failures, model.Failure{
				URL:    "category:" + string(cat),
				Reason: "search quota exceeded before category was searched",
			})
			continue
		}

		found := 0
		for _, q := range queries[cat] {
			if found >= maxPerCategory && maxPerCategory > 0 {
				break
			}
			results, err := p.clients.Search.Search(ctx, q, perQuery)
			if err != nil {
				if eris.Is(err, google.ErrQuotaExceeded) {
					log.Warn("search quota exhausted mid-run", zap.String("category", string(cat)))
					quotaDone = true
					break
				}
				log.Warn("search failed", zap.String("query", q), zap.Error(err))
				result.Failures = append(result.Failures, model.Failure{
					URL:    "query:" + q,
					Reason: "search failed",
				})
				continue
			}
			for _, r := range results {
				if r.Link == "" || seen[r.Link] {
					continue
				}
				seen[r.Link] = true
				candidates = append(candidates, candidateURL{url: r.Link, category: cat})
				found++
				if maxPerCategory > 0 && found >= maxPerCategory {
					break
				}
			}
		}
	}

	log.Info("search complete", zap.Int("candidate_urls", len(candidates)))
	return candidates
}

// extractAll fetches and extracts every candidate URL, validating names at
// the prospect construction boundary. Per-URL failures are recorded and the
// loop continues; nothing here aborts the batch.
func (p *Pipeline) extractAll(ctx context.Context, candidates []candidateURL, names *validate.NameValidator, router *extract.Router, result *Result, log *zap.Logger) []model.Prospect {
	var prospects []model.Prospect

	for _, cand := range candidates {
		if ctx.Err() != nil {
			break
		}

		page := p.clients.Fetcher.Fetch(ctx, cand.url)
		if !page.OK() {
			result.Failures = append(result.Failures, model.Failure{
				URL:    cand.url,
				Reason: string(page.Status),
			})
			continue
		}

		extractor := router.RouteFor(cand.url, cand.category)
		records := extractor.Extract(ctx, page, cand.category)
		if len(records) == 0 {
			// Zero candidates from a page is a valid outcome, not a failure.
			log.Debug("extraction empty",
				zap.String("url", cand.url),
				zap.String("extractor", extractor.Name()),
			)
			continue
		}

		orgName := ""
		for _, rec := range records {
			if !names.PlausiblePersonName(rec.RawName) {
				result.ValidationRejected++
				continue
			}
			if rec.RawOrganization == "" || !validate.PlausibleOrganizationName(rec.RawOrganization) {
				if orgName == "" {
					orgName = extract.OrganizationName(page)
				}
				rec.RawOrganization = orgName
			}
			prospects = append(prospects, model.NewProspect(rec))
		}
	}

	return prospects
}
