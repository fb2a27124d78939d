package main

import (
	"context"
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/extract"
	"github.com/sells-group/prospect-cli/internal/pipeline"
	"github.com/sells-group/prospect-cli/internal/resilience"
	"github.com/sells-group/prospect-cli/internal/scrape"
	"github.com/sells-group/prospect-cli/internal/store"
	"github.com/sells-group/prospect-cli/pkg/firecrawl"
	"github.com/sells-group/prospect-cli/pkg/google"
	"github.com/sells-group/prospect-cli/pkg/jina"
)

// pipelineEnv holds the initialized clients and pipeline shared by the
// discover and serve commands.
type pipelineEnv struct {
	Store    store.Store
	Pipeline *pipeline.Pipeline
}

// Close releases resources held by the pipeline environment.
func (pe *pipelineEnv) Close() {
	if pe.Store != nil {
		_ = pe.Store.Close()
	}
}

// initStore opens the configured store backend.
func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	case "sqlite", "":
		return store.NewSQLite(cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// initPipeline sets up the store, API clients, tiered fetcher, and
// pipeline. Callers should defer env.Close().
func initPipeline(ctx context.Context) (*pipelineEnv, error) {
	if cfg.Google.Key == "" || cfg.Google.EngineID == "" {
		return nil, eris.New("PROSPECT_GOOGLE_KEY and PROSPECT_GOOGLE_ENGINE_ID are required")
	}

	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	searchClient := google.NewClient(cfg.Google.Key, cfg.Google.EngineID)

	// Tier order: static first, rendering tiers only on escalation.
	tiers := []scrape.Tier{scrape.NewStaticTier()}
	var jinaClient jina.Client
	if cfg.Jina.Key != "" {
		jinaOpts := []jina.Option{jina.WithBaseURL(cfg.Jina.BaseURL)}
		if cfg.Jina.SearchBaseURL != "" {
			jinaOpts = append(jinaOpts, jina.WithSearchBaseURL(cfg.Jina.SearchBaseURL))
		}
		jinaClient = jina.NewClient(cfg.Jina.Key, jinaOpts...)
		tiers = append(tiers, scrape.NewJinaTier(jinaClient))
	} else {
		zap.L().Debug("PROSPECT_JINA_KEY not set, jina rendering tier disabled")
	}
	if cfg.Firecrawl.Key != "" {
		fc := firecrawl.NewClient(cfg.Firecrawl.Key, firecrawl.WithBaseURL(cfg.Firecrawl.BaseURL))
		tiers = append(tiers, scrape.NewFirecrawlTier(fc))
	}

	pacer := scrape.NewPacer(scrape.PacerConfig{
		BaseDelay:       cfg.Fetch.BaseDelay(),
		JitterFraction:  cfg.Fetch.JitterFraction,
		GlobalPerSecond: cfg.Fetch.GlobalPerSecond,
	})
	breakers := resilience.NewHostBreakers(cfg.Fetch.BreakerThreshold)
	fetcher := scrape.NewTiered(pacer, breakers, cfg.Fetch.MinContentLen, tiers...)

	p := pipeline.New(cfg, pipeline.Clients{
		Search:  searchClient,
		Jina:    jinaClient,
		Fetcher: fetcher,
		Store:   st,
	})

	return &pipelineEnv{Store: st, Pipeline: p}, nil
}

// loadRouterRules reads an optional YAML rules file for diagnostics
// commands; the pipeline itself uses the built-in table unless the file is
// present.
func loadRouterRules(path string) ([]extract.Rule, error) {
	if path == "" {
		return extract.DefaultRules(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read rules file %s", path)
	}
	loaded, err := extract.LoadRules(data)
	if err != nil {
		return nil, err
	}
	return append(loaded, extract.DefaultRules()...), nil
}
