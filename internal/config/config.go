// Package config loads application configuration from file and environment
// and initializes the global logger.
package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Google    GoogleConfig    `yaml:"google" mapstructure:"google"`
	Jina      JinaConfig      `yaml:"jina" mapstructure:"jina"`
	Firecrawl FirecrawlConfig `yaml:"firecrawl" mapstructure:"firecrawl"`
	Fetch     FetchConfig     `yaml:"fetch" mapstructure:"fetch"`
	Query     QueryConfig     `yaml:"query" mapstructure:"query"`
	Enrich    EnrichConfig    `yaml:"enrich" mapstructure:"enrich"`
	Score     ScoreWeights    `yaml:"score" mapstructure:"score"`
	Pipeline  PipelineConfig  `yaml:"pipeline" mapstructure:"pipeline"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// GoogleConfig holds Custom Search API credentials.
type GoogleConfig struct {
	Key      string `yaml:"key" mapstructure:"key"`
	EngineID string `yaml:"engine_id" mapstructure:"engine_id"`
	// ResultsPerQuery caps organic results requested per search (API max 10).
	ResultsPerQuery int `yaml:"results_per_query" mapstructure:"results_per_query"`
}

// JinaConfig holds Jina AI Reader settings.
type JinaConfig struct {
	Key           string `yaml:"key" mapstructure:"key"`
	BaseURL       string `yaml:"base_url" mapstructure:"base_url"`
	SearchBaseURL string `yaml:"search_base_url" mapstructure:"search_base_url"`
}

// FirecrawlConfig holds Firecrawl API settings (fallback only).
type FirecrawlConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// FetchConfig configures the tiered fetcher: pacing, escalation, and the
// per-host circuit breaker.
type FetchConfig struct {
	// MinContentLen is the static-tier content length below which the fetch
	// escalates to a rendering tier.
	MinContentLen int `yaml:"min_content_len" mapstructure:"min_content_len"`
	// BaseDelayMs is the nominal per-host gap between requests.
	BaseDelayMs int `yaml:"base_delay_ms" mapstructure:"base_delay_ms"`
	// JitterFraction randomizes each delay by ±fraction.
	JitterFraction float64 `yaml:"jitter_fraction" mapstructure:"jitter_fraction"`
	// GlobalPerSecond caps total fetches per second across hosts.
	GlobalPerSecond float64 `yaml:"global_per_second" mapstructure:"global_per_second"`
	// BreakerThreshold is the consecutive-blocked count that trips a host.
	BreakerThreshold int `yaml:"breaker_threshold" mapstructure:"breaker_threshold"`
	// TimeoutSecs bounds a single fetch attempt.
	TimeoutSecs int `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// BaseDelay returns BaseDelayMs as a duration.
func (c FetchConfig) BaseDelay() time.Duration {
	return time.Duration(c.BaseDelayMs) * time.Millisecond
}

// Timeout returns TimeoutSecs as a duration.
func (c FetchConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// QueryConfig configures query building and location normalization.
type QueryConfig struct {
	// LocationAliases maps local phrasings to a canonical location string,
	// e.g. "georgetown" -> "Washington DC".
	LocationAliases map[string]string `yaml:"location_aliases" mapstructure:"location_aliases"`
	// NeighborLocations are jurisdiction names near the request location that
	// directory pages render in name-shaped positions; seeded into the name
	// validator's blocklist.
	NeighborLocations []string `yaml:"neighbor_locations" mapstructure:"neighbor_locations"`
}

// EnrichConfig bounds the contact enricher.
type EnrichConfig struct {
	// MaxLookupsPerField caps secondary searches per missing field.
	MaxLookupsPerField int `yaml:"max_lookups_per_field" mapstructure:"max_lookups_per_field"`
	Enabled            bool `yaml:"enabled" mapstructure:"enabled"`
}

// ScoreWeights are the fixed constants of the influence scorer. All values
// are points on the 0-100 scale.
type ScoreWeights struct {
	Base                 int `yaml:"base" mapstructure:"base"`
	Email                int `yaml:"email" mapstructure:"email"`
	Phone                int `yaml:"phone" mapstructure:"phone"`
	Website              int `yaml:"website" mapstructure:"website"`
	Organization         int `yaml:"organization" mapstructure:"organization"`
	SenioritySenior      int `yaml:"seniority_senior" mapstructure:"seniority_senior"`
	SeniorityMid         int `yaml:"seniority_mid" mapstructure:"seniority_mid"`
	LowConfidencePenalty int `yaml:"low_confidence_penalty" mapstructure:"low_confidence_penalty"`
}

// PipelineConfig configures orchestrator behavior.
type PipelineConfig struct {
	// MaxResultsPerCategory caps search results consumed per category query.
	MaxResultsPerCategory int `yaml:"max_results_per_category" mapstructure:"max_results_per_category"`
	// ListingConcurrency bounds parallel stage-2 profile fetches in the
	// two-hop extractor.
	ListingConcurrency int `yaml:"listing_concurrency" mapstructure:"listing_concurrency"`
	// MaxProfilesPerListing caps stage-2 fetches from one listing page.
	MaxProfilesPerListing int `yaml:"max_profiles_per_listing" mapstructure:"max_profiles_per_listing"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("PROSPECT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "prospects.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("google.results_per_query", 10)
	v.SetDefault("jina.base_url", "https://r.jina.ai")
	v.SetDefault("jina.search_base_url", "https://s.jina.ai")
	v.SetDefault("firecrawl.base_url", "https://api.firecrawl.dev/v1")
	v.SetDefault("fetch.min_content_len", 500)
	v.SetDefault("fetch.base_delay_ms", 2000)
	v.SetDefault("fetch.jitter_fraction", 0.4)
	v.SetDefault("fetch.global_per_second", 2)
	v.SetDefault("fetch.breaker_threshold", 3)
	v.SetDefault("fetch.timeout_secs", 30)
	v.SetDefault("enrich.enabled", true)
	v.SetDefault("enrich.max_lookups_per_field", 1)
	v.SetDefault("score.base", 10)
	v.SetDefault("score.email", 25)
	v.SetDefault("score.phone", 15)
	v.SetDefault("score.website", 5)
	v.SetDefault("score.organization", 15)
	v.SetDefault("score.seniority_senior", 30)
	v.SetDefault("score.seniority_mid", 15)
	v.SetDefault("score.low_confidence_penalty", 15)
	v.SetDefault("pipeline.max_results_per_category", 10)
	v.SetDefault("pipeline.listing_concurrency", 2)
	v.SetDefault("pipeline.max_profiles_per_listing", 10)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
