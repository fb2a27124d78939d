// Package query builds the category- and location-scoped search queries
// consumed by the web search collaborator.
package query

import (
	"fmt"
	"strings"

	"github.com/sells-group/prospect-cli/internal/config"
	"github.com/sells-group/prospect-cli/internal/model"
)

// template holds the per-category query shape: keywords that scope the
// vertical plus site-restriction operators for its known host directories.
// Multi-category requests get one query per category; merging categories
// into one query measurably reduces per-category recall.
type template struct {
	keywords string
	sites    []string
}

var templates = map[model.Category]template{
	model.CategoryPediatricians: {
		keywords: `pediatrician "MD" profile`,
		sites:    []string{"healthgrades.com", "zocdoc.com", "webmd.com"},
	},
	model.CategoryPsychologists: {
		keywords: `psychologist therapist profile`,
		sites:    []string{"psychologytoday.com", "goodtherapy.org", "therapyden.com"},
	},
	model.CategoryTreatmentCenters: {
		keywords: `treatment center staff "our team"`,
		sites:    nil, // center sites are long-tail; no host restriction
	},
	model.CategoryEmbassies: {
		keywords: `embassy "education officer" OR "cultural attache" staff`,
		sites:    []string{".gov", ".org"},
	},
	model.CategoryYouthSports: {
		keywords: `youth sports club coaches "coaching staff"`,
		sites:    nil,
	},
}

// Builder constructs search query strings.
type Builder struct {
	cfg config.QueryConfig
}

// NewBuilder creates a Builder.
func NewBuilder(cfg config.QueryConfig) *Builder {
	return &Builder{cfg: cfg}
}

// Build returns the query strings for one category in one location. Keyword
// overrides replace the template keywords when provided. Site-restricted and
// open variants are emitted as separate queries: the restricted query finds
// directory profiles, the open one finds organization staff pages.
func (b *Builder) Build(category model.Category, location string, overrides []string) []string {
	tpl, ok := templates[category]
	if !ok {
		return nil
	}

	loc := NormalizeLocation(location, b.cfg.LocationAliases)
	keywords := tpl.keywords
	if len(overrides) > 0 {
		keywords = strings.Join(overrides, " ")
	}

	var queries []string
	if len(tpl.sites) > 0 {
		queries = append(queries, fmt.Sprintf("%s %s %s", keywords, loc, siteClause(tpl.sites)))
	}
	queries = append(queries, fmt.Sprintf("%s %s", keywords, loc))
	return queries
}

// BuildAll returns queries for each requested category, keyed by category.
func (b *Builder) BuildAll(categories []model.Category, location string, overrides []string) map[model.Category][]string {
	out := make(map[model.Category][]string, len(categories))
	for _, c := range categories {
		if qs := b.Build(c, location, overrides); len(qs) > 0 {
			out[c] = qs
		}
	}
	return out
}

// LocationBlocklist returns the location names the name validator should
// reject for a request: the canonical location, its alias spellings, and
// configured neighboring jurisdictions.
func (b *Builder) LocationBlocklist(location string) []string {
	canonical := NormalizeLocation(location, b.cfg.LocationAliases)
	seen := map[string]bool{}
	var names []string
	add := func(s string) {
		key := fold(s)
		if key != "" && !seen[key] {
			seen[key] = true
			names = append(names, s)
		}
	}

	add(location)
	add(canonical)
	for alias, target := range builtinAliases {
		if target == canonical {
			add(alias)
		}
	}
	for alias, target := range b.cfg.LocationAliases {
		if NormalizeLocation(target, nil) == canonical {
			add(alias)
		}
	}
	for _, n := range b.cfg.NeighborLocations {
		add(n)
	}
	return names
}

// siteClause renders OR-joined site restriction operators.
func siteClause(sites []string) string {
	parts := make([]string, len(sites))
	for i, s := range sites {
		parts[i] = "site:" + s
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}
