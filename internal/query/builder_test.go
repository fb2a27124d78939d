package query

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/prospect-cli/internal/config"
	"github.com/sells-group/prospect-cli/internal/model"
)

func TestBuild_EmbassyQueryScopedToCategory(t *testing.T) {
	b := NewBuilder(config.QueryConfig{})

	queries := b.Build(model.CategoryEmbassies, "Washington DC", nil)
	require.NotEmpty(t, queries)

	for _, q := range queries {
		assert.Contains(t, q, "embassy")
		assert.Contains(t, q, "Washington DC")
		// No cross-category keyword leakage.
		assert.NotContains(t, q, "pediatrician")
		assert.NotContains(t, q, "psychologist")
		assert.NotContains(t, q, "coach")
	}
}

func TestBuild_SiteRestriction(t *testing.T) {
	b := NewBuilder(config.QueryConfig{})

	queries := b.Build(model.CategoryPsychologists, "Chicago", nil)
	require.Len(t, queries, 2)

	assert.Contains(t, queries[0], "site:psychologytoday.com")
	assert.NotContains(t, queries[1], "site:")
}

func TestBuild_KeywordOverrides(t *testing.T) {
	b := NewBuilder(config.QueryConfig{})

	queries := b.Build(model.CategoryPediatricians, "Boston", []string{"adolescent medicine"})
	require.NotEmpty(t, queries)
	assert.Contains(t, queries[0], "adolescent medicine")
	assert.NotContains(t, queries[0], "pediatrician")
}

func TestBuildAll_OneQuerySetPerCategory(t *testing.T) {
	b := NewBuilder(config.QueryConfig{})

	all := b.BuildAll([]model.Category{model.CategoryEmbassies, model.CategoryYouthSports}, "Washington DC", nil)
	require.Len(t, all, 2)
	assert.NotEmpty(t, all[model.CategoryEmbassies])
	assert.NotEmpty(t, all[model.CategoryYouthSports])
}

func TestNormalizeLocation(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Washington DC", "Washington DC"},
		{"washington, d.c.", "Washington DC"},
		{"Georgetown", "Washington DC"},
		{"  Dupont   Circle ", "Washington DC"},
		{"Brooklyn", "New York City"},
		{"Sao Paulo", "Sao Paulo"}, // pass-through
		{"São Paulo", "Sao Paulo"}, // diacritics folded for lookup only
		{"", ""},
	}
	for _, tt := range tests {
		got := NormalizeLocation(tt.in, nil)
		if tt.in == "São Paulo" {
			// Unmatched locations pass through with original text.
			assert.Equal(t, "São Paulo", got)
			continue
		}
		assert.Equal(t, tt.want, got, "input: %q", tt.in)
	}
}

func TestNormalizeLocation_ConfigAliases(t *testing.T) {
	extra := map[string]string{"Old Town": "Alexandria VA"}
	assert.Equal(t, "Alexandria VA", NormalizeLocation("old town", extra))
}

func TestLocationBlocklist(t *testing.T) {
	b := NewBuilder(config.QueryConfig{
		NeighborLocations: []string{"Arlington", "Bethesda"},
	})

	names := b.LocationBlocklist("Washington DC")

	joined := strings.ToLower(strings.Join(names, "|"))
	assert.Contains(t, joined, "washington dc")
	assert.Contains(t, joined, "georgetown")
	assert.Contains(t, joined, "arlington")
	assert.Contains(t, joined, "bethesda")
}
