package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/prospect-cli/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.Migrate(context.Background()))
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleProspect() model.Prospect {
	return model.Prospect{
		Name:         "Sarah Johnson",
		Title:        "Pediatrician",
		Organization: "Children's National",
		Category:     model.CategoryPediatricians,
		Contact: model.Contact{
			Email: "sjohnson@childrens.org",
			Phone: "(202) 555-1234",
		},
		SourceURL: "https://dir.example.com/dr-sarah-johnson",
		Score:     80,
	}
}

func TestSQLite_UpsertIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id1, err := s.UpsertProspect(ctx, sampleProspect())
	require.NoError(t, err)

	id2, err := s.UpsertProspect(ctx, sampleProspect())
	require.NoError(t, err)
	assert.Equal(t, id1, id2, "same identity key keeps the stored row's id")

	prospects, err := s.ListProspects(ctx, ProspectFilter{})
	require.NoError(t, err)
	assert.Len(t, prospects, 1)
}

func TestSQLite_UpsertRicherFieldsWin(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := sampleProspect()
	first.Title = ""
	first.Contact.Phone = ""
	first.Score = 50
	_, err := s.UpsertProspect(ctx, first)
	require.NoError(t, err)

	// Second sighting brings the phone and a higher score but no email.
	second := sampleProspect()
	second.Contact.Email = "sjohnson@childrens.org" // same key
	second.Score = 65
	_, err = s.UpsertProspect(ctx, second)
	require.NoError(t, err)

	// Third sighting is poorer on every axis; nothing regresses.
	third := sampleProspect()
	third.Title = ""
	third.Organization = ""
	third.Contact.Phone = ""
	third.Score = 20
	_, err = s.UpsertProspect(ctx, third)
	require.NoError(t, err)

	prospects, err := s.ListProspects(ctx, ProspectFilter{})
	require.NoError(t, err)
	require.Len(t, prospects, 1)

	got := prospects[0]
	assert.Equal(t, "Pediatrician", got.Title)
	assert.Equal(t, "Children's National", got.Organization)
	assert.Equal(t, "(202) 555-1234", got.Contact.Phone)
	assert.Equal(t, 65, got.Score, "score keeps the max across sightings")
}

func TestSQLite_ListFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := sampleProspect()
	_, err := s.UpsertProspect(ctx, a)
	require.NoError(t, err)

	b := model.Prospect{
		Name:     "Jane Roe",
		Title:    "Clinical Psychologist",
		Category: model.CategoryPsychologists,
		Contact:  model.Contact{Email: "jroe@sunrise.org"},
		Score:    40,
	}
	_, err = s.UpsertProspect(ctx, b)
	require.NoError(t, err)

	byCategory, err := s.ListProspects(ctx, ProspectFilter{Category: model.CategoryPsychologists})
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, "Jane Roe", byCategory[0].Name)

	byScore, err := s.ListProspects(ctx, ProspectFilter{MinScore: 60})
	require.NoError(t, err)
	require.Len(t, byScore, 1)
	assert.Equal(t, "Sarah Johnson", byScore[0].Name)

	limited, err := s.ListProspects(ctx, ProspectFilter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "Sarah Johnson", limited[0].Name, "ordered by score descending")
}

func TestSQLite_CountByCategory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.UpsertProspect(ctx, sampleProspect())
	require.NoError(t, err)
	_, err = s.UpsertProspect(ctx, model.Prospect{
		Name: "Jane Roe", Category: model.CategoryPsychologists,
		Contact: model.Contact{Email: "jroe@sunrise.org"},
	})
	require.NoError(t, err)
	_, err = s.UpsertProspect(ctx, model.Prospect{
		Name: "Emily Tran", Category: model.CategoryPsychologists,
		Contact: model.Contact{Email: "etran@sunrise.org"},
	})
	require.NoError(t, err)

	counts, err := s.CountByCategory(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, counts[model.CategoryPediatricians])
	assert.Equal(t, 2, counts[model.CategoryPsychologists])
}

func TestSQLite_RunLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, []model.Category{model.CategoryPediatricians}, "Washington DC")
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusBuildQueries, run.Status)

	require.NoError(t, s.UpdateRunStatus(ctx, run.ID, model.RunStatusExtract))
	require.NoError(t, s.CompleteRun(ctx, run.ID, &model.RunResult{
		Prospects:  12,
		DurationMs: 4200,
	}))

	assert.Error(t, s.UpdateRunStatus(ctx, "no-such-run", model.RunStatusExtract))
	assert.Error(t, s.CompleteRun(ctx, "no-such-run", &model.RunResult{}))
}
