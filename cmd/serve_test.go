package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/pipeline"
)

// fakeRunner returns a canned pipeline result or error.
type fakeRunner struct {
	result *pipeline.Result
	err    error
	req    pipeline.Request
}

func (f *fakeRunner) Run(_ context.Context, req pipeline.Request) (*pipeline.Result, error) {
	f.req = req
	return f.result, f.err
}

func postDiscover(t *testing.T, runner discoverRunner, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/discover", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	buildRouter(runner).ServeHTTP(rr, req)
	return rr
}

func TestBuildRouter_HealthEndpoint(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	buildRouter(&fakeRunner{}).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "application/json")

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestBuildRouter_Discover_Success(t *testing.T) {
	runner := &fakeRunner{result: &pipeline.Result{
		Prospects: []model.Prospect{{
			Name: "Dr. Sarah Johnson", Title: "Pediatrician",
			Category: model.CategoryPediatricians, Score: 80,
		}},
		PerCategoryCounts: map[model.Category]int{model.CategoryPediatricians: 1},
	}}

	rr := postDiscover(t, runner, map[string]any{
		"categories":  []string{"pediatricians"},
		"location":    "Washington DC",
		"max_results": 25,
	})

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Washington DC", runner.req.Location)
	assert.Equal(t, 25, runner.req.MaxResults)
	require.Len(t, runner.req.Categories, 1)

	var resp pipeline.Result
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Prospects, 1)
	assert.Equal(t, "Dr. Sarah Johnson", resp.Prospects[0].Name)
	assert.Equal(t, 1, resp.PerCategoryCounts[model.CategoryPediatricians])
}

func TestBuildRouter_Discover_UnknownCategory(t *testing.T) {
	rr := postDiscover(t, &fakeRunner{}, map[string]any{
		"categories": []string{"dentists"},
		"location":   "Washington DC",
	})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "dentists")
}

func TestBuildRouter_Discover_MalformedBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/discover", bytes.NewReader([]byte("{not json")))
	rr := httptest.NewRecorder()
	buildRouter(&fakeRunner{}).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "invalid request body")
}

func TestBuildRouter_Discover_PipelineBadRequest(t *testing.T) {
	runner := &fakeRunner{err: eris.Wrap(pipeline.ErrBadRequest, "location is required")}

	rr := postDiscover(t, runner, map[string]any{
		"categories": []string{"pediatricians"},
	})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "location")
}

func TestBuildRouter_Discover_InternalError(t *testing.T) {
	runner := &fakeRunner{err: eris.New("store unavailable")}

	rr := postDiscover(t, runner, map[string]any{
		"categories": []string{"pediatricians"},
		"location":   "Washington DC",
	})

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "store unavailable", "internals are not leaked")
}
