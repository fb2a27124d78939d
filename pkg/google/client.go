// Package google provides a client for the Google Custom Search JSON API,
// the pipeline's web search collaborator.
package google

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://www.googleapis.com/customsearch/v1"

// ErrQuotaExceeded is returned when the API reports the daily query quota is
// exhausted. Callers stop issuing new searches but keep processing URLs
// already found.
var ErrQuotaExceeded = eris.New("google: search quota exceeded")

// Client performs Custom Search operations.
type Client interface {
	Search(ctx context.Context, query string, num int) ([]Result, error)
}

// Result is a single organic search result.
type Result struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

type searchResponse struct {
	Items []Result `json:"items"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) { c.baseURL = u }
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) { c.http = hc }
}

type httpClient struct {
	apiKey   string
	engineID string
	baseURL  string
	http     *http.Client
}

// NewClient creates a Custom Search client for the given API key and
// programmable search engine ID.
func NewClient(apiKey, engineID string, opts ...Option) Client {
	c := &httpClient{
		apiKey:   apiKey,
		engineID: engineID,
		baseURL:  defaultBaseURL,
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Search runs one query and returns up to num organic results. The API caps
// a single request at 10 results.
func (c *httpClient) Search(ctx context.Context, query string, num int) ([]Result, error) {
	if num <= 0 || num > 10 {
		num = 10
	}

	q := url.Values{}
	q.Set("key", c.apiKey)
	q.Set("cx", c.engineID)
	q.Set("q", query)
	q.Set("num", strconv.Itoa(num))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "google: create request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "google: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "google: read response")
	}

	// Quota exhaustion arrives as 429, or as 403 with RESOURCE_EXHAUSTED in
	// the error payload.
	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, ErrQuotaExceeded
	}

	var result searchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrapf(err, "google: unmarshal response (status %d)", resp.StatusCode)
	}

	if resp.StatusCode != http.StatusOK {
		if result.Error != nil && (result.Error.Status == "RESOURCE_EXHAUSTED" || result.Error.Code == 429) {
			return nil, ErrQuotaExceeded
		}
		return nil, eris.Errorf("google: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	return result.Items, nil
}
