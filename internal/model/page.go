package model

// FetchStatus classifies the outcome of a fetch attempt. Transport failures
// surface as statuses rather than errors so a single bad page never aborts
// a batch.
type FetchStatus string

const (
	FetchOK       FetchStatus = "ok"
	FetchTimeout  FetchStatus = "timeout"
	FetchBlocked  FetchStatus = "blocked"
	FetchNotFound FetchStatus = "not_found"
	FetchEmpty    FetchStatus = "empty"
	// FetchSkipped means the host's circuit breaker was open and no request
	// was issued.
	FetchSkipped FetchStatus = "skipped"
)

// FetchedPage holds the content of one fetched URL plus fetch metadata.
type FetchedPage struct {
	URL        string      `json:"url"`
	Title      string      `json:"title,omitempty"`
	HTML       string      `json:"html,omitempty"`
	Text       string      `json:"text,omitempty"`
	StatusCode int         `json:"status_code,omitempty"`
	Status     FetchStatus `json:"status"`
	Source     string      `json:"source,omitempty"` // fetch tier, e.g. "static", "jina"
}

// OK reports whether the page carries usable content.
func (p FetchedPage) OK() bool {
	return p.Status == FetchOK
}

// Failure is one per-URL entry in a run's failure log.
type Failure struct {
	URL    string `json:"url"`
	Reason string `json:"reason"`
}
