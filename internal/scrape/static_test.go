package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/prospect-cli/internal/model"
)

func staticPage(t *testing.T, tier *StaticTier, url string) *model.FetchedPage {
	t.Helper()
	page, err := tier.Fetch(context.Background(), url)
	require.NoError(t, err)
	require.NotNil(t, page)
	return page
}

func TestStaticTier_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("User-Agent"), "ProspectBot")
		w.Write([]byte(`<html><head><title>Our Team | Sunrise</title></head>
<body><h3>Maria Gonzalez</h3><p>Clinical Director</p>` + strings.Repeat(" ", 100) + `</body></html>`))
	}))
	defer srv.Close()

	page := staticPage(t, NewStaticTier(), srv.URL)
	assert.Equal(t, model.FetchOK, page.Status)
	assert.Equal(t, http.StatusOK, page.StatusCode)
	assert.Equal(t, "Our Team | Sunrise", page.Title)
	assert.Contains(t, page.HTML, "Maria Gonzalez")
	assert.Contains(t, page.Text, "Maria Gonzalez")
	assert.Equal(t, "static", page.Source)
}

func TestStaticTier_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	page := staticPage(t, NewStaticTier(), srv.URL)
	assert.Equal(t, model.FetchNotFound, page.Status)
	assert.Equal(t, http.StatusNotFound, page.StatusCode)
}

func TestStaticTier_Blocked(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte("slow down"))
	}))
	defer srv.Close()

	page := staticPage(t, NewStaticTier(), srv.URL)
	assert.Equal(t, model.FetchBlocked, page.Status)
	assert.Contains(t, page.Source, "static:")
}

func TestStaticTier_EmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html></html>"))
	}))
	defer srv.Close()

	page := staticPage(t, NewStaticTier(), srv.URL)
	assert.Equal(t, model.FetchEmpty, page.Status)
}

func TestStaticTier_ConnectionRefused(t *testing.T) {
	// A closed server yields a transport error, not a Go error.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	page := staticPage(t, NewStaticTier(), url)
	assert.Equal(t, model.FetchNotFound, page.Status)
}

func TestStripHTML(t *testing.T) {
	html := `<html><head><title>x</title><style>.a{color:red}</style>
<script>var x = 1;</script></head>
<body>
  <h3>Maria Gonzalez</h3>
  <p>Clinical &amp; Program Director</p>
  <div>Email: maria@sunrise.org</div>
  <noscript>enable javascript</noscript>
</body></html>`

	text := StripHTML(html)

	assert.NotContains(t, text, "var x")
	assert.NotContains(t, text, "color:red")
	assert.NotContains(t, text, "enable javascript")
	assert.NotContains(t, text, "<")

	// Block-level structure becomes line structure.
	lines := strings.Split(text, "\n")
	var nonEmpty []string
	for _, l := range lines {
		if l != "" {
			nonEmpty = append(nonEmpty, l)
		}
	}
	require.GreaterOrEqual(t, len(nonEmpty), 3)
	assert.Contains(t, nonEmpty, "Maria Gonzalez")
	assert.Contains(t, nonEmpty, "Clinical & Program Director")
}

func TestStripHTML_CollapsesWhitespace(t *testing.T) {
	text := StripHTML("<p>a   b</p><br><br><br><br><p>c</p>")
	assert.Equal(t, "a b\n\nc", text)
}
