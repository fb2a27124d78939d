package scrape

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/prospect-cli/internal/model"
)

const maxBodyBytes = 512 * 1024

// StaticTier fetches HTML via net/http. Free and fast; most directory pages
// are static, so this tier resolves the bulk of the batch.
type StaticTier struct {
	client *http.Client
}

// NewStaticTier creates a StaticTier with conservative timeouts.
func NewStaticTier() *StaticTier {
	return &StaticTier{
		client: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 10 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
	}
}

func (s *StaticTier) Name() string { return "static" }

// Fetch retrieves a URL and classifies the outcome. Transport failures are
// classified into the page Status; the error return is reserved for request
// construction.
func (s *StaticTier) Fetch(ctx context.Context, targetURL string) (*model.FetchedPage, error) {
	page := &model.FetchedPage{URL: targetURL, Source: s.Name()}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "static: create request")
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; ProspectBot/1.0)")
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := s.client.Do(req)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			page.Status = model.FetchTimeout
		} else {
			page.Status = model.FetchNotFound
		}
		return page, nil
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		page.Status = model.FetchTimeout
		return page, nil
	}
	page.StatusCode = resp.StatusCode

	if blocked, blockType := DetectBlock(resp, body); blocked {
		page.Status = model.FetchBlocked
		page.Source = s.Name() + ":" + string(blockType)
		return page, nil
	}

	if resp.StatusCode >= 400 {
		page.Status = model.FetchNotFound
		return page, nil
	}

	if len(body) < 100 {
		page.Status = model.FetchEmpty
		return page, nil
	}

	page.HTML = string(body)
	page.Title = extractTitle(body)
	page.Text = StripHTML(page.HTML)
	page.Status = model.FetchOK
	return page, nil
}

var titleRe = regexp.MustCompile(`(?i)<title[^>]*>(.*?)</title>`)

// extractTitle pulls the <title> from HTML.
func extractTitle(body []byte) string {
	m := titleRe.FindSubmatch(body)
	if len(m) > 1 {
		return strings.TrimSpace(string(m[1]))
	}
	return ""
}

var (
	blockTagRes = func() []*regexp.Regexp {
		var res []*regexp.Regexp
		for _, tag := range []string{"script", "style", "noscript"} {
			res = append(res, regexp.MustCompile(`(?is)<`+tag+`[^>]*>.*?</`+tag+`>`))
		}
		return res
	}()
	brRe    = regexp.MustCompile(`(?i)<(?:br|/p|/div|/li|/tr|/h[1-6])[^>]*>`)
	tagRe   = regexp.MustCompile(`<[^>]+>`)
	spaceRe = regexp.MustCompile(`[ \t]+`)
	nlRe    = regexp.MustCompile(`\n{3,}`)
)

// StripHTML removes script/style blocks, converts block-level closers to
// newlines, strips tags, decodes common entities, and collapses whitespace.
// Line structure is preserved because the generic extractor works on
// name/title line adjacency.
func StripHTML(html string) string {
	for _, re := range blockTagRes {
		html = re.ReplaceAllString(html, "")
	}

	html = brRe.ReplaceAllString(html, "\n")
	html = tagRe.ReplaceAllString(html, " ")

	r := strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
		"&nbsp;", " ",
	)
	html = r.Replace(html)

	html = spaceRe.ReplaceAllString(html, " ")

	// Trim per-line, drop runs of blank lines.
	lines := strings.Split(html, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	html = strings.Join(lines, "\n")
	html = nlRe.ReplaceAllString(html, "\n\n")

	return strings.TrimSpace(html)
}
