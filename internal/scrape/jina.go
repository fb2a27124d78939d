package scrape

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/pkg/jina"
)

// JinaTier fetches through the Jina AI Reader, which renders JavaScript.
// Rate-limited and metered, so it only runs on escalation.
type JinaTier struct {
	client jina.Client
}

// NewJinaTier creates a JinaTier backed by the given client.
func NewJinaTier(client jina.Client) *JinaTier {
	return &JinaTier{client: client}
}

func (j *JinaTier) Name() string { return "jina" }

func (j *JinaTier) Fetch(ctx context.Context, targetURL string) (*model.FetchedPage, error) {
	resp, err := j.client.Read(ctx, targetURL)
	if err != nil {
		if eris.Is(err, jina.ErrRateLimited) {
			return &model.FetchedPage{
				URL:    targetURL,
				Status: model.FetchBlocked,
				Source: j.Name(),
			}, nil
		}
		return nil, err
	}

	page := &model.FetchedPage{
		URL:    targetURL,
		Title:  resp.Data.Title,
		HTML:   resp.Data.HTML,
		Source: j.Name(),
	}

	switch {
	case resp.Data.HTML != "":
		page.Text = StripHTML(resp.Data.HTML)
	case resp.Data.Content != "":
		page.Text = resp.Data.Content
	default:
		page.Status = model.FetchEmpty
		return page, nil
	}

	page.Status = model.FetchOK
	return page, nil
}
