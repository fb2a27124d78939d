package scrape

import (
	"context"
	"net/url"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/resilience"
)

// Tiered is the production Fetcher: a static HTTP attempt first, then the
// rendering tiers in order, gated by the per-host pacer and circuit
// breaker. Escalation happens only when the static result is blocked,
// empty, or below the minimum content length — the rendering tiers are
// rate-limited and metered.
type Tiered struct {
	tiers         []Tier
	pacer         *Pacer
	breakers      *resilience.HostBreakers
	minContentLen int
	retry         resilience.RetryConfig
}

// NewTiered creates a Tiered fetcher. Tier order is attempt order.
func NewTiered(pacer *Pacer, breakers *resilience.HostBreakers, minContentLen int, tiers ...Tier) *Tiered {
	if minContentLen <= 0 {
		minContentLen = 500
	}
	return &Tiered{
		tiers:         tiers,
		pacer:         pacer,
		breakers:      breakers,
		minContentLen: minContentLen,
		retry:         resilience.DefaultRetryConfig(),
	}
}

// WithRetry overrides the per-tier retry configuration.
func (t *Tiered) WithRetry(cfg resilience.RetryConfig) *Tiered {
	t.retry = cfg
	return t
}

// Breakers exposes the breaker registry so the orchestrator can report
// skipped hosts.
func (t *Tiered) Breakers() *resilience.HostBreakers { return t.breakers }

// Fetch retrieves targetURL. Never returns an error: transport and API
// failures surface in the page Status.
func (t *Tiered) Fetch(ctx context.Context, targetURL string) model.FetchedPage {
	host := hostOf(targetURL)
	if host == "" {
		return model.FetchedPage{URL: targetURL, Status: model.FetchNotFound}
	}

	if !t.breakers.Allow(host) {
		return model.FetchedPage{URL: targetURL, Status: model.FetchSkipped}
	}
	if !t.pacer.Wait(ctx, host) {
		// Cancelled while pacing; report as skipped, not failed.
		return model.FetchedPage{URL: targetURL, Status: model.FetchSkipped}
	}

	var last, thinOK model.FetchedPage
	for i, tier := range t.tiers {
		// A timeout gets one retry with backoff before the tier is given up on.
		page, err := resilience.DoVal(ctx, t.retry, func(ctx context.Context) (*model.FetchedPage, error) {
			p, err := tier.Fetch(ctx, targetURL)
			if err != nil {
				return nil, err
			}
			if p.Status == model.FetchTimeout {
				return nil, resilience.NewTransientError(eris.Errorf("fetch timed out: %s", targetURL), 0)
			}
			return p, nil
		})
		if err != nil {
			zap.L().Warn("fetch tier failed",
				zap.String("tier", tier.Name()),
				zap.String("url", targetURL),
				zap.Error(err),
			)
			t.pacer.RecordFailure(host)
			last = model.FetchedPage{URL: targetURL, Status: model.FetchTimeout, Source: tier.Name()}
			continue
		}
		last = *page

		switch page.Status {
		case model.FetchOK:
			if len(page.Text) >= t.minContentLen || i == len(t.tiers)-1 {
				t.pacer.RecordSuccess(host)
				t.breakers.RecordSuccess(host)
				return last
			}
			// Thin content: likely a JS shell the static tier can't see
			// through. Keep it in case every rendering tier fails, then
			// escalate.
			thinOK = last
			zap.L().Debug("fetch escalating on thin content",
				zap.String("tier", tier.Name()),
				zap.String("url", targetURL),
				zap.Int("content_len", len(page.Text)),
			)
		case model.FetchBlocked:
			t.pacer.RecordFailure(host)
			if tripped := t.breakers.RecordBlocked(host); tripped {
				zap.L().Warn("host circuit breaker tripped", zap.String("host", host))
				return last
			}
		case model.FetchNotFound:
			// A 404 is definitive; rendering will not change it.
			t.pacer.RecordSuccess(host)
			t.breakers.RecordSuccess(host)
			return last
		default:
			// empty/timeout: try the next tier.
			t.pacer.RecordFailure(host)
		}
	}

	if last.Status != model.FetchOK && thinOK.Status == model.FetchOK {
		return thinOK
	}
	return last
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}
