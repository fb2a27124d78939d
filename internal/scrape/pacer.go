package scrape

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Pacer spaces fetches to the same host with jittered delays. Fixed-interval
// requests are a bot fingerprint on several target directories, so the delay
// is randomized around a base value and escalates after consecutive
// failures. A global rate limiter additionally caps overall fetch volume.
type Pacer struct {
	base       time.Duration
	jitterFrac float64
	maxDelay   time.Duration
	global     *rate.Limiter

	mu       sync.Mutex
	nextAt   map[string]time.Time
	failures map[string]int

	// now and sleep are injectable so pacing is testable without real time.
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) bool
}

// PacerConfig controls pacing behavior.
type PacerConfig struct {
	// BaseDelay is the nominal gap between requests to one host.
	BaseDelay time.Duration
	// JitterFraction randomizes each delay by ±fraction. Default 0.4.
	JitterFraction float64
	// MaxDelay caps the escalated delay. Default 60s.
	MaxDelay time.Duration
	// GlobalPerSecond caps total fetches per second across hosts. Default 2.
	GlobalPerSecond float64
}

// NewPacer creates a Pacer.
func NewPacer(cfg PacerConfig) *Pacer {
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = 2 * time.Second
	}
	if cfg.JitterFraction <= 0 {
		cfg.JitterFraction = 0.4
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = 60 * time.Second
	}
	if cfg.GlobalPerSecond <= 0 {
		cfg.GlobalPerSecond = 2
	}
	return &Pacer{
		base:       cfg.BaseDelay,
		jitterFrac: cfg.JitterFraction,
		maxDelay:   cfg.MaxDelay,
		global:     rate.NewLimiter(rate.Limit(cfg.GlobalPerSecond), 1),
		nextAt:     make(map[string]time.Time),
		failures:   make(map[string]int),
		now:        time.Now,
		sleep: func(ctx context.Context, d time.Duration) bool {
			t := time.NewTimer(d)
			defer t.Stop()
			select {
			case <-ctx.Done():
				return false
			case <-t.C:
				return true
			}
		},
	}
}

// WithClock injects a clock and sleep function for tests.
func (p *Pacer) WithClock(now func() time.Time, sleep func(ctx context.Context, d time.Duration) bool) *Pacer {
	p.now = now
	p.sleep = sleep
	return p
}

// Wait blocks until a request to host is allowed. Returns false if ctx was
// cancelled while waiting.
func (p *Pacer) Wait(ctx context.Context, host string) bool {
	if err := p.global.Wait(ctx); err != nil {
		return false
	}

	p.mu.Lock()
	wait := p.nextAt[host].Sub(p.now())
	p.mu.Unlock()

	if wait > 0 && !p.sleep(ctx, wait) {
		return false
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.nextAt[host] = p.now().Add(p.delayFor(host))
	return true
}

// RecordFailure escalates the delay for host after a failed fetch.
func (p *Pacer) RecordFailure(host string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failures[host]++
}

// RecordSuccess resets the failure escalation for host.
func (p *Pacer) RecordSuccess(host string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failures[host] = 0
}

// delayFor computes the next jittered delay; callers hold p.mu.
func (p *Pacer) delayFor(host string) time.Duration {
	delay := p.base << uint(min(p.failures[host], 4))
	if delay > p.maxDelay {
		delay = p.maxDelay
	}
	jitter := (rand.Float64()*2 - 1) * p.jitterFrac * float64(delay)
	d := time.Duration(float64(delay) + jitter)
	if d < 0 {
		d = 0
	}
	return d
}
