// Package resilience provides the retry and per-host circuit-breaking
// primitives used by the fetch layer.
package resilience

import (
	"sync"

	"github.com/rotisserie/eris"
)

// ErrHostOpen is returned when a fetch is rejected because the host's
// breaker has tripped.
var ErrHostOpen = eris.New("host circuit breaker is open")

// HostBreakers tracks consecutive blocked responses per host. Once a host
// trips it stays open for the remainder of the run: anti-bot systems that
// have flagged a client do not cool down on the timescale of one batch, so
// remaining URLs for the host are skipped rather than burned.
type HostBreakers struct {
	mu        sync.Mutex
	threshold int
	blocked   map[string]int
	open      map[string]bool
}

// NewHostBreakers creates a registry with the given consecutive-blocked
// threshold. A threshold <= 0 falls back to 3.
func NewHostBreakers(threshold int) *HostBreakers {
	if threshold <= 0 {
		threshold = 3
	}
	return &HostBreakers{
		threshold: threshold,
		blocked:   make(map[string]int),
		open:      make(map[string]bool),
	}
}

// Allow reports whether a fetch may be issued against host.
func (hb *HostBreakers) Allow(host string) bool {
	hb.mu.Lock()
	defer hb.mu.Unlock()
	return !hb.open[host]
}

// RecordBlocked registers a blocked response. Returns true if this trip
// opened the breaker.
func (hb *HostBreakers) RecordBlocked(host string) bool {
	hb.mu.Lock()
	defer hb.mu.Unlock()

	if hb.open[host] {
		return false
	}
	hb.blocked[host]++
	if hb.blocked[host] >= hb.threshold {
		hb.open[host] = true
		return true
	}
	return false
}

// RecordSuccess resets the consecutive-blocked counter for host. Non-blocked
// failures (timeouts, 404s) also route here: only an unbroken run of blocks
// trips the breaker.
func (hb *HostBreakers) RecordSuccess(host string) {
	hb.mu.Lock()
	defer hb.mu.Unlock()
	if !hb.open[host] {
		hb.blocked[host] = 0
	}
}

// OpenHosts returns a snapshot of hosts with tripped breakers.
func (hb *HostBreakers) OpenHosts() []string {
	hb.mu.Lock()
	defer hb.mu.Unlock()
	hosts := make([]string, 0, len(hb.open))
	for h, isOpen := range hb.open {
		if isOpen {
			hosts = append(hosts, h)
		}
	}
	return hosts
}

// Counters returns the consecutive-blocked count and open state for host.
func (hb *HostBreakers) Counters(host string) (consecutiveBlocked int, open bool) {
	hb.mu.Lock()
	defer hb.mu.Unlock()
	return hb.blocked[host], hb.open[host]
}
