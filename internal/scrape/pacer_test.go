package scrape

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testClock is a manual clock whose sleep advances time instead of blocking.
type testClock struct {
	now    time.Time
	slept  []time.Duration
	cancel bool
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Sleep(ctx context.Context, d time.Duration) bool {
	if c.cancel {
		return false
	}
	c.slept = append(c.slept, d)
	c.now = c.now.Add(d)
	return true
}

func newTestPacer(c *testClock, base time.Duration, jitter float64) *Pacer {
	return NewPacer(PacerConfig{
		BaseDelay:       base,
		JitterFraction:  jitter,
		GlobalPerSecond: 1000000,
	}).WithClock(c.Now, c.Sleep)
}

func TestPacer_FirstRequestImmediate(t *testing.T) {
	c := newTestClock()
	p := newTestPacer(c, time.Second, 0.01)

	require.True(t, p.Wait(context.Background(), "a.com"))
	assert.Empty(t, c.slept, "no delay before the first request to a host")
}

func TestPacer_SecondRequestWaitsJitteredBase(t *testing.T) {
	c := newTestClock()
	p := newTestPacer(c, time.Second, 0.4)

	require.True(t, p.Wait(context.Background(), "a.com"))
	require.True(t, p.Wait(context.Background(), "a.com"))

	require.Len(t, c.slept, 1)
	// Jittered around 1s by ±40%.
	assert.GreaterOrEqual(t, c.slept[0], 600*time.Millisecond)
	assert.LessOrEqual(t, c.slept[0], 1400*time.Millisecond)
}

func TestPacer_HostsIndependent(t *testing.T) {
	c := newTestClock()
	p := newTestPacer(c, time.Second, 0.01)

	require.True(t, p.Wait(context.Background(), "a.com"))
	require.True(t, p.Wait(context.Background(), "b.com"))
	assert.Empty(t, c.slept, "first request to each host is immediate")
}

func TestPacer_FailureEscalatesDelay(t *testing.T) {
	c := newTestClock()
	p := newTestPacer(c, time.Second, 0.01)

	require.True(t, p.Wait(context.Background(), "a.com"))
	p.RecordFailure("a.com")
	p.RecordFailure("a.com")

	// nextAt was set before the failures; drain it, then measure the
	// escalated gap the next Wait schedules.
	require.True(t, p.Wait(context.Background(), "a.com"))
	require.True(t, p.Wait(context.Background(), "a.com"))

	require.Len(t, c.slept, 2)
	// Two failures double the base twice: ~4s ±1%.
	assert.Greater(t, c.slept[1], 3900*time.Millisecond)
	assert.Less(t, c.slept[1], 4100*time.Millisecond)
}

func TestPacer_SuccessResetsEscalation(t *testing.T) {
	c := newTestClock()
	p := newTestPacer(c, time.Second, 0.01)

	p.RecordFailure("a.com")
	p.RecordFailure("a.com")
	p.RecordSuccess("a.com")

	require.True(t, p.Wait(context.Background(), "a.com"))
	require.True(t, p.Wait(context.Background(), "a.com"))

	require.Len(t, c.slept, 1)
	assert.Less(t, c.slept[0], 1100*time.Millisecond)
}

func TestPacer_CancelledWhileWaiting(t *testing.T) {
	c := newTestClock()
	p := newTestPacer(c, time.Second, 0.01)

	require.True(t, p.Wait(context.Background(), "a.com"))
	c.cancel = true
	assert.False(t, p.Wait(context.Background(), "a.com"))
}

func TestPacer_DelayCappedAtMax(t *testing.T) {
	c := newTestClock()
	p := NewPacer(PacerConfig{
		BaseDelay:       10 * time.Second,
		JitterFraction:  0.01,
		MaxDelay:        15 * time.Second,
		GlobalPerSecond: 1000000,
	}).WithClock(c.Now, c.Sleep)

	for i := 0; i < 6; i++ {
		p.RecordFailure("a.com")
	}
	require.True(t, p.Wait(context.Background(), "a.com"))
	require.True(t, p.Wait(context.Background(), "a.com"))

	require.Len(t, c.slept, 1)
	assert.LessOrEqual(t, c.slept[0], 15200*time.Millisecond)
}
