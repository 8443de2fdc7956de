package ratelimit

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestFixedWindow_FiveAllowedSixthRejected(t *testing.T) {
	clock := newFakeClock()
	l := NewFixedWindow(60*time.Second, 5, WithClock(clock.Now))

	for i := 0; i < 5; i++ {
		assert.False(t, l.IsRateLimited("1.2.3.4"), "request %d should pass", i+1)
		clock.Advance(time.Second)
	}
	assert.True(t, l.IsRateLimited("1.2.3.4"))
	assert.True(t, l.IsRateLimited("1.2.3.4"))
}

func TestFixedWindow_ResetsAfterWindow(t *testing.T) {
	clock := newFakeClock()
	l := NewFixedWindow(60*time.Second, 5, WithClock(clock.Now))

	for i := 0; i < 6; i++ {
		l.IsRateLimited("a")
	}
	require.True(t, l.IsRateLimited("a"))

	// resetTime itself still belongs to the window
	clock.Advance(60 * time.Second)
	assert.True(t, l.IsRateLimited("a"))

	clock.Advance(time.Millisecond)
	assert.False(t, l.IsRateLimited("a"))
}

func TestFixedWindow_RejectedRequestsDoNotExtendCount(t *testing.T) {
	clock := newFakeClock()
	l := NewFixedWindow(time.Minute, 2, WithClock(clock.Now))

	l.IsRateLimited("a")
	l.IsRateLimited("a")
	for i := 0; i < 10; i++ {
		assert.True(t, l.IsRateLimited("a"))
	}

	l.mu.Lock()
	assert.Equal(t, 2, l.records["a"].Count)
	l.mu.Unlock()
}

func TestFixedWindow_IdentifiersAreIndependent(t *testing.T) {
	l := NewFixedWindow(time.Minute, 1)

	assert.False(t, l.IsRateLimited("a"))
	assert.True(t, l.IsRateLimited("a"))
	assert.False(t, l.IsRateLimited("b"))
}

func TestFixedWindow_BoundaryBurst(t *testing.T) {
	clock := newFakeClock()
	l := NewFixedWindow(time.Minute, 5, WithClock(clock.Now))

	l.IsRateLimited("a") // opens the window
	clock.Advance(59 * time.Second)
	admitted := 1
	for i := 0; i < 4; i++ {
		if !l.IsRateLimited("a") {
			admitted++
		}
	}
	clock.Advance(2 * time.Second)
	for i := 0; i < 5; i++ {
		if !l.IsRateLimited("a") {
			admitted++
		}
	}

	// 9 of the 10 requests fell inside ~3 seconds
	assert.Equal(t, 10, admitted)
}

func TestFixedWindow_ConcurrentCallersNeverExceedLimit(t *testing.T) {
	l := NewFixedWindow(time.Minute, 5)

	var admitted int64
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if !l.IsRateLimited("same") {
				atomic.AddInt64(&admitted, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(5), admitted)
}

func TestFixedWindow_Sweep(t *testing.T) {
	clock := newFakeClock()
	l := NewFixedWindow(time.Minute, 5, WithClock(clock.Now))

	l.IsRateLimited("old")
	clock.Advance(30 * time.Second)
	l.IsRateLimited("new")
	clock.Advance(31 * time.Second)

	assert.Equal(t, 1, l.Sweep())
	assert.Equal(t, 1, l.Len())
}

func TestFixedWindow_StartSweeperStopsOnCancel(t *testing.T) {
	l := NewFixedWindow(time.Millisecond, 1)
	l.IsRateLimited("a")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		l.StartSweeper(ctx, 5*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool { return l.Len() == 0 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}

func TestNewFixedWindow_Defaults(t *testing.T) {
	l := NewFixedWindow(0, 0)

	assert.Equal(t, DefaultWindow, l.Window())
	assert.Equal(t, DefaultMaxRequests, l.maxRequests)
}
