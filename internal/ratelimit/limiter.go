package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	DefaultWindow      = 60 * time.Second
	DefaultMaxRequests = 5
)

var (
	// 윈도우 내 한도 초과로 거절된 요청 수
	rejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dukaaon_rate_limit_rejected_total",
			Help: "Requests rejected by the fixed-window rate limiter",
		},
		[]string{"limiter"},
	)

	trackedIdentifiers = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dukaaon_rate_limit_tracked_identifiers",
			Help: "Identifiers currently held in the rate limiter map",
		},
		[]string{"limiter"},
	)
)

// Limiter decides whether a client identifier has exhausted its quota.
// Calling IsRateLimited counts as a request.
type Limiter interface {
	IsRateLimited(identifier string) bool
}

// Record is the per-identifier window state
type Record struct {
	Count     int
	ResetTime time.Time
}

// FixedWindow is an in-process fixed-window limiter. A burst straddling a
// window boundary can admit up to twice MaxRequests in a short span.
type FixedWindow struct {
	name        string
	window      time.Duration
	maxRequests int
	now         func() time.Time

	mu      sync.Mutex
	records map[string]*Record
}

// Option configures a FixedWindow
type Option func(*FixedWindow)

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(l *FixedWindow) { l.now = now }
}

// WithName sets the metrics label
func WithName(name string) Option {
	return func(l *FixedWindow) { l.name = name }
}

// NewFixedWindow creates a limiter admitting maxRequests per window per identifier.
// Non-positive values fall back to 5 requests / 60 seconds.
func NewFixedWindow(window time.Duration, maxRequests int, opts ...Option) *FixedWindow {
	if window <= 0 {
		window = DefaultWindow
	}
	if maxRequests <= 0 {
		maxRequests = DefaultMaxRequests
	}

	l := &FixedWindow{
		name:        "default",
		window:      window,
		maxRequests: maxRequests,
		now:         time.Now,
		records:     make(map[string]*Record),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// IsRateLimited reports whether identifier is over its quota and counts the request.
// The check and the increment happen under the same lock.
func (l *FixedWindow) IsRateLimited(identifier string) bool {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	record, ok := l.records[identifier]
	if !ok || now.After(record.ResetTime) {
		l.records[identifier] = &Record{
			Count:     1,
			ResetTime: now.Add(l.window),
		}
		trackedIdentifiers.WithLabelValues(l.name).Set(float64(len(l.records)))
		return false
	}

	if record.Count >= l.maxRequests {
		rejectedTotal.WithLabelValues(l.name).Inc()
		return true
	}

	record.Count++
	return false
}

// Window returns the configured window length
func (l *FixedWindow) Window() time.Duration {
	return l.window
}

// Sweep removes records whose window has expired and returns how many were dropped
func (l *FixedWindow) Sweep() int {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for id, record := range l.records {
		if now.After(record.ResetTime) {
			delete(l.records, id)
			removed++
		}
	}
	trackedIdentifiers.WithLabelValues(l.name).Set(float64(len(l.records)))
	return removed
}

// Len returns the number of tracked identifiers
func (l *FixedWindow) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

// StartSweeper runs Sweep every interval until ctx is done (백그라운드)
func (l *FixedWindow) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Sweep()
		}
	}
}
