package geolocation

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nithinv16/DukaaOnWebsite/internal/geo"
)

// Status of a Locator
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// State is a snapshot of the Locator
type State struct {
	Coordinates *geo.Coordinates
	Status      Status
	Error       string
	Source      string
}

// Locator resolves the user's own position: cache first, then the device,
// then an optional fallback provider (usually the server's IP lookup).
// Overlapping RequestLocation calls are last-write-wins.
type Locator struct {
	cache    CacheStore
	device   DeviceSource
	fallback Provider
	opts     DeviceOptions
	ttl      time.Duration
	now      func() time.Time
	log      *zap.SugaredLogger

	mu    sync.Mutex
	state State
}

// LocatorOption configures a Locator
type LocatorOption func(*Locator)

func WithFallback(p Provider) LocatorOption {
	return func(l *Locator) { l.fallback = p }
}

func WithDeviceOptions(opts DeviceOptions) LocatorOption {
	return func(l *Locator) { l.opts = opts }
}

func WithCacheTTL(ttl time.Duration) LocatorOption {
	return func(l *Locator) { l.ttl = ttl }
}

func WithLocatorClock(now func() time.Time) LocatorOption {
	return func(l *Locator) { l.now = now }
}

func WithLocatorLogger(log *zap.SugaredLogger) LocatorOption {
	return func(l *Locator) { l.log = log }
}

func NewLocator(cache CacheStore, device DeviceSource, opts ...LocatorOption) *Locator {
	l := &Locator{
		cache:  cache,
		device: device,
		opts:   DefaultDeviceOptions,
		ttl:    ClientCacheTTL,
		now:    time.Now,
		log:    zap.NewNop().Sugar(),
		state:  State{Status: StatusIdle},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// State returns a copy of the current state
func (l *Locator) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Init loads a still-valid cached location without touching the device
func (l *Locator) Init(ctx context.Context) State {
	if coords, ok := l.cached(ctx); ok {
		l.setState(State{Coordinates: &coords, Status: StatusSuccess, Source: SourceCache})
	}
	return l.State()
}

// RequestLocation moves the locator to loading and then to success or error
func (l *Locator) RequestLocation(ctx context.Context) error {
	l.setState(State{Status: StatusLoading})

	coords, source, err := l.resolve(ctx)
	if err != nil {
		l.setState(State{Status: StatusError, Error: err.Error()})
		return err
	}

	l.setState(State{Coordinates: &coords, Status: StatusSuccess, Source: source})
	return nil
}

// ResetLocation returns to idle and drops the cached location
func (l *Locator) ResetLocation(ctx context.Context) {
	l.setState(State{Status: StatusIdle})
	if err := l.cache.Clear(ctx, LocationCacheKey); err != nil {
		l.log.Warnf("Error clearing cached location: %v", err)
	}
}

func (l *Locator) resolve(ctx context.Context) (geo.Coordinates, string, error) {
	if coords, ok := l.cached(ctx); ok {
		return coords, SourceCache, nil
	}

	coords, deviceErr := l.fromDevice(ctx)
	if deviceErr == nil {
		if err := l.cache.Set(ctx, LocationCacheKey, NewCachedLocation(Location{Coordinates: coords}, l.now())); err != nil {
			l.log.Warnf("Error caching location: %v", err)
		}
		return coords, SourceDevice, nil
	}

	if l.fallback == nil {
		return geo.Coordinates{}, "", errors.New(ClassifyDeviceError(deviceErr))
	}

	l.log.Warnf("Device geolocation failed, trying %s: %v", l.fallback.Name(), deviceErr)
	loc, err := l.fallback.Locate(ctx, "")
	if err != nil || loc == nil {
		l.log.Errorf("Fallback geolocation also failed: %v", err)
		return geo.Coordinates{}, "", errors.New(msgManualEntry)
	}
	return loc.Coordinates, l.fallback.Name(), nil
}

func (l *Locator) fromDevice(ctx context.Context) (geo.Coordinates, error) {
	if l.device == nil {
		return geo.Coordinates{}, ErrUnsupported
	}

	if l.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.opts.Timeout)
		defer cancel()
	}
	return l.device.CurrentPosition(ctx, l.opts)
}

func (l *Locator) cached(ctx context.Context) (geo.Coordinates, bool) {
	entry, err := l.cache.Get(ctx, LocationCacheKey)
	if err != nil {
		l.log.Warnf("Error reading cached location: %v", err)
		return geo.Coordinates{}, false
	}
	if entry == nil {
		return geo.Coordinates{}, false
	}

	if !entry.Fresh(l.now(), l.ttl) {
		// 만료된 캐시 제거
		_ = l.cache.Clear(ctx, LocationCacheKey)
		return geo.Coordinates{}, false
	}
	return entry.Location.Coordinates, true
}

func (l *Locator) setState(s State) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state = s
}
