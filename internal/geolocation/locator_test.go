package geolocation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nithinv16/DukaaOnWebsite/internal/geo"
)

type fakeDevice struct {
	pos   geo.Coordinates
	err   error
	calls int
	opts  DeviceOptions
}

func (f *fakeDevice) CurrentPosition(_ context.Context, opts DeviceOptions) (geo.Coordinates, error) {
	f.calls++
	f.opts = opts
	return f.pos, f.err
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func TestLocator_DeviceSuccessIsCached(t *testing.T) {
	clk := &clock{t: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)}
	store := NewMemoryStore()
	device := &fakeDevice{pos: bengaluru.Coordinates}
	l := NewLocator(store, device, WithLocatorClock(clk.now))

	assert.Equal(t, StatusIdle, l.State().Status)
	require.NoError(t, l.RequestLocation(context.Background()))

	state := l.State()
	assert.Equal(t, StatusSuccess, state.Status)
	assert.Equal(t, SourceDevice, state.Source)
	assert.Equal(t, bengaluru.Coordinates, *state.Coordinates)
	assert.Equal(t, DefaultDeviceOptions, device.opts)

	entry, err := store.Get(context.Background(), LocationCacheKey)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, clk.t.UnixMilli(), entry.Timestamp)

	// within TTL the device is not asked again
	clk.t = clk.t.Add(10 * time.Minute)
	require.NoError(t, l.RequestLocation(context.Background()))
	assert.Equal(t, SourceCache, l.State().Source)
	assert.Equal(t, 1, device.calls)
}

func TestLocator_ExpiredCacheIsRemoved(t *testing.T) {
	clk := &clock{t: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)}
	store := NewMemoryStore()
	require.NoError(t, store.Set(context.Background(), LocationCacheKey,
		NewCachedLocation(*bengaluru, clk.t.Add(-31*time.Minute))))

	device := &fakeDevice{err: &DeviceError{Code: PermissionDenied}}
	l := NewLocator(store, device, WithLocatorClock(clk.now))

	state := l.Init(context.Background())
	assert.Equal(t, StatusIdle, state.Status)

	entry, err := store.Get(context.Background(), LocationCacheKey)
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestLocator_InitLoadsFreshCache(t *testing.T) {
	clk := &clock{t: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)}
	store := NewMemoryStore()
	require.NoError(t, store.Set(context.Background(), LocationCacheKey,
		NewCachedLocation(*bengaluru, clk.t.Add(-5*time.Minute))))

	l := NewLocator(store, &fakeDevice{}, WithLocatorClock(clk.now))
	state := l.Init(context.Background())

	assert.Equal(t, StatusSuccess, state.Status)
	assert.Equal(t, SourceCache, state.Source)
}

func TestLocator_DeviceErrorMessages(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&DeviceError{Code: PermissionDenied}, "Location permission denied. Please enable location access in your browser settings to find nearby sellers."},
		{&DeviceError{Code: PositionUnavailable}, "Location information unavailable. Please check your device location settings."},
		{&DeviceError{Code: Timeout}, "Location request timed out. Please try again."},
		{context.DeadlineExceeded, "Location request timed out. Please try again."},
		{errors.New("driver crashed"), "Failed to get location"},
	}
	for _, tt := range tests {
		l := NewLocator(NewMemoryStore(), &fakeDevice{err: tt.err})
		err := l.RequestLocation(context.Background())

		require.Error(t, err)
		assert.Equal(t, tt.want, err.Error())
		state := l.State()
		assert.Equal(t, StatusError, state.Status)
		assert.Equal(t, tt.want, state.Error)
		assert.Nil(t, state.Coordinates)
	}
}

func TestLocator_NoDevice(t *testing.T) {
	l := NewLocator(NewMemoryStore(), nil)
	err := l.RequestLocation(context.Background())
	assert.EqualError(t, err, "Geolocation is not supported by your browser")
}

func TestLocator_FallbackProvider(t *testing.T) {
	store := NewMemoryStore()
	device := &fakeDevice{err: &DeviceError{Code: PermissionDenied}}
	fallback := &fakeProvider{name: "ip", loc: bengaluru}
	l := NewLocator(store, device, WithFallback(fallback))

	require.NoError(t, l.RequestLocation(context.Background()))
	state := l.State()
	assert.Equal(t, "ip", state.Source)
	assert.Equal(t, bengaluru.Coordinates, *state.Coordinates)

	// IP-derived locations are not cached
	entry, _ := store.Get(context.Background(), LocationCacheKey)
	assert.Nil(t, entry)
}

func TestLocator_FallbackFailureAsksForManualEntry(t *testing.T) {
	device := &fakeDevice{err: &DeviceError{Code: Timeout}}
	fallback := &fakeProvider{name: "ip", err: errors.New("offline")}
	l := NewLocator(NewMemoryStore(), device, WithFallback(fallback))

	err := l.RequestLocation(context.Background())
	assert.EqualError(t, err, "Unable to determine your location. Please enter it manually.")
}

func TestLocator_ResetLocation(t *testing.T) {
	store := NewMemoryStore()
	l := NewLocator(store, &fakeDevice{pos: bengaluru.Coordinates})
	require.NoError(t, l.RequestLocation(context.Background()))

	l.ResetLocation(context.Background())

	assert.Equal(t, State{Status: StatusIdle}, l.State())
	entry, _ := store.Get(context.Background(), LocationCacheKey)
	assert.Nil(t, entry)
}

func TestStaticDevice(t *testing.T) {
	_, err := StaticDevice{}.CurrentPosition(context.Background(), DefaultDeviceOptions)
	assert.Equal(t, msgPositionUnavailable, ClassifyDeviceError(err))

	_, err = StaticDevice{Position: &geo.Coordinates{Latitude: 91}}.CurrentPosition(context.Background(), DefaultDeviceOptions)
	assert.Error(t, err)

	pos, err := StaticDevice{Position: &bengaluru.Coordinates}.CurrentPosition(context.Background(), DefaultDeviceOptions)
	require.NoError(t, err)
	assert.Equal(t, bengaluru.Coordinates, pos)
}
