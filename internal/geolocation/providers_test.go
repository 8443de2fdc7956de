package geolocation

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nithinv16/DukaaOnWebsite/internal/logger"
)

func TestIPAPIProvider_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/json/49.37.1.1", r.URL.Path)
		assert.Equal(t, "status,message,country,regionName,city,lat,lon", r.URL.Query().Get("fields"))
		assert.Equal(t, "DukaaOn-Website/1.0", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"success","country":"India","regionName":"Kerala","city":"Kochi","lat":9.9312,"lon":76.2673}`))
	}))
	defer srv.Close()

	p := NewIPAPIProvider(srv.URL, time.Second, 0)
	loc, err := p.Locate(context.Background(), "49.37.1.1")

	require.NoError(t, err)
	assert.Equal(t, 9.9312, loc.Latitude)
	assert.Equal(t, 76.2673, loc.Longitude)
	assert.Equal(t, "Kochi", loc.City)
	assert.Equal(t, "Kerala", loc.State)
	assert.Equal(t, "India", loc.Country)
}

func TestIPAPIProvider_FailStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"fail","message":"reserved range"}`))
	}))
	defer srv.Close()

	_, err := NewIPAPIProvider(srv.URL, time.Second, 0).Locate(context.Background(), "49.37.1.1")

	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, "reserved range", upstream.Reason)
	assert.True(t, errors.Is(err, ErrProviderFailed))
}

func TestIPAPIProvider_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewIPAPIProvider(srv.URL, time.Second, 0).Locate(context.Background(), "49.37.1.1")
	assert.ErrorContains(t, err, "status 429")
}

func TestIPAPIProvider_QuotaGuard(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{"status":"success","lat":1,"lon":1}`))
	}))
	defer srv.Close()

	p := NewIPAPIProvider(srv.URL, time.Second, 2)
	for i := 0; i < 2; i++ {
		_, err := p.Locate(context.Background(), "49.37.1.1")
		require.NoError(t, err)
	}
	_, err := p.Locate(context.Background(), "49.37.1.1")

	assert.ErrorContains(t, err, "request quota exhausted")
	assert.Equal(t, int32(2), hits.Load())
}

func TestIPAPICoProvider_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/49.37.1.1/json/", r.URL.Path)
		assert.Equal(t, "DukaaOn-Website/1.0", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(`{"latitude":28.6139,"longitude":77.209,"city":"New Delhi","region":"Delhi","country_name":"India"}`))
	}))
	defer srv.Close()

	loc, err := NewIPAPICoProvider(srv.URL, time.Second).Locate(context.Background(), "49.37.1.1")

	require.NoError(t, err)
	assert.Equal(t, 28.6139, loc.Latitude)
	assert.Equal(t, "New Delhi", loc.City)
	assert.Equal(t, "Delhi", loc.State)
}

func TestIPAPICoProvider_ErrorFlag(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":true,"reason":"RateLimited"}`))
	}))
	defer srv.Close()

	_, err := NewIPAPICoProvider(srv.URL, time.Second).Locate(context.Background(), "49.37.1.1")
	assert.ErrorContains(t, err, "RateLimited")
}

func TestChain_WithHTTPProviders(t *testing.T) {
	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer primary.Close()
	secondary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"latitude":19.076,"longitude":72.8777,"city":"Mumbai","region":"Maharashtra","country_name":"India"}`))
	}))
	defer secondary.Close()

	chain := NewChain(logger.Nop(), time.Second,
		NewIPAPIProvider(primary.URL, time.Second, 0),
		NewIPAPICoProvider(secondary.URL, time.Second),
	)
	res := chain.Resolve(context.Background(), "49.37.1.1")

	assert.Equal(t, "ipapi.co", res.Source)
	assert.Equal(t, "Mumbai", res.Location.City)
	assert.False(t, res.IsDefault)
}
