package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/nithinv16/DukaaOnWebsite/internal/geolocation"
)

// GeolocationCacheTTL matches the geolocation response s-maxage
const GeolocationCacheTTL = time.Hour

// LocationResolver is geolocation.Chain
type LocationResolver interface {
	Resolve(ctx context.Context, ip string) geolocation.Result
}

// GeolocationResponse is the /geolocation payload
type GeolocationResponse struct {
	Location geolocation.Location
	Source   string
	Message  string
}

// GeolocationService resolves a client IP, sharing answers across requests through cache.
// Only real lookups are cached; the default location is not.
type GeolocationService struct {
	chain LocationResolver
	cache geolocation.CacheStore
	ttl   time.Duration
	now   func() time.Time
	log   *zap.SugaredLogger
}

// NewGeolocationService creates the service; cache may be nil
func NewGeolocationService(chain LocationResolver, cache geolocation.CacheStore, ttl time.Duration, log *zap.SugaredLogger) *GeolocationService {
	if ttl <= 0 {
		ttl = GeolocationCacheTTL
	}
	return &GeolocationService{chain: chain, cache: cache, ttl: ttl, now: time.Now, log: log}
}

func cacheKeyForIP(ip string) string {
	return "ip:" + ip
}

// Locate never fails; the worst case is the default location with a message
func (s *GeolocationService) Locate(ctx context.Context, ip string) GeolocationResponse {
	if s.cache != nil && !geolocation.IsLocalOrUnknown(ip) {
		entry, err := s.cache.Get(ctx, cacheKeyForIP(ip))
		switch {
		case err != nil:
			s.log.Warnf("Geolocation cache read failed: %v", err)
		case entry != nil && entry.Fresh(s.now(), s.ttl):
			return GeolocationResponse{Location: entry.Location, Source: geolocation.SourceCache}
		}
	}

	res := s.chain.Resolve(ctx, ip)
	if !res.IsDefault && s.cache != nil {
		if err := s.cache.Set(ctx, cacheKeyForIP(ip), geolocation.NewCachedLocation(res.Location, s.now())); err != nil {
			s.log.Warnf("Geolocation cache write failed: %v", err)
		}
	}

	return GeolocationResponse{Location: res.Location, Source: res.Source, Message: res.Message}
}
