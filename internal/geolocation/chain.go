package geolocation

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/nithinv16/DukaaOnWebsite/internal/geo"
	"github.com/nithinv16/DukaaOnWebsite/internal/telemetry"
)

const (
	MessageLocalIP     = "Using default location (local IP detected)"
	MessageUnavailable = "Using default location (geolocation services unavailable)"
	MessageError       = "Using default location (error occurred)"
)

var resolutionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "dukaaon_geolocation_resolutions_total",
		Help: "Geolocation resolutions by the source that answered",
	},
	[]string{"source"},
)

var providerFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "dukaaon_geolocation_provider_failures_total",
		Help: "Failed IP geolocation provider calls",
	},
	[]string{"provider"},
)

// Chain tries providers in order and falls back to a fixed location.
// Resolve never fails.
type Chain struct {
	providers []Provider
	fallback  Location
	timeout   time.Duration
	log       *zap.SugaredLogger
}

// NewChain builds a chain; timeout bounds each provider call (0 = caller's ctx only)
func NewChain(log *zap.SugaredLogger, timeout time.Duration, providers ...Provider) *Chain {
	return &Chain{
		providers: providers,
		fallback:  DefaultLocation,
		timeout:   timeout,
		log:       log,
	}
}

// WithDefault replaces the terminal fallback location
func (c *Chain) WithDefault(loc Location) *Chain {
	c.fallback = loc
	return c
}

// Default returns the terminal fallback location
func (c *Chain) Default() Location {
	return c.fallback
}

// Resolve returns the best available location for ip.
// Providers are called one after another; the next only after the previous failed.
func (c *Chain) Resolve(ctx context.Context, ip string) (res Result) {
	ctx, span := telemetry.StartSpan(ctx, "geolocation.Resolve")
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			c.log.Errorf("geolocation chain panic: %v", r)
			res = c.defaultResult(MessageError)
		}
		resolutionsTotal.WithLabelValues(res.Source).Inc()
		span.SetAttributes(
			attribute.String("geolocation.source", res.Source),
			attribute.Bool("geolocation.default", res.IsDefault),
		)
	}()

	if IsLocalOrUnknown(ip) {
		c.log.Warnf("Local or unknown IP detected (%q), returning default location", ip)
		return c.defaultResult(MessageLocalIP)
	}

	for _, p := range c.providers {
		loc, err := c.try(ctx, p, ip)
		if err == nil {
			return Result{Location: *loc, Source: p.Name()}
		}
		providerFailuresTotal.WithLabelValues(p.Name()).Inc()
		c.log.Warnf("Geolocation provider %s failed: %v", p.Name(), err)

		if ctx.Err() != nil {
			break
		}
	}

	c.log.Errorf("All geolocation providers failed for %s, using default location", ip)
	return c.defaultResult(MessageUnavailable)
}

func (c *Chain) try(ctx context.Context, p Provider, ip string) (*Location, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	loc, err := p.Locate(ctx, ip)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, &UpstreamError{Provider: p.Name(), Reason: "empty result"}
	}
	if err := geo.ValidateCoordinates(loc.Latitude, loc.Longitude); err != nil {
		return nil, &UpstreamError{Provider: p.Name(), Reason: "invalid coordinates", Err: err}
	}
	return loc, nil
}

func (c *Chain) defaultResult(message string) Result {
	return Result{
		Location:  c.fallback,
		Source:    SourceDefault,
		IsDefault: true,
		Message:   message,
	}
}
