package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/nithinv16/DukaaOnWebsite/internal/models"
)

// EnquiryEndpoint is the rate_limit_configs key of POST /v1/enquiry
const EnquiryEndpoint = "/v1/enquiry"

type RateLimitConfigSource interface {
	ForEndpoint(ctx context.Context, endpoint string) (*models.RateLimitConfig, error)
}

// RateLimitSettings window and quota for one endpoint
type RateLimitSettings struct {
	Window      time.Duration
	MaxRequests int
	Source      string // "config" or "database"
}

// ResolveRateLimit applies an enabled database override on top of the env defaults.
// Lookup failures and non-positive override values keep the defaults.
func ResolveRateLimit(ctx context.Context, src RateLimitConfigSource, endpoint string, defaults RateLimitSettings, log *zap.SugaredLogger) RateLimitSettings {
	out := defaults
	out.Source = "config"
	if src == nil {
		return out
	}

	row, err := src.ForEndpoint(ctx, endpoint)
	if err != nil {
		log.Warnf("Failed to load rate limit override for %s, using defaults: %v", endpoint, err)
		return out
	}
	if row == nil {
		return out
	}

	if row.MaxRequests > 0 {
		out.MaxRequests = row.MaxRequests
	}
	if row.WindowSeconds > 0 {
		out.Window = time.Duration(row.WindowSeconds) * time.Second
	}
	out.Source = "database"
	return out
}
