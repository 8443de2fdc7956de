package geolocation

import (
	"context"
	"errors"

	"github.com/nithinv16/DukaaOnWebsite/internal/geo"
)

// Source names reported in Result.Source
const (
	SourceDefault = "default"
	SourceCache   = "cache"
	SourceDevice  = "device"
)

// Location is a resolved position with optional place names
type Location struct {
	geo.Coordinates
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Country string `json:"country,omitempty"`
}

// DefaultLocation approximate centre of India, used as the terminal fallback
var DefaultLocation = Location{
	Coordinates: geo.Coordinates{Latitude: 20.5937, Longitude: 78.9629},
	City:        "India",
	State:       "Central India",
	Country:     "India",
}

// Provider resolves a location for a client IP
type Provider interface {
	Name() string
	Locate(ctx context.Context, ip string) (*Location, error)
}

// Result is what the chain hands back to callers
type Result struct {
	Location  Location
	Source    string
	IsDefault bool
	Message   string
}

// ErrProviderFailed wraps upstream failures
var ErrProviderFailed = errors.New("geolocation provider failed")

// UpstreamError describes a failed third-party lookup
type UpstreamError struct {
	Provider string
	Reason   string
	Err      error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return e.Provider + ": " + e.Reason + ": " + e.Err.Error()
	}
	return e.Provider + ": " + e.Reason
}

func (e *UpstreamError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrProviderFailed
}
