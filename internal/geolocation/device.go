package geolocation

import (
	"context"
	"errors"
	"time"

	"github.com/nithinv16/DukaaOnWebsite/internal/geo"
)

// DeviceOptions mirror the platform position options
type DeviceOptions struct {
	EnableHighAccuracy bool
	Timeout            time.Duration
	MaximumAge         time.Duration // reuse a position up to this old
}

// DefaultDeviceOptions GPS 우선, 15초 타임아웃, 5분 이내 위치 재사용
var DefaultDeviceOptions = DeviceOptions{
	EnableHighAccuracy: true,
	Timeout:            15 * time.Second,
	MaximumAge:         5 * time.Minute,
}

// DeviceSource is the device-reported location capability
type DeviceSource interface {
	CurrentPosition(ctx context.Context, opts DeviceOptions) (geo.Coordinates, error)
}

// DeviceErrorCode follows the platform position error codes
type DeviceErrorCode int

const (
	PermissionDenied    DeviceErrorCode = 1
	PositionUnavailable DeviceErrorCode = 2
	Timeout             DeviceErrorCode = 3
)

const (
	msgPermissionDenied    = "Location permission denied. Please enable location access in your browser settings to find nearby sellers."
	msgPositionUnavailable = "Location information unavailable. Please check your device location settings."
	msgTimeout             = "Location request timed out. Please try again."
	msgUnsupported         = "Geolocation is not supported by your browser"
	msgGeneric             = "Failed to get location"
	msgManualEntry         = "Unable to determine your location. Please enter it manually."
)

// ErrUnsupported means the device has no location capability at all
var ErrUnsupported = errors.New(msgUnsupported)

// DeviceError is a classified device failure
type DeviceError struct {
	Code DeviceErrorCode
	Err  error
}

func (e *DeviceError) Error() string {
	switch e.Code {
	case PermissionDenied:
		return msgPermissionDenied
	case PositionUnavailable:
		return msgPositionUnavailable
	case Timeout:
		return msgTimeout
	default:
		return msgGeneric
	}
}

func (e *DeviceError) Unwrap() error { return e.Err }

// ClassifyDeviceError maps any device failure to the message shown to the user
func ClassifyDeviceError(err error) string {
	if err == nil {
		return ""
	}

	var de *DeviceError
	switch {
	case errors.As(err, &de):
		return de.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return msgTimeout
	case errors.Is(err, ErrUnsupported):
		return msgUnsupported
	default:
		return msgGeneric
	}
}

// StaticDevice reports a fixed position, e.g. one typed on the command line.
// A nil position behaves like a device without a fix.
type StaticDevice struct {
	Position *geo.Coordinates
}

func (s StaticDevice) CurrentPosition(ctx context.Context, _ DeviceOptions) (geo.Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return geo.Coordinates{}, &DeviceError{Code: Timeout, Err: err}
	}
	if s.Position == nil {
		return geo.Coordinates{}, &DeviceError{Code: PositionUnavailable}
	}
	if err := geo.ValidateCoordinates(s.Position.Latitude, s.Position.Longitude); err != nil {
		return geo.Coordinates{}, &DeviceError{Code: PositionUnavailable, Err: err}
	}
	return *s.Position, nil
}
