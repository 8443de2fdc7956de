package geo

import (
	"errors"
	"math"
)

// EarthRadiusKm mean Earth radius used by the Haversine formula
const EarthRadiusKm = 6371.0

// Coordinates WGS84 좌표 (value type)
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

var (
	ErrInvalidCoordinates = errors.New("invalid latitude or longitude values")
	ErrOutOfRange         = errors.New("latitude must be between -90 and 90, longitude between -180 and 180")
)

// CalculateDistance returns the great-circle distance in kilometers between a and b,
// rounded to one decimal place.
func CalculateDistance(a, b Coordinates) float64 {
	dLat := toRadians(b.Latitude - a.Latitude)
	dLon := toRadians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(a.Latitude))*math.Cos(toRadians(b.Latitude))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return math.Round(EarthRadiusKm*c*10) / 10
}

// ValidateCoordinates checks that lat/lon are finite and inside their ranges
func ValidateCoordinates(lat, lon float64) error {
	if math.IsNaN(lat) || math.IsNaN(lon) || math.IsInf(lat, 0) || math.IsInf(lon, 0) {
		return ErrInvalidCoordinates
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return ErrOutOfRange
	}
	return nil
}

func toRadians(deg float64) float64 {
	return deg * (math.Pi / 180)
}
