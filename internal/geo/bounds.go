package geo

import "math"

// boundsPaddingKm covers the one-decimal rounding of CalculateDistance
const boundsPaddingKm = 1.0

// BoundingBox is a lat/lng rectangle. MinLng > MaxLng means it wraps the
// antimeridian; FullLongitude means every longitude is inside.
type BoundingBox struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
	FullLongitude  bool
}

// BoundsAround returns a box containing every point whose CalculateDistance
// from center is at most radiusKm. It is only a pre-filter: points inside the
// box can still be farther away.
func BoundsAround(center Coordinates, radiusKm float64) BoundingBox {
	delta := (radiusKm + boundsPaddingKm) / EarthRadiusKm // angular radius, radians
	dLat := toDegrees(delta)

	minLat := center.Latitude - dLat
	maxLat := center.Latitude + dLat
	b := BoundingBox{
		MinLat: math.Max(minLat, -90),
		MaxLat: math.Min(maxLat, 90),
	}

	// circle touches a pole
	if minLat <= -90 || maxLat >= 90 || delta >= math.Pi/2 {
		b.FullLongitude = true
		return b
	}

	s := math.Sin(delta) / math.Cos(toRadians(center.Latitude))
	if s >= 1 {
		b.FullLongitude = true
		return b
	}

	dLng := toDegrees(math.Asin(s))
	b.MinLng = center.Longitude - dLng
	b.MaxLng = center.Longitude + dLng
	if b.MinLng < -180 {
		b.MinLng += 360
	}
	if b.MaxLng > 180 {
		b.MaxLng -= 360
	}
	return b
}

// Contains reports whether c lies inside the box
func (b BoundingBox) Contains(c Coordinates) bool {
	if c.Latitude < b.MinLat || c.Latitude > b.MaxLat {
		return false
	}
	if b.FullLongitude {
		return true
	}
	if b.MinLng <= b.MaxLng {
		return c.Longitude >= b.MinLng && c.Longitude <= b.MaxLng
	}
	return c.Longitude >= b.MinLng || c.Longitude <= b.MaxLng
}

func toDegrees(rad float64) float64 { return rad * 180 / math.Pi }
