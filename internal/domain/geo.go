package domain

import "math"

// earthRadiusMeters is the mean Earth radius used for distance estimates.
const earthRadiusMeters = 6371008.8

// LatLon is a geographic coordinate in decimal degrees.
type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Validate checks that the coordinate is finite and within range.
func (p LatLon) Validate() error {
	if math.IsNaN(p.Lat) || math.IsInf(p.Lat, 0) || p.Lat < -90 || p.Lat > 90 {
		return NewValidationError("lat", "must be within -90..90", ErrInvalidLocation)
	}
	if math.IsNaN(p.Lon) || math.IsInf(p.Lon, 0) || p.Lon < -180 || p.Lon > 180 {
		return NewValidationError("lon", "must be within -180..180", ErrInvalidLocation)
	}
	return nil
}

// DistanceMeters returns the great-circle distance between two points
// using the haversine formula.
func DistanceMeters(a, b LatLon) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(h)))
}
