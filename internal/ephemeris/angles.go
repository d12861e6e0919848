package ephemeris

import "math"

const (
	degToRad = math.Pi / 180
	radToDeg = 180 / math.Pi
)

func sind(deg float64) float64 { return math.Sin(deg * degToRad) }
func cosd(deg float64) float64 { return math.Cos(deg * degToRad) }
func tand(deg float64) float64 { return math.Tan(deg * degToRad) }

func atan2d(y, x float64) float64 { return math.Atan2(y, x) * radToDeg }

// Normalize maps any finite angle into [0,360).
func Normalize(deg float64) float64 {
	r := math.Mod(deg, 360)
	if r < 0 {
		r += 360
	}
	// math.Mod of tiny negative values can round up to exactly 360.
	if r >= 360 {
		r = 0
	}
	return r
}

// AngularDistance returns the shortest arc between two longitudes, in [0,180].
func AngularDistance(a, b float64) float64 {
	d := math.Abs(Normalize(a) - Normalize(b))
	if d > 180 {
		d = 360 - d
	}
	return d
}
