package realm

import (
	"math"

	"github.com/phrazzld/numina/internal/domain"
	"github.com/phrazzld/numina/internal/domain/numerology"
	"github.com/phrazzld/numina/internal/ephemeris"
)

// maxCoordinatePrecision keeps scaled coordinates well inside int64.
const maxCoordinatePrecision = 8

// scaledEpsilon absorbs binary representation error so 40.7128 keeps its
// final digit after scaling.
const scaledEpsilon = 1e-6

// LocationFactor reduces the digit sum of |lat| and |lon| truncated to the
// given number of decimals.
func LocationFactor(loc domain.LatLon, precision int) int {
	if precision < 0 {
		precision = 0
	}
	if precision > maxCoordinatePrecision {
		precision = maxCoordinatePrecision
	}
	scale := math.Pow10(precision)
	return numerology.Reduce(coordinateDigits(loc.Lat, scale) + coordinateDigits(loc.Lon, scale))
}

func coordinateDigits(v, scale float64) int {
	scaled := int(math.Floor(math.Abs(v)*scale + scaledEpsilon))
	return numerology.DigitSum(scaled)
}

// Heart-rate zone upper bounds (exclusive); readings above the last bound
// fall into the top zone.
var heartRateZones = [...]int{60, 80, 100, 120, 140}

// ActivityFactor maps a heart rate to a zone in 1..6.
func ActivityFactor(bpm int) int {
	for i, upper := range heartRateZones {
		if bpm < upper {
			return i + 1
		}
	}
	return len(heartRateZones) + 1
}

// CelestialFactor reduces the 1-based Sun sign and lunar phase positions.
func CelestialFactor(snap ephemeris.Snapshot) int {
	sign := ephemeris.SignIndex(snap.SunLongitude) + 1
	phase := ephemeris.PhaseIndex(snap.MoonPhase) + 1
	return numerology.Reduce(sign + phase)
}
