package ephemeris

import (
	"math"

	"github.com/phrazzld/numina/internal/domain"
)

// maxAscendantLatitude keeps tan(latitude) finite at the poles.
const maxAscendantLatitude = 89.9999

// localSiderealTime returns the local mean sidereal time in degrees for an
// observer at east longitude lon.
func localSiderealTime(jd, lon float64) float64 {
	return Normalize(greenwichSiderealTime(jd) + lon)
}

// ascendant returns the ecliptic longitude rising on the eastern horizon.
// Above the polar circles the result is the formal solution and may be
// astrologically ambiguous.
func ascendant(lst, eps float64, loc domain.LatLon) float64 {
	lat := math.Max(-maxAscendantLatitude, math.Min(maxAscendantLatitude, loc.Lat))
	y := cosd(lst)
	x := -(sind(lst)*cosd(eps) + tand(lat)*sind(eps))
	return Normalize(atan2d(y, x))
}
