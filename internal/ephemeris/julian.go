package ephemeris

import "time"

const (
	// unixEpochJD is the Julian Day of 1970-01-01T00:00:00Z.
	unixEpochJD = 2440587.5

	// J2000 is the Julian Day of the J2000.0 epoch, 2000-01-01T12:00:00Z.
	J2000 = 2451545.0

	// elementsEpochJD is day zero of the orbital element tables,
	// 1999-12-31T00:00:00Z.
	elementsEpochJD = 2451543.5

	// SynodicMonth is the mean length of a lunation in days.
	SynodicMonth = 29.530588853

	// validityDays bounds the window around the element epoch where the
	// secular rates are trusted.
	validityDays = 200 * 365.25
)

// JulianDay converts an instant to a Julian Day number. Sub-second precision
// is kept so that consecutive instants map to distinct days.
func JulianDay(t time.Time) float64 {
	t = t.UTC()
	seconds := float64(t.Unix()) + float64(t.Nanosecond())/1e9
	return seconds/86400 + unixEpochJD
}

// TimeFromJulianDay is the inverse of JulianDay, rounded to the millisecond.
func TimeFromJulianDay(jd float64) time.Time {
	ms := int64((jd - unixEpochJD) * 86400 * 1000)
	return time.UnixMilli(ms).UTC()
}

// DaysSinceJ2000Epoch returns the days elapsed since J2000.0, negative
// before it.
func DaysSinceJ2000Epoch(t time.Time) float64 {
	return JulianDay(t) - J2000
}

// dayNumber returns days since the orbital element epoch.
func dayNumber(jd float64) float64 {
	return jd - elementsEpochJD
}

// obliquity returns the obliquity of the ecliptic of date in degrees.
func obliquity(d float64) float64 {
	return 23.4393 - 3.563e-7*d
}

// greenwichSiderealTime returns the mean sidereal time at Greenwich in degrees.
func greenwichSiderealTime(jd float64) float64 {
	t := (jd - J2000) / 36525
	gmst := 280.46061837 + 360.98564736629*(jd-J2000) + 0.000387933*t*t - t*t*t/38710000
	return Normalize(gmst)
}
