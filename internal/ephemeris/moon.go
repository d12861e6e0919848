package ephemeris

import "math"

// Phase names a discrete lunar phase.
type Phase string

// Lunar phases in waxing order, each spanning 45 degrees of elongation.
const (
	NewMoon        Phase = "New Moon"
	WaxingCrescent Phase = "Waxing Crescent"
	FirstQuarter   Phase = "First Quarter"
	WaxingGibbous  Phase = "Waxing Gibbous"
	FullMoon       Phase = "Full Moon"
	WaningGibbous  Phase = "Waning Gibbous"
	LastQuarter    Phase = "Last Quarter"
	WaningCrescent Phase = "Waning Crescent"
)

var phases = [...]Phase{
	NewMoon, WaxingCrescent, FirstQuarter, WaxingGibbous,
	FullMoon, WaningGibbous, LastQuarter, WaningCrescent,
}

// PhaseIndex returns the 0-based position of p in waxing order, or -1.
func PhaseIndex(p Phase) int {
	for i, candidate := range phases {
		if candidate == p {
			return i
		}
	}
	return -1
}

// PhaseFor maps a Sun-Moon elongation to its phase. Bins are centred on the
// principal phases: New Moon covers [337.5,360) and [0,22.5).
func PhaseFor(elongation float64) Phase {
	idx := int(math.Floor(Normalize(elongation+22.5)/45)) % len(phases)
	return phases[idx]
}

// moonLongitude returns the Moon's geocentric ecliptic longitude.
func moonLongitude(d float64) float64 {
	moon := orbits[Moon].evaluate(d)
	sun := orbits[Sun].evaluate(d)
	lon, _, _ := eclipticPosition(moon)

	ms := sun.M
	mm := moon.M
	ls := ms + sun.w
	lm := mm + moon.w + moon.N
	dd := lm - ls     // mean elongation
	ff := lm - moon.N // argument of latitude

	// Evection, variation and the annual equation lead; the remaining
	// terms are each below a tenth of a degree.
	lon += -1.274 * sind(mm-2*dd)
	lon += +0.658 * sind(2*dd)
	lon += -0.186 * sind(ms)
	lon += -0.059 * sind(2*mm-2*dd)
	lon += -0.057 * sind(mm-2*dd+ms)
	lon += +0.053 * sind(mm+2*dd)
	lon += +0.046 * sind(2*dd-ms)
	lon += +0.041 * sind(mm-ms)
	lon += -0.035 * sind(dd)
	lon += -0.031 * sind(mm+ms)
	lon += -0.015 * sind(2*ff-2*dd)
	lon += +0.011 * sind(mm-4*dd)

	return Normalize(lon)
}

// illumination returns the illuminated fraction of the lunar disc for a
// Sun-Moon elongation in degrees.
func illumination(elongation float64) float64 {
	return (1 - cosd(elongation)) / 2
}

// moonAge returns days since the last new moon for an elongation.
func moonAge(elongation float64) float64 {
	return Normalize(elongation) / 360 * SynodicMonth
}
