package ephemeris

import "math"

// Body identifies a tracked celestial body.
type Body string

// Tracked bodies
const (
	Sun     Body = "sun"
	Moon    Body = "moon"
	Mercury Body = "mercury"
	Venus   Body = "venus"
	Mars    Body = "mars"
	Jupiter Body = "jupiter"
	Saturn  Body = "saturn"
	Uranus  Body = "uranus"
	Neptune Body = "neptune"
)

// Planets lists the planets in order of distance from the Sun.
var Planets = []Body{Mercury, Venus, Mars, Jupiter, Saturn, Uranus, Neptune}

// element is a linear function of the day number: base + rate*d.
type element struct {
	base float64
	rate float64
}

func (e element) at(d float64) float64 {
	return e.base + e.rate*d
}

// orbit holds the mean elements of one body, referred to the ecliptic
// and equinox of date.
type orbit struct {
	node         element // longitude of the ascending node, N
	inclination  element // i
	perihelion   element // argument of perihelion, w
	semiMajor    element // a (AU; Earth radii for the Moon)
	eccentricity element // e
	meanAnomaly  element // M
}

// elements is the evaluated state of an orbit for one day number.
type elements struct {
	N, i, w, a, e, M float64
}

func (o orbit) evaluate(d float64) elements {
	return elements{
		N: Normalize(o.node.at(d)),
		i: o.inclination.at(d),
		w: Normalize(o.perihelion.at(d)),
		a: o.semiMajor.at(d),
		e: o.eccentricity.at(d),
		M: Normalize(o.meanAnomaly.at(d)),
	}
}

// Mean orbital elements, day zero 1999-12-31 0h UT.
var orbits = map[Body]orbit{
	Sun: {
		perihelion:   element{282.9404, 4.70935e-5},
		semiMajor:    element{1.0, 0},
		eccentricity: element{0.016709, -1.151e-9},
		meanAnomaly:  element{356.0470, 0.9856002585},
	},
	Moon: {
		node:         element{125.1228, -0.0529538083},
		inclination:  element{5.1454, 0},
		perihelion:   element{318.0634, 0.1643573223},
		semiMajor:    element{60.2666, 0},
		eccentricity: element{0.054900, 0},
		meanAnomaly:  element{115.3654, 13.0649929509},
	},
	Mercury: {
		node:         element{48.3313, 3.24587e-5},
		inclination:  element{7.0047, 5.00e-8},
		perihelion:   element{29.1241, 1.01444e-5},
		semiMajor:    element{0.387098, 0},
		eccentricity: element{0.205635, 5.59e-10},
		meanAnomaly:  element{168.6562, 4.0923344368},
	},
	Venus: {
		node:         element{76.6799, 2.46590e-5},
		inclination:  element{3.3946, 2.75e-8},
		perihelion:   element{54.8910, 1.38374e-5},
		semiMajor:    element{0.723330, 0},
		eccentricity: element{0.006773, -1.302e-9},
		meanAnomaly:  element{48.0052, 1.6021302244},
	},
	Mars: {
		node:         element{49.5574, 2.11081e-5},
		inclination:  element{1.8497, -1.78e-8},
		perihelion:   element{286.5016, 2.92961e-5},
		semiMajor:    element{1.523688, 0},
		eccentricity: element{0.093405, 2.516e-9},
		meanAnomaly:  element{18.6021, 0.5240207766},
	},
	Jupiter: {
		node:         element{100.4542, 2.76854e-5},
		inclination:  element{1.3030, -1.557e-7},
		perihelion:   element{273.8777, 1.64505e-5},
		semiMajor:    element{5.20256, 0},
		eccentricity: element{0.048498, 4.469e-9},
		meanAnomaly:  element{19.8950, 0.0830853001},
	},
	Saturn: {
		node:         element{113.6634, 2.38980e-5},
		inclination:  element{2.4886, -1.081e-7},
		perihelion:   element{339.3939, 2.97661e-5},
		semiMajor:    element{9.55475, 0},
		eccentricity: element{0.055546, -9.499e-9},
		meanAnomaly:  element{316.9670, 0.0334442282},
	},
	Uranus: {
		node:         element{74.0005, 1.3978e-5},
		inclination:  element{0.7733, 1.9e-8},
		perihelion:   element{96.6612, 3.0565e-5},
		semiMajor:    element{19.18171, -1.55e-8},
		eccentricity: element{0.047318, 7.45e-9},
		meanAnomaly:  element{142.5905, 0.011725806},
	},
	Neptune: {
		node:         element{131.7806, 3.0173e-5},
		inclination:  element{1.7700, -2.55e-7},
		perihelion:   element{272.8461, -6.027e-6},
		semiMajor:    element{30.05826, 3.313e-8},
		eccentricity: element{0.008606, 2.15e-9},
		meanAnomaly:  element{260.2471, 0.005995147},
	},
}

const (
	keplerTolerance  = 1e-6
	keplerIterations = 30
)

// eccentricAnomaly solves Kepler's equation M = E - e*sin(E) for E, in degrees.
func eccentricAnomaly(meanAnomaly, ecc float64) float64 {
	e0 := meanAnomaly + ecc*radToDeg*sind(meanAnomaly)*(1+ecc*cosd(meanAnomaly))
	for range keplerIterations {
		e1 := e0 - (e0-ecc*radToDeg*sind(e0)-meanAnomaly)/(1-ecc*cosd(e0))
		if math.Abs(e1-e0) < keplerTolerance {
			return e1
		}
		e0 = e1
	}
	return e0
}

// orbitalPosition returns the true anomaly (degrees) and radius vector.
func orbitalPosition(el elements) (trueAnomaly, radius float64) {
	ea := eccentricAnomaly(el.M, el.e)
	xv := el.a * (cosd(ea) - el.e)
	yv := el.a * math.Sqrt(1-el.e*el.e) * sind(ea)
	return atan2d(yv, xv), math.Hypot(xv, yv)
}

// eclipticPosition returns ecliptic longitude, latitude (degrees) and distance
// of a body relative to the centre of its orbit.
func eclipticPosition(el elements) (lon, lat, r float64) {
	v, r := orbitalPosition(el)
	u := v + el.w
	x := r * (cosd(el.N)*cosd(u) - sind(el.N)*sind(u)*cosd(el.i))
	y := r * (sind(el.N)*cosd(u) + cosd(el.N)*sind(u)*cosd(el.i))
	z := r * sind(u) * sind(el.i)
	return Normalize(atan2d(y, x)), atan2d(z, math.Hypot(x, y)), r
}
