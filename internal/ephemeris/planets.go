package ephemeris

// sunPosition returns the Sun's geocentric ecliptic longitude and distance (AU).
func sunPosition(d float64) (lon, r float64) {
	lon, _, r = eclipticPosition(orbits[Sun].evaluate(d))
	return lon, r
}

// perturbation is one periodic correction term: amp * sin(arg) or amp * cos(arg).
type perturbation struct {
	amp    float64
	cosine bool
	arg    func(mj, ms, mu float64) float64
}

func (p perturbation) apply(mj, ms, mu float64) float64 {
	if p.cosine {
		return p.amp * cosd(p.arg(mj, ms, mu))
	}
	return p.amp * sind(p.arg(mj, ms, mu))
}

// Longitude perturbations of the outer planets, mj/ms/mu being the mean
// anomalies of Jupiter, Saturn and Uranus.
var longitudePerturbations = map[Body][]perturbation{
	Jupiter: {
		{-0.332, false, func(mj, ms, _ float64) float64 { return 2*mj - 5*ms - 67.6 }},
		{-0.056, false, func(mj, ms, _ float64) float64 { return 2*mj - 2*ms + 21 }},
		{+0.042, false, func(mj, ms, _ float64) float64 { return 3*mj - 5*ms + 21 }},
		{-0.036, false, func(mj, ms, _ float64) float64 { return mj - 2*ms }},
		{+0.022, true, func(mj, ms, _ float64) float64 { return mj - ms }},
		{+0.023, false, func(mj, ms, _ float64) float64 { return 2*mj - 3*ms + 52 }},
		{-0.016, false, func(mj, ms, _ float64) float64 { return mj - 5*ms - 69 }},
	},
	Saturn: {
		{+0.812, false, func(mj, ms, _ float64) float64 { return 2*mj - 5*ms - 67.6 }},
		{-0.229, true, func(mj, ms, _ float64) float64 { return 2*mj - 4*ms - 2 }},
		{+0.119, false, func(mj, ms, _ float64) float64 { return mj - 2*ms - 3 }},
		{+0.046, false, func(mj, ms, _ float64) float64 { return 2*mj - 6*ms - 69 }},
		{+0.014, false, func(mj, ms, _ float64) float64 { return mj - 3*ms + 32 }},
	},
	Uranus: {
		{+0.040, false, func(_, ms, mu float64) float64 { return ms - 2*mu + 6 }},
		{+0.035, false, func(_, ms, mu float64) float64 { return ms - 3*mu + 33 }},
		{-0.015, false, func(mj, _, mu float64) float64 { return mj - mu + 20 }},
	},
}

var latitudePerturbations = map[Body][]perturbation{
	Saturn: {
		{-0.020, true, func(mj, ms, _ float64) float64 { return 2*mj - 4*ms - 2 }},
		{+0.018, false, func(mj, ms, _ float64) float64 { return 2*mj - 6*ms - 49 }},
	},
}

// planetLongitude returns the geocentric ecliptic longitude of a planet.
func planetLongitude(body Body, d float64) float64 {
	el := orbits[body].evaluate(d)
	lon, lat, r := eclipticPosition(el)

	mj := orbits[Jupiter].evaluate(d).M
	ms := orbits[Saturn].evaluate(d).M
	mu := orbits[Uranus].evaluate(d).M
	for _, p := range longitudePerturbations[body] {
		lon += p.apply(mj, ms, mu)
	}
	for _, p := range latitudePerturbations[body] {
		lat += p.apply(mj, ms, mu)
	}

	// Heliocentric rectangular coordinates after perturbation.
	xh := r * cosd(lon) * cosd(lat)
	yh := r * sind(lon) * cosd(lat)

	sunLon, sunR := sunPosition(d)
	xg := xh + sunR*cosd(sunLon)
	yg := yh + sunR*sind(sunLon)

	return Normalize(atan2d(yg, xg))
}
