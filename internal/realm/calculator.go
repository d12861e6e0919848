package realm

import (
	"time"

	"github.com/phrazzld/numina/internal/domain"
	"github.com/phrazzld/numina/internal/domain/numerology"
	"github.com/phrazzld/numina/internal/ephemeris"
)

// FactorSource tells where a factor in a Result came from.
type FactorSource string

// Factor sources
const (
	SourceMeasured   FactorSource = "measured"
	SourceRemembered FactorSource = "remembered"
	SourceNeutral    FactorSource = "neutral"
)

// Result is a realm number together with the terms that produced it.
type Result struct {
	Number int       `json:"number"`
	Sum    int       `json:"sum"`
	At     time.Time `json:"at"`

	Hour   int `json:"hour"`
	Minute int `json:"minute"`
	Day    int `json:"day"`
	Month  int `json:"month"`

	LocationFactor  int          `json:"location_factor"`
	LocationSource  FactorSource `json:"location_source"`
	ActivityFactor  int          `json:"activity_factor"`
	ActivitySource  FactorSource `json:"activity_source"`
	CelestialFactor int          `json:"celestial_factor,omitempty"`
}

// Calculate returns the realm number for an instant, an optional location and
// an activity factor. A nil or invalid location contributes the neutral
// location factor.
func Calculate(at time.Time, loc *domain.LatLon, activityFactor int, params *Params) Result {
	if params == nil {
		params = NewDefaultParams()
	}

	locationFactor := params.NeutralLocationFactor
	locationSource := SourceNeutral
	if loc != nil && loc.Validate() == nil {
		locationFactor = LocationFactor(*loc, params.CoordinatePrecision)
		locationSource = SourceMeasured
	}

	result := compose(at, locationFactor, activityFactor, params)
	result.LocationSource = locationSource
	result.ActivitySource = SourceMeasured
	return result
}

// compose sums the reduced time components with already-derived factors.
func compose(at time.Time, locationFactor, activityFactor int, params *Params) Result {
	local := at.In(params.zone())

	r := Result{
		At:             at.UTC(),
		Hour:           numerology.Reduce(local.Hour()),
		Minute:         numerology.Reduce(local.Minute()),
		Day:            numerology.Reduce(local.Day()),
		Month:          numerology.Reduce(int(local.Month())),
		LocationFactor: locationFactor,
		ActivityFactor: activityFactor,
	}
	r.Sum = r.Hour + r.Minute + r.Day + r.Month + r.LocationFactor + r.ActivityFactor

	if params.IncludeCelestial {
		r.CelestialFactor = CelestialFactor(ephemeris.Compute(at, nil))
		r.Sum += r.CelestialFactor
	}

	r.Number = numerology.Reduce(r.Sum)
	return r
}
