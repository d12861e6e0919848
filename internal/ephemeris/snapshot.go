package ephemeris

import (
	"fmt"
	"math"
	"time"

	"github.com/phrazzld/numina/internal/domain"
)

// Anomaly records a value that left its valid range and was clamped, or a
// condition that degrades accuracy. Anomalies are surfaced by the accuracy
// validator; the snapshot itself always holds in-range values.
type Anomaly struct {
	Quantity string  `json:"quantity"`
	Raw      float64 `json:"raw"`
	Clamped  float64 `json:"clamped"`
	Reason   string  `json:"reason"`
}

// String renders the anomaly for reports and logs.
func (a Anomaly) String() string {
	return fmt.Sprintf("%s: %s (raw=%g, used=%g)", a.Quantity, a.Reason, a.Raw, a.Clamped)
}

// Snapshot is the immutable result of one ephemeris computation.
type Snapshot struct {
	At        time.Time      `json:"at"`
	Observer  *domain.LatLon `json:"observer,omitempty"`
	JulianDay float64        `json:"julian_day"`

	SunLongitude float64 `json:"sun_longitude"`
	SunSign      Sign    `json:"sun_sign"`

	MoonLongitude    float64 `json:"moon_longitude"`
	MoonSign         Sign    `json:"moon_sign"`
	MoonPhase        Phase   `json:"moon_phase"`
	MoonPhaseAngle   float64 `json:"moon_phase_angle"`
	MoonIllumination float64 `json:"moon_illumination"`
	MoonAgeDays      float64 `json:"moon_age_days"`

	Planets map[Body]float64 `json:"planets"`

	// Observer-dependent values; nil without an observer.
	LocalSiderealTime *float64 `json:"local_sidereal_time,omitempty"`
	Ascendant         *float64 `json:"ascendant,omitempty"`
	AscendantSign     Sign     `json:"ascendant_sign,omitempty"`

	Anomalies []Anomaly `json:"anomalies,omitempty"`
}

// Longitude returns the ecliptic longitude of any tracked body.
func (s Snapshot) Longitude(body Body) (float64, bool) {
	switch body {
	case Sun:
		return s.SunLongitude, true
	case Moon:
		return s.MoonLongitude, true
	}
	lon, ok := s.Planets[body]
	return lon, ok
}

// Compute returns the celestial snapshot for an instant and optional observer.
// An observer with invalid coordinates is ignored and recorded as an anomaly.
func Compute(at time.Time, observer *domain.LatLon) Snapshot {
	at = at.UTC()
	jd := JulianDay(at)
	d := dayNumber(jd)

	var c clamp
	if math.Abs(d) > validityDays {
		c.flag("epoch", d, d, "instant is outside the element validity window; accuracy degraded")
	}

	sunLon, _ := sunPosition(d)
	sunLon = c.angle("sun_longitude", sunLon)
	moonLon := c.angle("moon_longitude", moonLongitude(d))

	elongation := Normalize(moonLon - sunLon)
	snap := Snapshot{
		At:               at,
		JulianDay:        jd,
		SunLongitude:     sunLon,
		SunSign:          SignOf(sunLon),
		MoonLongitude:    moonLon,
		MoonSign:         SignOf(moonLon),
		MoonPhase:        PhaseFor(elongation),
		MoonPhaseAngle:   elongation,
		MoonIllumination: c.unit("moon_illumination", illumination(elongation)),
		MoonAgeDays:      c.age("moon_age_days", moonAge(elongation)),
		Planets:          make(map[Body]float64, len(Planets)),
	}

	for _, body := range Planets {
		snap.Planets[body] = c.angle(string(body)+"_longitude", planetLongitude(body, d))
	}

	if observer != nil {
		if err := observer.Validate(); err != nil {
			c.flag("observer", observer.Lat, 0, "observer coordinates rejected: "+err.Error())
		} else {
			loc := *observer
			lst := c.angle("local_sidereal_time", localSiderealTime(jd, loc.Lon))
			asc := c.angle("ascendant", ascendant(lst, obliquity(d), loc))
			snap.Observer = &loc
			snap.LocalSiderealTime = &lst
			snap.Ascendant = &asc
			snap.AscendantSign = SignOf(asc)
		}
	}

	snap.Anomalies = c.anomalies
	return snap
}

// clamp collects anomalies while forcing values into their valid ranges.
type clamp struct {
	anomalies []Anomaly
}

func (c *clamp) flag(quantity string, raw, used float64, reason string) {
	c.anomalies = append(c.anomalies, Anomaly{
		Quantity: quantity,
		Raw:      raw,
		Clamped:  used,
		Reason:   reason,
	})
}

// angle replaces non-finite values with 0 and normalizes into [0,360).
func (c *clamp) angle(quantity string, v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		c.flag(quantity, v, 0, "non-finite angle")
		return 0
	}
	return Normalize(v)
}

// unit clamps v into [0,1].
func (c *clamp) unit(quantity string, v float64) float64 {
	switch {
	case math.IsNaN(v):
		c.flag(quantity, v, 0, "non-finite fraction")
		return 0
	case v < 0:
		c.flag(quantity, v, 0, "fraction below 0")
		return 0
	case v > 1:
		c.flag(quantity, v, 1, "fraction above 1")
		return 1
	}
	return v
}

// age clamps a lunar age into [0, SynodicMonth).
func (c *clamp) age(quantity string, v float64) float64 {
	switch {
	case math.IsNaN(v) || math.IsInf(v, 0):
		c.flag(quantity, v, 0, "non-finite age")
		return 0
	case v < 0:
		c.flag(quantity, v, 0, "negative age")
		return 0
	case v >= SynodicMonth:
		c.flag(quantity, v, 0, "age beyond one lunation")
		return 0
	}
	return v
}
