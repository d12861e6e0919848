package accuracy

// Kind identifies how a quantity is measured and compared.
type Kind string

// Quantity kinds
const (
	// KindLongitude is an ecliptic longitude in degrees, compared on the
	// shortest arc.
	KindLongitude Kind = "longitude"
	// KindIllumination is the illuminated lunar fraction in percent.
	KindIllumination Kind = "illumination"
	// KindMoonAge is days since new moon, compared modulo one lunation.
	KindMoonAge Kind = "moon_age"
)

// Unit returns the display unit for a kind.
func (k Kind) Unit() string {
	switch k {
	case KindLongitude:
		return "deg"
	case KindIllumination:
		return "pct"
	case KindMoonAge:
		return "days"
	default:
		return ""
	}
}

// Tolerance holds the verdict thresholds for one kind. A delta strictly below
// Excellent is Excellent, strictly below Good is Good, otherwise Check.
type Tolerance struct {
	Excellent float64 `yaml:"excellent" json:"excellent"`
	Good      float64 `yaml:"good" json:"good"`
}

// Tolerances maps each kind to its thresholds.
type Tolerances map[Kind]Tolerance

// DefaultTolerances returns thresholds sized for zodiac and phase bins rather
// than for astrometric work.
func DefaultTolerances() Tolerances {
	return Tolerances{
		KindLongitude:    {Excellent: 0.5, Good: 2.0},
		KindIllumination: {Excellent: 2.0, Good: 5.0},
		KindMoonAge:      {Excellent: 0.5, Good: 1.5},
	}
}

// classify maps a non-negative delta to a verdict.
func (t Tolerance) classify(delta float64) Verdict {
	switch {
	case delta < t.Excellent:
		return VerdictExcellent
	case delta < t.Good:
		return VerdictGood
	default:
		return VerdictCheck
	}
}
