package accuracy

import (
	"math"
	"sort"
	"time"

	"github.com/phrazzld/numina/internal/ephemeris"
)

// Verdict classifies one compared quantity.
type Verdict string

// Verdicts
const (
	VerdictExcellent Verdict = "Excellent"
	VerdictGood      Verdict = "Good"
	VerdictCheck     Verdict = "Check"
	VerdictSkipped   Verdict = "Skipped"
)

// Level summarises overall confidence.
type Level string

// Confidence levels
const (
	LevelHigh   Level = "High"
	LevelMedium Level = "Medium"
	LevelLow    Level = "Low"
)

// Level thresholds on the confidence percentage.
const (
	highConfidence   = 85.0
	mediumConfidence = 60.0
)

// Entry is the comparison of one quantity.
type Entry struct {
	Quantity  string  `json:"quantity"`
	Kind      Kind    `json:"kind,omitempty"`
	Reference float64 `json:"reference"`
	Computed  float64 `json:"computed"`
	Delta     float64 `json:"delta"`
	Verdict   Verdict `json:"verdict"`
	Note      string  `json:"note,omitempty"`
}

// Summary aggregates verdicts. Skipped entries do not count toward confidence.
type Summary struct {
	Excellent         int     `json:"excellent"`
	Good              int     `json:"good"`
	Check             int     `json:"check"`
	Skipped           int     `json:"skipped"`
	ConfidencePercent float64 `json:"confidence_percent"`
	Level             Level   `json:"level"`
}

// Report is the outcome of validating one snapshot.
type Report struct {
	At        time.Time           `json:"at"`
	Source    string              `json:"source"`
	Entries   []Entry             `json:"entries"`
	Anomalies []ephemeris.Anomaly `json:"anomalies,omitempty"`
	Summary   Summary             `json:"summary"`
}

// Validator compares snapshots to reference tables. It holds no mutable state
// and may be shared across goroutines.
type Validator struct {
	tolerances Tolerances
}

// NewValidator creates a validator. Kinds missing from tolerances fall back
// to the defaults.
func NewValidator(tolerances Tolerances) *Validator {
	merged := DefaultTolerances()
	for kind, tol := range tolerances {
		merged[kind] = tol
	}
	return &Validator{tolerances: merged}
}

// Validate compares a snapshot with the default tolerances.
func Validate(snap ephemeris.Snapshot, table ReferenceTable) Report {
	return NewValidator(nil).Validate(snap, table)
}

// ValidateReference computes the snapshot at the table's instant and
// validates it.
func (v *Validator) ValidateReference(table ReferenceTable) Report {
	return v.Validate(ephemeris.Compute(table.Instant, nil), table)
}

// Validate compares every computable quantity against the table. Quantities
// without a reference value, and reference keys the engine does not compute,
// are reported as skipped.
func (v *Validator) Validate(snap ephemeris.Snapshot, table ReferenceTable) Report {
	report := Report{
		At:        snap.At,
		Source:    table.Source,
		Anomalies: append([]ephemeris.Anomaly(nil), snap.Anomalies...),
	}

	seen := make(map[string]bool)
	for _, q := range quantities(snap) {
		seen[q.key] = true
		ref, ok := table.Values[q.key]
		if !ok {
			report.Entries = append(report.Entries, Entry{
				Quantity: q.key,
				Kind:     q.kind,
				Computed: q.value,
				Verdict:  VerdictSkipped,
				Note:     "no reference value",
			})
			continue
		}

		delta := q.delta(q.value, ref)
		report.Entries = append(report.Entries, Entry{
			Quantity:  q.key,
			Kind:      q.kind,
			Reference: ref,
			Computed:  q.value,
			Delta:     delta,
			Verdict:   v.tolerances[q.kind].classify(delta),
		})
	}

	var unknown []string
	for key := range table.Values {
		if !seen[key] {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	for _, key := range unknown {
		report.Entries = append(report.Entries, Entry{
			Quantity:  key,
			Reference: table.Values[key],
			Verdict:   VerdictSkipped,
			Note:      "not computed by the engine",
		})
	}

	report.Summary = summarize(report.Entries, len(report.Anomalies))
	return report
}

type quantity struct {
	key   string
	kind  Kind
	value float64
	delta func(computed, reference float64) float64
}

// quantities lists comparable values in report order.
func quantities(snap ephemeris.Snapshot) []quantity {
	qs := []quantity{
		{string(ephemeris.Sun), KindLongitude, snap.SunLongitude, ephemeris.AngularDistance},
		{string(ephemeris.Moon), KindLongitude, snap.MoonLongitude, ephemeris.AngularDistance},
	}
	for _, body := range ephemeris.Planets {
		lon, ok := snap.Planets[body]
		if !ok {
			continue
		}
		qs = append(qs, quantity{string(body), KindLongitude, lon, ephemeris.AngularDistance})
	}
	return append(qs,
		quantity{KeyMoonIllumination, KindIllumination, snap.MoonIllumination * 100, absDelta},
		quantity{KeyMoonAge, KindMoonAge, snap.MoonAgeDays, lunationDelta},
	)
}

func absDelta(a, b float64) float64 {
	return math.Abs(a - b)
}

// lunationDelta compares ages on the lunation circle so 29.4 and 0.1 days
// are close.
func lunationDelta(a, b float64) float64 {
	d := math.Mod(math.Abs(a-b), ephemeris.SynodicMonth)
	return math.Min(d, ephemeris.SynodicMonth-d)
}

// summarize computes confidence as (2*excellent + good) / (2*compared).
// Any anomaly lowers the level by one step.
func summarize(entries []Entry, anomalies int) Summary {
	var s Summary
	for _, e := range entries {
		switch e.Verdict {
		case VerdictExcellent:
			s.Excellent++
		case VerdictGood:
			s.Good++
		case VerdictCheck:
			s.Check++
		case VerdictSkipped:
			s.Skipped++
		}
	}

	compared := s.Excellent + s.Good + s.Check
	if compared == 0 {
		s.Level = LevelLow
		return s
	}
	s.ConfidencePercent = float64(2*s.Excellent+s.Good) / float64(2*compared) * 100

	switch {
	case s.ConfidencePercent >= highConfidence:
		s.Level = LevelHigh
	case s.ConfidencePercent >= mediumConfidence:
		s.Level = LevelMedium
	default:
		s.Level = LevelLow
	}
	if anomalies > 0 {
		s.Level = s.Level.lower()
	}
	return s
}

func (l Level) lower() Level {
	switch l {
	case LevelHigh:
		return LevelMedium
	default:
		return LevelLow
	}
}
