package domain

import "fmt"

// ActivitySource tags where an activity reading came from.
type ActivitySource string

// Possible activity sources
const (
	ActivitySourceReal        ActivitySource = "real"
	ActivitySourceSimulated   ActivitySource = "simulated"
	ActivitySourceUnavailable ActivitySource = "unavailable"
)

// MaxPlausibleBPM bounds heart-rate readings accepted from collaborators.
const MaxPlausibleBPM = 250

// ActivityInput is a heart-rate derived reading. Real sensor values and
// simulated substitutes are treated identically by the calculator, but the
// provenance stays visible to callers and tests.
type ActivityInput struct {
	source ActivitySource
	bpm    int
}

// RealActivity wraps a sensor-provided BPM.
func RealActivity(bpm int) ActivityInput {
	return ActivityInput{source: ActivitySourceReal, bpm: bpm}
}

// SimulatedActivity wraps a simulated BPM.
func SimulatedActivity(bpm int) ActivityInput {
	return ActivityInput{source: ActivitySourceSimulated, bpm: bpm}
}

// NoActivity represents a cycle without any activity data.
func NoActivity() ActivityInput {
	return ActivityInput{source: ActivitySourceUnavailable}
}

// Source returns the provenance tag. The zero value reports unavailable.
func (a ActivityInput) Source() ActivitySource {
	if a.source == "" {
		return ActivitySourceUnavailable
	}
	return a.source
}

// Available reports whether the reading carries a usable BPM.
func (a ActivityInput) Available() bool {
	return a.Source() != ActivitySourceUnavailable
}

// BPM returns the beats-per-minute value; zero when unavailable.
func (a ActivityInput) BPM() int {
	if !a.Available() {
		return 0
	}
	return a.bpm
}

// Validate rejects readings outside the plausible heart-rate range.
func (a ActivityInput) Validate() error {
	if !a.Available() {
		return nil
	}
	if a.bpm <= 0 || a.bpm > MaxPlausibleBPM {
		return NewValidationError("bpm", fmt.Sprintf("must be within 1-%d", MaxPlausibleBPM), ErrInvalidActivity)
	}
	return nil
}

// String renders the reading for logs.
func (a ActivityInput) String() string {
	if !a.Available() {
		return string(ActivitySourceUnavailable)
	}
	return fmt.Sprintf("%s(%d)", a.source, a.bpm)
}
