// Package accuracy compares ephemeris snapshots against reference values and
// classifies each quantity as Excellent, Good or Check.
//
// Validation never fails: a Check verdict is an ordinary outcome that tells
// the operator which quantity drifted, and reference entries the engine does
// not compute are reported as skipped. Clamping anomalies recorded on the
// snapshot are carried into the report and lower its confidence level.
package accuracy
