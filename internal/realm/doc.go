// Package realm computes the realm number: a digit-reduced sum of the current
// time components, a location factor, an activity factor and, optionally, a
// celestial factor derived from the Sun sign and lunar phase.
//
// Calculate and the factor helpers are pure. Service wraps them with the
// missing-input policy: when location or activity data is unavailable for a
// cycle, the last successfully computed factor is reused, or the neutral
// default when none exists yet. A calculation never fails.
package realm
