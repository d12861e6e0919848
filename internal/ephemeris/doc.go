// Package ephemeris computes a small celestial snapshot for an instant:
// ecliptic longitudes of the Sun, Moon and the classical planets plus
// Uranus and Neptune, lunar phase, illumination and age, and the Sun sign.
//
// Positions come from mean orbital elements with secular rates and a handful
// of periodic perturbation terms (lunar evection, variation and annual
// equation; the Jupiter-Saturn great inequality; Uranus terms). Accuracy is
// of the order of one or two arc minutes for the Sun and Moon and a few arc
// minutes for the planets between 1800 and 2200, which is far below the
// zodiac and phase bin widths the realm engine consumes.
//
// Every function in this package is pure and deterministic: no I/O, no
// clocks, no shared mutable state. Compute may be called concurrently.
//
// All angles leaving the package are degrees normalized to [0,360).
// Illumination is a fraction in [0,1]. Values that had to be clamped are
// reported as Anomaly entries on the Snapshot instead of being hidden.
package ephemeris
