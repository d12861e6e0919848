// Package domain contains the core value types of the realm engine: focus and
// realm numbers, match records, activity readings and geographic coordinates.
// It is independent of any scheduling, storage or delivery mechanism.
package domain
