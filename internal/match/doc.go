// Package match watches focus/realm change events and appends one
// MatchRecord to the match log each time the two numbers become equal.
//
// The detector starts Disabled and ignores events until the embedding
// application calls Arm once startup has settled. While armed it remembers
// whether the previous comparison was equal, so a run of equal snapshots
// produces a single record and a new record needs the equality to break
// first.
package match
