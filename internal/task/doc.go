// Package task schedules realm recalculations. A single worker consumes a
// bounded queue in order, so realm updates reach the focus store in the
// order they were requested. Recalculations are enqueued by an interval
// ticker, by movement beyond a distance threshold and on demand.
package task
