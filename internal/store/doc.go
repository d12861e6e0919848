// Package store defines the persistence contract for the match log and an
// in-process implementation of it. SQL-backed implementations live under
// internal/platform and share the DBTX and transaction helpers defined here.
package store
