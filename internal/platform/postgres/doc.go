// Package postgres provides the PostgreSQL match log. Connections go through
// the pgx database/sql driver and driver errors are mapped onto the sentinel
// errors of internal/store.
package postgres
