// Package postgres provides PostgreSQL implementations of the store
// interfaces defined in internal/store. All implementations use the
// database/sql API over the pgx driver and translate PostgreSQL errors
// into the sentinel errors the rest of the application matches on.
package postgres
