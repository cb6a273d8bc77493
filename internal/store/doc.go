// Package store defines persistence interfaces and the sentinel errors
// shared by all store implementations. Concrete implementations live in
// internal/platform/postgres.
package store
