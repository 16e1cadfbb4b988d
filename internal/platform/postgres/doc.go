// Package postgres provides PostgreSQL implementations of the store
// interfaces. All implementations use database/sql over the pgx stdlib
// driver and translate PostgreSQL error codes into the store package's
// sentinel errors.
package postgres
