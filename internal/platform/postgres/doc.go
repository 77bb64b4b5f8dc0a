// Package postgres provides PostgreSQL implementations of the store
// interfaces in internal/store and the durable job store in internal/job.
package postgres
