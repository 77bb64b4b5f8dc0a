// Package store defines the persistence interfaces used by the service
// layer, the shared error taxonomy for data access, and the transaction
// helper. Concrete implementations live in internal/platform/postgres.
package store
