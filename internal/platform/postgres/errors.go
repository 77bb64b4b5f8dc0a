package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes.
const uniqueViolationCode = "23505"

// isUniqueViolation checks if the given error is a PostgreSQL unique
// constraint violation, optionally scoped to a named constraint.
// With no constraint names given it matches any unique violation.
func isUniqueViolation(err error, constraintNames ...string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolationCode {
		return false
	}
	if len(constraintNames) == 0 {
		return true
	}
	for _, name := range constraintNames {
		if pgErr.ConstraintName == name {
			return true
		}
	}
	return false
}
