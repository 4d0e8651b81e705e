package postgres

import (
	"errors"

	"github.com/lib/pq"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// IsUniqueViolation checks if an error is a PostgreSQL unique constraint
// violation. An empty constraint matches any unique violation; a named
// constraint matches only that one.
func IsUniqueViolation(err error, constraint string) bool {
	return isPQError(err, pqUniqueViolation, constraint)
}

// IsForeignKeyViolation checks if an error is a PostgreSQL foreign key
// violation, optionally for a specific constraint.
func IsForeignKeyViolation(err error, constraint string) bool {
	return isPQError(err, pqForeignKeyViolation, constraint)
}

func isPQError(err error, code, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}

	if string(pqErr.Code) != code {
		return false
	}

	return constraint == "" || pqErr.Constraint == constraint
}
