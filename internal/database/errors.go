package database

import (
	"errors"

	"github.com/lib/pq"
)

// IsUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation. If constraint is non-empty the violation must be on that
// constraint specifically.
func IsUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != "23505" {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}

// IsForeignKeyViolation reports whether err is a PostgreSQL foreign key
// violation (a referenced row is absent).
func IsForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23503"
}
