package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrDuplicate is wrapped when a write hits a unique constraint.
	ErrDuplicate = errors.New("duplicate key")
	// ErrNotFound is wrapped when an update or delete matched no row.
	ErrNotFound = errors.New("record not found")
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
