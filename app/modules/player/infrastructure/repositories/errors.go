package playerdb

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun/driver/pgdriver"
)

var (
	// ErrNotFound is returned when no player matches.
	ErrNotFound = errors.New("player not found")
	// ErrDuplicate is returned when (external_id, chat_id) already exists.
	ErrDuplicate = errors.New("player already registered in chat")
)

const uniqueViolation = "23505"

// isUniqueViolation understands both pgdriver (runtime) and pgx stdlib (tests).
func isUniqueViolation(err error) bool {
	var pgdErr pgdriver.Error
	if errors.As(err, &pgdErr) {
		return pgdErr.Field('C') == uniqueViolation
	}
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Code == uniqueViolation
	}
	return false
}
