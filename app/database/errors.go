package database

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

// Sentinel errors returned by the stores. Handlers map these onto HTTP
// statuses; anything else is treated as a dependency failure.
var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("duplicate key")
)

// ValidationError reports a missing or malformed field caught before the
// statement reaches the database.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// translateDBError maps driver-level errors onto the store's sentinel errors.
// Unique violations become ErrConflict so that callers see a conflict, not a
// crash, when the serial number or admission number constraint fires.
func translateDBError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUniqueViolation:
			return ErrConflict
		case pqForeignKeyViolation:
			return ErrNotFound
		}
	}
	return err
}
