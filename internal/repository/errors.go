package repository

import (
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

var (
	// ErrNotFound is returned when a single-record read finds nothing.
	// Deletes never return it; deleting an absent record is a no-op.
	ErrNotFound = fmt.Errorf("not found")

	// ErrDuplicateKey is returned by Insert when the identifier already
	// exists. Upsert never returns it.
	ErrDuplicateKey = fmt.Errorf("duplicate key")
)

// mapWriteError translates driver-level constraint violations into
// ErrDuplicateKey so callers do not depend on sqlite3 error codes.
func mapWriteError(err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		return ErrDuplicateKey
	}
	return err
}
