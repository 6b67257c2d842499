// Package store is the persistence layer. Every operation takes the
// per-request *sqlx.Tx session explicitly; nothing here holds a connection.
// created/modified timestamps are set by this layer, never by callers.
package store

import (
	"database/sql"
	"errors"
)

// ErrNotFound is returned when a row for the requested id does not exist.
var ErrNotFound = errors.New("store: not found")

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
