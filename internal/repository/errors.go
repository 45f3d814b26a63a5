package repository

import (
	"errors"

	"github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when a requested record is not found in the repository.
// This abstracts away the underlying storage implementation (SQL, NoSQL, etc.)
// from the service layer.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when an insert or update violates a uniqueness
// constraint, e.g. a second registration of the same competitor in a contest.
var ErrDuplicate = errors.New("duplicate record")

// ErrUnknownTable is returned when attempting to clear a table that is not whitelisted.
// This prevents SQL injection attacks.
var ErrUnknownTable = errors.New("unknown table name")

// translate maps driver errors onto repository sentinels
func translate(err error) error {
	var se sqlite3.Error
	if errors.As(err, &se) {
		if se.ExtendedCode == sqlite3.ErrConstraintUnique || se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey {
			return ErrDuplicate
		}
	}
	return err
}
