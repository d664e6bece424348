// Package repository persists accounts, action codes and revoked tokens.
package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/ncobase/cookscorner/data"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert violates a unique constraint.
	ErrDuplicate = errors.New("record already exists")
)

// notFound maps sql.ErrNoRows to ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func parseTime(s string) time.Time {
	t, _ := data.ParseTime(s)
	return t
}
