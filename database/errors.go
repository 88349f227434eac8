package database

import "errors"

var (
	// ErrNotFound is returned when a lookup by id matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrEmptyCollection is returned when choosing from a table with no rows.
	ErrEmptyCollection = errors.New("empty collection")
)
