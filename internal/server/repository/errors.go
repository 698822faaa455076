package repository

import "errors"

var (
	// ErrNotFound is returned when no record has the requested id.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateID is returned when an insert or rename collides with an existing id.
	ErrDuplicateID = errors.New("duplicate id")
)
