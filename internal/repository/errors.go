package repository

import "errors"

var (
	// ErrDuplicateKey is returned when an insert hits a unique index.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("not found")
)
