package domain

import "errors"

var (
	// ErrNotFound reports that a referenced record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput reports a request that fails semantic validation.
	ErrInvalidInput = errors.New("invalid input")
)
