package domain

import "errors"

var (
	// ErrValidation marks malformed caller input, e.g. an explicit empty
	// product id list or a non-positive planning horizon.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks entirely missing forecast or catalog data. A single
	// unresolvable product id is not an error; it is omitted from output.
	ErrNotFound = errors.New("not found")
)
