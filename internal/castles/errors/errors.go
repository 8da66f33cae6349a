package errors

import "errors"

var (
	ErrNotFound      = errors.New("castle not found")
	ErrInvalidID     = errors.New("invalid castle id")
	ErrDuplicateSlug = errors.New("castle slug already in use")
)
