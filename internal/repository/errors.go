package repository

import "errors"

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("repository: not found")
	// ErrDuplicateUsername indicates the username unique constraint was violated.
	ErrDuplicateUsername = errors.New("repository: username already exists")
	// ErrDuplicateEmail indicates the email unique constraint was violated.
	ErrDuplicateEmail = errors.New("repository: email already exists")
	// ErrDuplicateSlug indicates the slug unique constraint was violated.
	ErrDuplicateSlug = errors.New("repository: slug already exists")
	// ErrDuplicateName indicates a name unique constraint was violated.
	ErrDuplicateName = errors.New("repository: name already exists")
)
