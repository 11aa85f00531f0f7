package domain

import "errors"

var (
	// ErrValidation marks missing or malformed form input.
	ErrValidation = errors.New("validation failed")
	// ErrBadCredentials is returned for any failed login, whatever the cause.
	ErrBadCredentials = errors.New("invalid credentials")
	// ErrUnauthenticated means the request carries no usable session.
	ErrUnauthenticated = errors.New("not authenticated")
	// ErrNotFound covers both missing records and records owned by someone else.
	ErrNotFound = errors.New("not found")
	// ErrEmailTaken is returned when registering an email that already exists.
	ErrEmailTaken = errors.New("email already registered")
)
