package model

import "errors"

// Sentinel errors returned by stores. The HTTP layer translates them into
// status codes in exactly one place.
var (
	// ErrNotFound indicates the requested user does not exist.
	ErrNotFound = errors.New("user not found")
	// ErrEmailTaken indicates a unique email constraint violation. Only the
	// postgres store carries the constraint; the in-memory store never
	// returns it.
	ErrEmailTaken = errors.New("email already exists")
	// ErrUnavailable indicates the backing database cannot be reached.
	ErrUnavailable = errors.New("database not available")
)
