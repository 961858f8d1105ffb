// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values allow higher layers such as the
// allocation engine and the handlers to distinguish between different
// failure scenarios without inspecting driver errors.
package repository

import "errors"

// ErrSeatNotFound is returned by writes that address an identifier that
// has no row in the seat store.  Reads never return it; they classify the
// identifier as INVALID instead.
var ErrSeatNotFound = errors.New("seat not found")

// ErrUsernameExists is returned when registering a name that is taken.
// Handlers should translate this into an HTTP 409 response.
var ErrUsernameExists = errors.New("username already exists")

// ErrUserNotFound is returned when a user lookup yields no rows.
var ErrUserNotFound = errors.New("user not found")
