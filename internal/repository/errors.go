// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios without
// inspecting driver error strings. Each entity additionally defines its
// own not-found sentinel next to its repository.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a delete or update cannot be
// performed because of conflicting state, such as attempting to
// delete a program that still has registrations. Handlers should
// translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrCapacityFull is returned when a registration would push a program's
// participant count past its capacity. The guarded increment inside the
// registration transaction is the authoritative check.
var ErrCapacityFull = errors.New("program capacity exceeded")

// ErrDuplicateRegistration is returned when a user already holds a
// registration for the program.
var ErrDuplicateRegistration = errors.New("registration already exists for user and program")
