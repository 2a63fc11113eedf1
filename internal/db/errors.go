package db

import "errors"

var (
	// ErrNotFound is returned when an operation targets a project id that does not exist
	ErrNotFound = errors.New("project not found")

	// ErrConstraint is returned when an operation would break the position
	// ordering or the forward-only status lifecycle
	ErrConstraint = errors.New("constraint violation")

	// ErrUnavailable is returned when the database cannot be reached or a
	// transaction cannot be started or committed
	ErrUnavailable = errors.New("storage unavailable")
)
