package catalog

import "errors"

var (
	// ErrExerciseNotFound is returned when no record has the requested id.
	ErrExerciseNotFound = errors.New("exercise not found")

	// ErrDatabaseError is returned when a database operation fails.
	ErrDatabaseError = errors.New("database error")
)
