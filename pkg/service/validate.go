package service

import (
	"strings"

	"exercisecatalog/pkg/models"
	"exercisecatalog/pkg/store"
)

// ValidateNewExercise checks the shape of an upload before any I/O.
func ValidateNewExercise(exercise models.NewExercise) error {
	fields := []struct {
		name  string
		value string
	}{
		{"title", exercise.Title},
		{"author", exercise.Author},
		{"faculty", exercise.Faculty},
		{"file name", exercise.FileName},
	}
	for _, field := range fields {
		if strings.TrimSpace(field.value) == "" {
			return ValidationError{Field: field.name, Reason: "must not be empty"}
		}
	}

	if !store.ValidateName(exercise.FileName) {
		return ValidationError{Field: "file name", Reason: "must be a plain file name"}
	}
	return nil
}

// ValidateID checks that an exercise id can exist at all.
func ValidateID(exerciseID int64) error {
	if exerciseID <= 0 {
		return ValidationError{Field: "id", Reason: "must be a positive integer"}
	}
	return nil
}
