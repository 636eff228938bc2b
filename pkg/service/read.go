package service

import (
	"context"
	"errors"

	"exercisecatalog/pkg/catalog"
	"exercisecatalog/pkg/log"
	"exercisecatalog/pkg/models"
)

// List returns every live record in insertion order.
func (s *Service) List(ctx context.Context) ([]models.Exercise, error) {
	exercises, err := s.catalog.List(ctx)
	if err != nil {
		return nil, StorageError{Op: OpReadRecord, Err: err}
	}
	return exercises, nil
}

// ListSummaries returns every live record without its stored file name.
func (s *Service) ListSummaries(ctx context.Context) ([]models.ExerciseSummary, error) {
	summaries, err := s.catalog.ListSummaries(ctx)
	if err != nil {
		return nil, StorageError{Op: OpReadRecord, Err: err}
	}
	return summaries, nil
}

// Get returns the record for exerciseID without touching the blob store.
func (s *Service) Get(ctx context.Context, exerciseID int64) (*models.Exercise, error) {
	if err := ValidateID(exerciseID); err != nil {
		return nil, err
	}

	exercise, err := s.catalog.Get(ctx, exerciseID)
	if errors.Is(err, catalog.ErrExerciseNotFound) {
		return nil, notFound(exerciseID)
	}
	if err != nil {
		return nil, StorageError{Op: OpReadRecord, Err: err}
	}
	return exercise, nil
}

// Fetch returns the metadata and file content of an exercise. A record whose
// blob cannot be read yields a StorageError, never ErrNotFound.
func (s *Service) Fetch(ctx context.Context, exerciseID int64) (*models.ExerciseFile, error) {
	exercise, err := s.Get(ctx, exerciseID)
	if err != nil {
		return nil, err
	}

	data, err := s.blobs.Read(ctx, exercise.StoredFileName)
	if err != nil {
		log.Error().
			Err(err).
			Int64("id", exerciseID).
			Str("file_name", exercise.StoredFileName).
			Msg("Record exists but its blob is unreadable")
		return nil, StorageError{Op: OpReadBlob, Name: exercise.StoredFileName, Err: err}
	}

	return &models.ExerciseFile{
		Title:   exercise.Title,
		Author:  exercise.Author,
		Faculty: exercise.Faculty,
		Data:    data,
	}, nil
}
