package service

import (
	"context"
	"errors"

	"exercisecatalog/pkg/catalog"
	"exercisecatalog/pkg/log"
	"exercisecatalog/pkg/models"
)

// Delete removes the record for exerciseID and then its blob.
//
// The record goes first, so a failed blob removal leaves an orphaned file
// and never a listed record without one. That failure is returned in
// DeleteResult.BlobErr and the record is not restored.
func (s *Service) Delete(ctx context.Context, exerciseID int64) (*models.DeleteResult, error) {
	exercise, err := s.Get(ctx, exerciseID)
	if err != nil {
		return nil, err
	}
	storedFileName := exercise.StoredFileName

	if err := s.catalog.Delete(ctx, exerciseID); err != nil {
		if errors.Is(err, catalog.ErrExerciseNotFound) {
			return nil, notFound(exerciseID)
		}
		return nil, StorageError{Op: OpDeleteRecord, Name: storedFileName, Err: err}
	}

	result := &models.DeleteResult{ID: exerciseID, StoredFileName: storedFileName}

	if err := s.blobs.Remove(ctx, storedFileName); err != nil {
		result.BlobErr = StorageError{Op: OpRemoveBlob, Name: storedFileName, Err: err}
		log.Warn().
			Err(err).
			Int64("id", exerciseID).
			Str("file_name", storedFileName).
			Msg("Record deleted but blob removal failed, blob is orphaned")
		return result, nil
	}

	log.Info().Int64("id", exerciseID).Str("file_name", storedFileName).Msg("Exercise deleted")
	return result, nil
}
