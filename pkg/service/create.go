package service

import (
	"context"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"exercisecatalog/pkg/log"
	"exercisecatalog/pkg/models"
)

// Create stores a new exercise: it resolves the file name, writes the blob and
// then inserts the record.
//
// A failed blob write leaves nothing behind. A failed insert after a
// successful write leaves the blob orphaned; it is reported, not rolled back.
func (s *Service) Create(ctx context.Context, exercise models.NewExercise, content io.Reader) (*models.CreateResult, error) {
	if err := ValidateNewExercise(exercise); err != nil {
		return nil, err
	}
	if content == nil {
		return nil, ValidationError{Field: "file", Reason: "content is required"}
	}

	exercise.Title = strings.TrimSpace(exercise.Title)
	exercise.Author = strings.TrimSpace(exercise.Author)
	exercise.Faculty = strings.TrimSpace(exercise.Faculty)

	storedFileName, renamed, err := s.resolveFileName(ctx, exercise.FileName)
	if err != nil {
		return nil, err
	}

	size, err := s.blobs.Write(ctx, storedFileName, content)
	if err != nil {
		log.Error().Err(err).Str("file_name", storedFileName).Msg("Failed to write blob, nothing recorded")
		return nil, StorageError{Op: OpWriteBlob, Name: storedFileName, Err: err}
	}

	record := exercise
	record.FileName = storedFileName
	stored, err := s.catalog.Insert(ctx, record)
	if err != nil {
		log.Warn().Err(err).Str("file_name", storedFileName).Msg("Failed to insert record, blob is orphaned")
		return nil, StorageError{Op: OpInsertRecord, Name: storedFileName, Err: err}
	}

	log.Info().
		Int64("id", stored.ID).
		Str("file_name", storedFileName).
		Bool("renamed", renamed).
		Str("size", humanize.Bytes(uint64(size))). //nolint:gosec // size is a non-negative byte count
		Msg("Exercise created")

	return &models.CreateResult{
		Exercise: *stored,
		Renamed:  renamed,
		Size:     size,
	}, nil
}

// resolveFileName returns proposed if no live record uses it, otherwise one
// derived name. The derived name is not checked against the catalog again;
// the blob store refuses to overwrite, so a second collision fails the
// upload instead of clobbering a file.
func (s *Service) resolveFileName(ctx context.Context, proposed string) (string, bool, error) {
	inUse, err := s.catalog.FileNameInUse(ctx, proposed)
	if err != nil {
		return "", false, StorageError{Op: OpReadRecord, Name: proposed, Err: err}
	}
	if !inUse {
		return proposed, false, nil
	}

	derived := DeriveFileName(proposed, s.token())
	log.Debug().Str("proposed", proposed).Str("file_name", derived).Msg("File name collision resolved")
	return derived, true, nil
}
