package service

import (
	"context"
	"errors"
	"time"

	"exercisecatalog/pkg/log"
	"exercisecatalog/pkg/models"
	"exercisecatalog/pkg/store"
)

// Drift compares both stores and reports orphaned blobs and records whose
// blob is missing. Uploads in flight show up as orphans until their record
// is inserted.
func (s *Service) Drift(ctx context.Context) (*models.DriftReport, error) {
	exercises, err := s.catalog.List(ctx)
	if err != nil {
		return nil, StorageError{Op: OpReadRecord, Err: err}
	}

	names, err := s.blobs.List(ctx)
	if err != nil {
		return nil, StorageError{Op: OpListBlobs, Err: err}
	}

	stored := make(map[string]struct{}, len(names))
	for _, name := range names {
		stored[name] = struct{}{}
	}

	referenced := make(map[string]struct{}, len(exercises))
	report := &models.DriftReport{
		OrphanedBlobs: []string{},
		MissingBlobs:  []models.Exercise{},
	}
	for _, exercise := range exercises {
		referenced[exercise.StoredFileName] = struct{}{}
		if _, ok := stored[exercise.StoredFileName]; !ok {
			report.MissingBlobs = append(report.MissingBlobs, exercise)
		}
	}
	for _, name := range names {
		if _, ok := referenced[name]; !ok {
			report.OrphanedBlobs = append(report.OrphanedBlobs, name)
		}
	}

	log.Info().
		Int("orphaned_blobs", len(report.OrphanedBlobs)).
		Int("missing_blobs", len(report.MissingBlobs)).
		Msg("Drift check finished")
	return report, nil
}

// PruneOrphans removes the orphaned blobs found by Drift that are older
// than minAge. Younger blobs may belong to uploads whose record is not
// inserted yet and are skipped. Each name is also checked against the catalog
// again right before removal so that a record inserted after the scan keeps
// its blob.
func (s *Service) PruneOrphans(ctx context.Context, minAge time.Duration) (*models.PruneResult, error) {
	report, err := s.Drift(ctx)
	if err != nil {
		return nil, err
	}

	result := &models.PruneResult{Removed: []string{}, Skipped: []string{}, Failed: map[string]string{}}
	for _, name := range report.OrphanedBlobs {
		info, err := s.blobs.Stat(ctx, name)
		if err != nil {
			var notFoundErr store.BlobNotFoundError
			if !errors.As(err, &notFoundErr) {
				result.Failed[name] = err.Error()
			}
			continue
		}
		if age := time.Since(info.ModTime); age < minAge {
			log.Debug().Str("file_name", name).Dur("age", age).Msg("Orphaned blob too recent, keeping it")
			result.Skipped = append(result.Skipped, name)
			continue
		}

		inUse, err := s.catalog.FileNameInUse(ctx, name)
		if err != nil {
			result.Failed[name] = err.Error()
			continue
		}
		if inUse {
			log.Debug().Str("file_name", name).Msg("Blob gained a record since the scan, keeping it")
			continue
		}

		if err := s.blobs.Remove(ctx, name); err != nil {
			var notFoundErr store.BlobNotFoundError
			if errors.As(err, &notFoundErr) {
				continue
			}
			result.Failed[name] = err.Error()
			continue
		}
		result.Removed = append(result.Removed, name)
	}

	log.Info().
		Int("removed", len(result.Removed)).
		Int("skipped", len(result.Skipped)).
		Int("failed", len(result.Failed)).
		Msg("Orphaned blobs pruned")
	return result, nil
}
