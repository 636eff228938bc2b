package fs

import (
	"context"
	"errors"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"

	"exercisecatalog/pkg/log"
	"exercisecatalog/pkg/store"
)

// Write stores reader under name. The content is staged to a temporary file
// and then hard linked into place, which fails instead of replacing an
// existing file.
func (s *Store) Write(ctx context.Context, name string, reader io.Reader) (int64, error) {
	targetPath, err := s.path(name)
	if err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	tempFile, err := os.CreateTemp(filepath.Join(s.root, stagingDir), "upload-*")
	if err != nil {
		log.Error().Err(err).Msg("Failed to create staging file")
		return 0, err
	}
	defer s.cleanupTempFile(tempFile)

	written, err := io.Copy(tempFile, reader)
	if err != nil {
		log.Error().Err(err).Str("file_name", name).Msg("Failed to stage blob")
		return 0, err
	}

	if err := tempFile.Sync(); err != nil {
		log.Error().Err(err).Str("file_name", name).Msg("Failed to sync staged blob")
		return 0, err
	}

	if err := tempFile.Chmod(filePerm); err != nil {
		return 0, err
	}

	if err := os.Link(tempFile.Name(), targetPath); err != nil {
		if errors.Is(err, iofs.ErrExist) {
			log.Warn().Str("file_name", name).Msg("Blob already exists, refusing to overwrite")
			return 0, store.BlobExistsError{Name: name}
		}
		log.Error().Err(err).Str("target_path", targetPath).Msg("Failed to publish blob")
		return 0, err
	}

	log.Debug().Str("file_name", name).Int64("size", written).Msg("Blob written")
	return written, nil
}

// cleanupTempFile closes and removes the staging file. After a successful
// link the published name keeps the content alive.
func (s *Store) cleanupTempFile(tempFile *os.File) {
	if err := tempFile.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
		log.Error().Err(err).Msg("Failed to close staging file")
	}

	if err := os.Remove(tempFile.Name()); err != nil && !errors.Is(err, iofs.ErrNotExist) {
		log.Error().Err(err).Str("temp_file", tempFile.Name()).Msg("Failed to remove staging file")
	}
}
