package fs

import (
	"context"
	"errors"
	iofs "io/fs"
	"os"

	"exercisecatalog/pkg/log"
	"exercisecatalog/pkg/store"
)

// Remove deletes the blob stored under name.
func (s *Store) Remove(ctx context.Context, name string) error {
	filePath, err := s.path(name)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.Remove(filePath); err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			log.Debug().Str("file_name", name).Msg("Blob not found for remove")
			return store.BlobNotFoundError{Name: name}
		}
		log.Error().Err(err).Str("file_path", filePath).Msg("Failed to remove blob")
		return err
	}

	log.Debug().Str("file_name", name).Msg("Blob removed")
	return nil
}
