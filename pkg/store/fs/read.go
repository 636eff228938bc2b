package fs

import (
	"context"
	"errors"
	iofs "io/fs"
	"os"

	"exercisecatalog/pkg/log"
	"exercisecatalog/pkg/store"
)

// Read returns the content stored under name.
func (s *Store) Read(ctx context.Context, name string) ([]byte, error) {
	filePath, err := s.path(name)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filePath) //nolint:gosec // filePath is a validated single element under root
	if errors.Is(err, iofs.ErrNotExist) {
		log.Debug().Str("file_name", name).Msg("Blob not found")
		return nil, store.BlobNotFoundError{Name: name}
	}
	if err != nil {
		log.Error().Err(err).Str("file_path", filePath).Msg("Failed to read blob")
		return nil, err
	}

	return data, nil
}
