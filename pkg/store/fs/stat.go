package fs

import (
	"context"
	"errors"
	iofs "io/fs"
	"os"

	"exercisecatalog/pkg/store"
)

// Stat returns the size and modification time of a blob.
func (s *Store) Stat(ctx context.Context, name string) (*store.BlobInfo, error) {
	filePath, err := s.path(name)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(filePath)
	if errors.Is(err, iofs.ErrNotExist) {
		return nil, store.BlobNotFoundError{Name: name}
	}
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, store.BlobNotFoundError{Name: name}
	}

	return &store.BlobInfo{
		Name:    name,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// List returns the names of all regular files in the root, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}
