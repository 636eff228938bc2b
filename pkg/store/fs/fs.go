package fs

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"exercisecatalog/pkg/log"
	"exercisecatalog/pkg/store"
)

const (
	dirPerm  = 0750
	filePerm = 0640

	// stagingDir holds partially written uploads. It lives inside the root so
	// that publishing a blob is a same-filesystem link.
	stagingDir = store.StagingName
)

// Store implements store.Store on a plain directory.
type Store struct {
	root string
}

// New creates the blob root (and its staging directory) if needed.
func New(root string) (*Store, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, errors.New("blob root is required")
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Join(abs, stagingDir), dirPerm); err != nil {
		log.Error().Err(err).Str("blob_root", abs).Msg("Failed to create blob root")
		return nil, err
	}

	return &Store{root: abs}, nil
}

// Root returns the absolute blob root.
func (s *Store) Root() string {
	return s.root
}

// path resolves name inside the root.
func (s *Store) path(name string) (string, error) {
	if !store.ValidateName(name) {
		return "", store.InvalidNameError{Name: name}
	}
	return filepath.Join(s.root, name), nil
}
