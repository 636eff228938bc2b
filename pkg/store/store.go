package store

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"
)

// StagingName is reserved for the staging area of directory backed stores
// and never addresses a blob.
const StagingName = ".tmp"

// BlobInfo describes a stored blob.
type BlobInfo struct {
	Name    string
	Size    int64
	ModTime time.Time
}

// Store is a flat blob store addressed by file name.
type Store interface {
	// Write stores the content of reader under name and returns the number of
	// bytes written. It never replaces an existing blob: if name is taken it
	// returns BlobExistsError and leaves the existing content untouched.
	Write(ctx context.Context, name string, reader io.Reader) (int64, error)

	// Read returns the full content of the blob.
	// Returns BlobNotFoundError if there is no blob with that name.
	Read(ctx context.Context, name string) ([]byte, error)

	// Remove deletes the blob.
	// Returns BlobNotFoundError if there is no blob with that name.
	Remove(ctx context.Context, name string) error

	// Stat returns the size and modification time of the blob.
	// Returns BlobNotFoundError if there is no blob with that name.
	Stat(ctx context.Context, name string) (*BlobInfo, error)

	// List returns the names of all stored blobs, sorted.
	List(ctx context.Context) ([]string, error)
}

// ValidateName reports whether name can address a blob: a single, non-empty,
// valid UTF-8 path element that cannot escape the blob root.
func ValidateName(name string) bool {
	if name == "" || name == "." || name == ".." || name == StagingName {
		return false
	}
	if !utf8.ValidString(name) {
		return false
	}
	if strings.ContainsAny(name, "/\\\x00") {
		return false
	}
	return filepath.Base(name) == name
}

// BlobExistsError is returned when writing a name that is already stored.
type BlobExistsError struct {
	Name string
}

func (e BlobExistsError) Error() string {
	return "blob already exists: " + e.Name
}

// BlobNotFoundError is returned when a blob does not exist.
type BlobNotFoundError struct {
	Name string
}

func (e BlobNotFoundError) Error() string {
	return "blob not found: " + e.Name
}

// InvalidNameError is returned when a name fails ValidateName.
type InvalidNameError struct {
	Name string
}

func (e InvalidNameError) Error() string {
	return "invalid blob name: " + e.Name
}
