package service

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when the requested exercise id is not in the catalog.
var ErrNotFound = errors.New("exercise not found")

// ValidationError is returned for malformed input. Nothing was read or
// written when it is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Op names the storage step that failed.
type Op string

const (
	OpWriteBlob    Op = "write blob"
	OpInsertRecord Op = "insert record"
	OpReadRecord   Op = "read record"
	OpReadBlob     Op = "read blob"
	OpDeleteRecord Op = "delete record"
	OpRemoveBlob   Op = "remove blob"
	OpListBlobs    Op = "list blobs"
)

// StorageError is returned when the catalog or the blob store fails, or when
// the two have drifted apart (a record whose blob is gone).
type StorageError struct {
	Op   Op
	Name string
	Err  error
}

func (e StorageError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %q: %v", e.Op, e.Name, e.Err)
}

func (e StorageError) Unwrap() error {
	return e.Err
}

func notFound(exerciseID int64) error {
	return fmt.Errorf("%w: id %d", ErrNotFound, exerciseID)
}
