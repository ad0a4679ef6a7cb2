package services

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the operation referenced a slug with no matching post.
	ErrNotFound = errors.New("post not found")
	// ErrConflict means two concurrent writes resolved to the same slug and
	// the single retry also lost the race.
	ErrConflict = errors.New("slug conflict")
)

// ValidationError reports rejected input: missing or empty title/content, a
// title over the length limit, or a title that yields an empty slug.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func validationf(format string, args ...interface{}) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// StorageError wraps a record store failure that is neither a missing record
// nor a unique-slug violation. The HTTP layer maps it to a 500 without
// inspecting the cause.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func storageErr(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}
