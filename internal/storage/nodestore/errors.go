package nodestore

import (
	"errors"
	"fmt"

	"github.com/LeJamon/goRippled/internal/types"
)

var (
	// ErrNotFound indicates that a requested key was not found
	ErrNotFound = errors.New("key not found")

	// ErrDataCorrupt indicates that stored data is corrupted
	ErrDataCorrupt = errors.New("data corruption detected")

	// ErrBackendClosed indicates that the backend is closed
	ErrBackendClosed = errors.New("backend is closed")

	// ErrInvalidConfig indicates that the configuration is invalid
	ErrInvalidConfig = errors.New("invalid configuration")
)

// StoreError wraps a backend failure with the operation and key involved.
type StoreError struct {
	Operation string
	Backend   string
	Key       types.Hash256
	Cause     error
}

func (e *StoreError) Error() string {
	if e.Key.IsZero() {
		return fmt.Sprintf("nodestore %s error on backend %s: %v", e.Operation, e.Backend, e.Cause)
	}
	return fmt.Sprintf("nodestore %s error on backend %s for key %s: %v",
		e.Operation, e.Backend, e.Key, e.Cause)
}

// Unwrap returns the underlying error.
func (e *StoreError) Unwrap() error {
	return e.Cause
}

func newError(operation, backend string, key types.Hash256, cause error) *StoreError {
	return &StoreError{Operation: operation, Backend: backend, Key: key, Cause: cause}
}
