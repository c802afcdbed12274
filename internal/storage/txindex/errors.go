package txindex

import (
	"errors"
	"fmt"
)

var (
	// Configuration errors
	ErrInvalidDriver       = errors.New("invalid database driver")
	ErrMissingDSN          = errors.New("database dsn is required")
	ErrInvalidMaxOpenConns = errors.New("max open connections must be >= 0")
	ErrInvalidTimeout      = errors.New("timeout must be positive")

	ErrDatabaseClosed      = errors.New("database connection is closed")
	ErrTransactionNotFound = errors.New("transaction not found")
)

// IndexError records the operation that failed and why
type IndexError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *IndexError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Operation, e.Message)
}

func (e *IndexError) Unwrap() error {
	return e.Cause
}

func newError(operation, message string, cause error) *IndexError {
	return &IndexError{Operation: operation, Message: message, Cause: cause}
}
