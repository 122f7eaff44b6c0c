package workflow

import (
	"errors"
	"fmt"
)

// NonRetriableError marks a failure that must stop the run permanently:
// retrying cannot help (the referenced entity is gone, the payload is
// malformed). The engine checks for it explicitly instead of retrying.
type NonRetriableError struct {
	Err error
}

func (e *NonRetriableError) Error() string {
	return fmt.Sprintf("non-retriable: %v", e.Err)
}

func (e *NonRetriableError) Unwrap() error {
	return e.Err
}

// NonRetriable wraps err as a permanent failure.
func NonRetriable(err error) error {
	if err == nil {
		return nil
	}
	return &NonRetriableError{Err: err}
}

// NonRetriablef builds a permanent failure from a format string.
func NonRetriablef(format string, args ...any) error {
	return &NonRetriableError{Err: fmt.Errorf(format, args...)}
}

// IsNonRetriable reports whether err carries the permanent marker anywhere
// in its chain.
func IsNonRetriable(err error) bool {
	var target *NonRetriableError
	return errors.As(err, &target)
}
