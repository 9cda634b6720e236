package operation

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation matches every *ValidationError.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is returned by stores for missing or removed records and
	// matches every *NotFoundError.
	ErrNotFound = errors.New("not found")

	// ErrStore matches every *StoreError.
	ErrStore = errors.New("store failure")

	// ErrNotOpen is returned by stores when a conditional update finds the
	// operation no longer open.
	ErrNotOpen = errors.New("operation is not open")

	// ErrBusy is returned by lockers when another holder owns the key.
	ErrBusy = errors.New("operation is busy")
)

// ValidationError reports missing or out-of-range input. Commands that fail
// with it never reach the store.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NotFoundError reports a referenced operation, product or entry that does not resolve.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// StoreError wraps a failed store call. It is surfaced as-is; nothing retries it.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func (e *StoreError) Is(target error) bool {
	return target == ErrStore
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func storeErr(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}
