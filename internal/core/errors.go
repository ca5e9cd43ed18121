package core

import "fmt"

// Store operations reported by StoreError.
const (
	StoreOpLoad = "load"
	StoreOpSave = "save"
)

// ValidationError reports a payload that is missing or has malformed fields.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NotFoundError reports a lookup miss on update or delete.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// DuplicateError reports a name that already exists in a set collection.
type DuplicateError struct {
	Message string
}

func (e *DuplicateError) Error() string { return e.Message }

// StoreError wraps a failure of the backing collection.
type StoreError struct {
	Op   string
	Kind Kind
	Err  error
}

func (e *StoreError) Error() string {
	if e.Op == StoreOpLoad {
		return fmt.Sprintf("Failed to fetch %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("Failed to save data: %v", e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func NewValidationError(msg string) error { return &ValidationError{Message: msg} }
func NewNotFoundError(msg string) error   { return &NotFoundError{Message: msg} }
func NewDuplicateError(msg string) error  { return &DuplicateError{Message: msg} }
