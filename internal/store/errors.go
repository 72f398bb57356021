package store

import (
	"errors"
	"fmt"
)

// Sentinels shared by every store implementation. Backend errors are mapped
// onto these so callers never match on driver codes.
var (
	ErrNotFound          = errors.New("entity not found")
	ErrDuplicate         = errors.New("entity already exists")
	ErrInvalidEntity     = errors.New("invalid entity")
	ErrTransactionFailed = errors.New("transaction failed")

	// ErrDescriptionNotFound is ErrNotFound for a missing api description.
	ErrDescriptionNotFound = fmt.Errorf("%w: api description", ErrNotFound)
)

// StoreError records which operation on which entity failed. Err is usually
// already mapped onto one of the sentinels above.
type StoreError struct {
	Entity    string
	Operation string
	Message   string
	Err       error
}

func (e *StoreError) Error() string {
	msg := fmt.Sprintf("store: %s %s: %s", e.Entity, e.Operation, e.Message)
	if e.Err == nil {
		return msg
	}
	return msg + ": " + e.Err.Error()
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError builds a StoreError.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{Entity: entity, Operation: operation, Message: message, Err: err}
}
