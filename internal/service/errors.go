package service

import (
	"errors"
	"fmt"
)

// ErrTodoNotFound is returned by TodoService.Get for an unknown id
var ErrTodoNotFound = errors.New("todo not found")

// ValidationError reports a request the service refuses to apply
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// StoreError wraps a failure reported by the persistent store
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}

func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}

	return &StoreError{Op: op, Err: err}
}
