package app

import (
	"errors"
	"fmt"
)

// Application errors.
var (
	// ErrClosed is returned by operations on a closed Application.
	ErrClosed = errors.New("application closed")

	// ErrNoCallContext indicates the caret is not inside a call's arguments.
	ErrNoCallContext = errors.New("caret is not inside a call")

	// ErrUnknownFunction indicates no signature is known for a callee.
	ErrUnknownFunction = errors.New("unknown function")

	// ErrNoCompletions indicates an empty completion list.
	ErrNoCompletions = errors.New("no completion items")
)

// OperationError is an error that occurred during a specific operation.
type OperationError struct {
	Op     string // e.g. "show signature", "apply theme"
	Target string // e.g. a function or color key
	Err    error
}

// NewOperationError creates a new OperationError.
func NewOperationError(op, target string, err error) *OperationError {
	return &OperationError{Op: op, Target: target, Err: err}
}

func (e *OperationError) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Op
	if e.Target != "" {
		msg = fmt.Sprintf("%s %s", e.Op, e.Target)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *OperationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
