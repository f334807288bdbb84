package model

import (
	"errors"
	"fmt"
)

// Model errors.
var (
	// ErrInvalidPath indicates a path that does not lead to a node.
	ErrInvalidPath = errors.New("invalid path")

	// ErrOutOfRange indicates an offset or range outside a node.
	ErrOutOfRange = errors.New("offset out of range")

	// ErrNotTextblock indicates a text operation on a non-textblock node.
	ErrNotTextblock = errors.New("node is not a textblock")

	// ErrNotContainer indicates a structural operation on a textblock.
	ErrNotContainer = errors.New("node cannot hold children")
)

// StepError describes a step that could not be applied.
type StepError struct {
	Step Step
	Err  error
}

// Error implements the error interface.
func (e *StepError) Error() string {
	return fmt.Sprintf("apply %s: %v", e.Step, e.Err)
}

// Unwrap returns the underlying error.
func (e *StepError) Unwrap() error {
	return e.Err
}
