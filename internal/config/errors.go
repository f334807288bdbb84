package config

import (
	"errors"
	"fmt"
)

// ErrInvalidValue is the root cause of every validation failure.
var ErrInvalidValue = errors.New("invalid config value")

// ValidationError names the offending key.
type ValidationError struct {
	Key string
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config %s: %v", e.Key, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(key, format string, args ...any) error {
	return &ValidationError{Key: key, Err: fmt.Errorf("%w: "+format, append([]any{ErrInvalidValue}, args...)...)}
}
