package plugin

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned for an unknown plugin name.
	ErrNotFound = errors.New("plugin not found")

	// ErrAlreadyLoaded is returned when a plugin name is loaded twice.
	ErrAlreadyLoaded = errors.New("plugin already loaded")

	// ErrManagerClosed is returned after Close.
	ErrManagerClosed = errors.New("plugin manager closed")
)

// LoadError reports a plugin that failed to load.
type LoadError struct {
	Name string
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("plugin %s (%s): %v", e.Name, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
