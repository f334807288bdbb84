package app

import (
	"errors"
	"fmt"
)

// Application errors.
var (
	// ErrQuit is returned by Run when the user quits.
	ErrQuit = errors.New("quit requested")

	// ErrAlreadyRunning indicates the application is already running.
	ErrAlreadyRunning = errors.New("application already running")

	// ErrStopped is returned by Run and SetScreen once Run has returned.
	ErrStopped = errors.New("application already stopped")

	// ErrNoScreen indicates Run was called before SetScreen.
	ErrNoScreen = errors.New("no screen")
)

// ComponentError reports which part of startup failed: "config",
// "logging", "document", "screen" or "reconcile".
type ComponentError struct {
	Component string
	Action    string
	Err       error
}

func (e *ComponentError) Error() string {
	if e.Action != "" {
		return fmt.Sprintf("%s: %s: %v", e.Component, e.Action, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Component, e.Err)
}

func (e *ComponentError) Unwrap() error {
	return e.Err
}
