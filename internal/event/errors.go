package event

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidEvent is returned when a published value has no topic.
	ErrInvalidEvent = errors.New("invalid event")

	// ErrInvalidTopic is returned when subscribing with an empty or malformed pattern.
	ErrInvalidTopic = errors.New("invalid topic")

	// ErrNilHandler is returned when a nil handler is provided.
	ErrNilHandler = errors.New("handler cannot be nil")

	// ErrSubscriptionNotFound is returned when unsubscribing an unknown ID.
	ErrSubscriptionNotFound = errors.New("subscription not found")

	// ErrHandlerPanic marks a handler that panicked during delivery.
	ErrHandlerPanic = errors.New("handler panicked")
)

// HandlerError wraps an error returned (or a panic raised) by a handler.
type HandlerError struct {
	SubscriptionID string
	Topic          string
	Err            error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("handler %s on %s: %v", e.SubscriptionID, e.Topic, e.Err)
}

func (e *HandlerError) Unwrap() error {
	return e.Err
}
