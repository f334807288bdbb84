package event

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/bengler/prosemirror/internal/event/topic"
)

// Handler receives published events.
type Handler interface {
	Handle(ctx context.Context, event any) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, event any) error

// Handle calls f.
func (f HandlerFunc) Handle(ctx context.Context, event any) error {
	return f(ctx, event)
}

// Publisher is the narrow interface components use to emit events.
type Publisher interface {
	Publish(ctx context.Context, event any) error
}

// Bus routes events to subscribers by topic pattern.
type Bus interface {
	Publisher

	// Subscribe registers handler for events whose topic matches pattern
	// and returns the subscription ID.
	Subscribe(pattern topic.Topic, handler Handler) (string, error)

	// Unsubscribe removes a subscription.
	Unsubscribe(id string) error

	// Stats returns delivery counters.
	Stats() Stats
}

// Stats are cumulative bus counters.
type Stats struct {
	EventsPublished  uint64
	HandlersExecuted uint64
	HandlerErrors    uint64
	HandlerPanics    uint64
	Subscribers      int
}

type subscription struct {
	id      string
	pattern topic.Topic
	handler Handler
}

type bus struct {
	mu    sync.RWMutex
	subs  []subscription
	stats Stats
}

// NewBus creates a synchronous bus.
func NewBus() Bus {
	return &bus{}
}

func (b *bus) Subscribe(pattern topic.Topic, handler Handler) (string, error) {
	if handler == nil {
		return "", ErrNilHandler
	}
	if !pattern.IsValid() {
		return "", ErrInvalidTopic
	}
	id := uuid.NewString()
	b.mu.Lock()
	b.subs = append(b.subs, subscription{id: id, pattern: pattern, handler: handler})
	b.mu.Unlock()
	return id, nil
}

func (b *bus) Unsubscribe(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return nil
		}
	}
	return ErrSubscriptionNotFound
}

// Publish delivers event to every matching subscriber before returning.
// Handler errors and panics are collected; one failing handler does not
// stop delivery to the rest.
func (b *bus) Publish(ctx context.Context, event any) error {
	tp, ok := event.(TopicProvider)
	if !ok || tp.EventTopic() == "" {
		return ErrInvalidEvent
	}
	eventTopic := tp.EventTopic()

	b.mu.Lock()
	b.stats.EventsPublished++
	var matched []subscription
	for _, s := range b.subs {
		if eventTopic.Matches(s.pattern) {
			matched = append(matched, s)
		}
	}
	b.mu.Unlock()

	var errs []error
	for _, s := range matched {
		panicked, err := dispatch(ctx, s.handler, event)
		b.mu.Lock()
		b.stats.HandlersExecuted++
		if panicked {
			b.stats.HandlerPanics++
		} else if err != nil {
			b.stats.HandlerErrors++
		}
		b.mu.Unlock()
		if err != nil {
			errs = append(errs, &HandlerError{SubscriptionID: s.id, Topic: eventTopic.String(), Err: err})
		}
	}
	return errors.Join(errs...)
}

func (b *bus) Stats() Stats {
	b.mu.RLock()
	defer b.mu.RUnlock()
	st := b.stats
	st.Subscribers = len(b.subs)
	return st
}

func dispatch(ctx context.Context, h Handler, event any) (panicked bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			panicked = true
			err = fmt.Errorf("%w: %v", ErrHandlerPanic, r)
		}
	}()
	return false, h.Handle(ctx, event)
}
