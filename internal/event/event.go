package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/bengler/prosemirror/internal/event/topic"
)

// Event is a typed notification. Events are values and are not modified
// after publication.
type Event[T any] struct {
	Type     topic.Topic
	Payload  T
	Metadata Metadata
}

// Metadata is attached to every event. ID is a random UUID; Source names
// the publishing component.
type Metadata struct {
	ID        string
	Timestamp time.Time
	Source    string
}

// NewEvent creates an event with a fresh ID and the current time.
func NewEvent[T any](eventType topic.Topic, payload T, source string) Event[T] {
	return Event[T]{
		Type:    eventType,
		Payload: payload,
		Metadata: Metadata{
			ID:        uuid.NewString(),
			Timestamp: time.Now(),
			Source:    source,
		},
	}
}

// EventTopic implements TopicProvider.
func (e Event[T]) EventTopic() topic.Topic {
	return e.Type
}

// EventMetadata implements MetadataProvider.
func (e Event[T]) EventMetadata() Metadata {
	return e.Metadata
}

// TopicProvider is implemented by anything the bus can route.
type TopicProvider interface {
	EventTopic() topic.Topic
}

// MetadataProvider is implemented by events that carry metadata.
type MetadataProvider interface {
	EventMetadata() Metadata
}
