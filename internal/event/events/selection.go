package events

import (
	"github.com/bengler/prosemirror/internal/event/topic"
	"github.com/bengler/prosemirror/internal/selection"
)

// Selection topics.
const (
	// TopicSelectionChanged is published when the editor selection changes.
	TopicSelectionChanged topic.Topic = "selection.changed"

	// TopicCompositionStarted is published when an input method composition begins.
	TopicCompositionStarted topic.Topic = "selection.composition.started"

	// TopicCompositionEnded is published when a composition ends.
	TopicCompositionEnded topic.Topic = "selection.composition.ended"

	// TopicFocusGained is published when the host surface receives focus.
	TopicFocusGained topic.Topic = "focus.gained"

	// TopicFocusLost is published when the host surface loses focus.
	TopicFocusLost topic.Topic = "focus.lost"
)

// Source tags the origin of a selection change.
type Source string

const (
	// SourceHost marks changes read back from the host surface.
	SourceHost Source = "host"

	// SourceEdit marks changes produced by mapping through an edit.
	SourceEdit Source = "edit"

	// SourceCommand marks selections set explicitly by a command or plugin.
	SourceCommand Source = "command"
)

// SelectionChanged is the payload of TopicSelectionChanged.
type SelectionChanged struct {
	// Old is the selection before the change.
	Old selection.Selection

	// New is the selection after the change.
	New selection.Selection

	Source Source
}

// CompositionChanged is the payload of the composition topics.
type CompositionChanged struct {
	Active bool
}

// FocusChanged is the payload of the focus topics.
type FocusChanged struct {
	Focused bool
}
