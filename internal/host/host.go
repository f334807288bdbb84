// Package host defines the port between the selection state machine and the
// presentation surface that owns the native selection.
//
// A host exposes its live selection as a pair of opaque (render node,
// offset) points. The state machine never inspects render nodes; it hands
// them to a Mapper to translate to and from document positions.
package host

import (
	"errors"

	"github.com/bengler/prosemirror/internal/model"
)

var (
	// ErrNoElement is returned when no rendered element exists for a position.
	ErrNoElement = errors.New("host: no rendered element")

	// ErrDetached is returned when a point refers to a render node that is
	// no longer part of the rendered document.
	ErrDetached = errors.New("host: render node detached")
)

// Node is an opaque render node handle. Implementations must use comparable
// values so points can be compared with ==.
type Node any

// Point is a location in the rendered output.
type Point struct {
	Node   Node
	Offset int
}

// IsZero reports whether the point is unset.
func (p Point) IsZero() bool {
	return p.Node == nil && p.Offset == 0
}

// Snapshot is the native selection as last seen: anchor and head points.
type Snapshot struct {
	Anchor Point
	Head   Point
}

// Equal reports whether both endpoints match, direction included.
func (s Snapshot) Equal(other Snapshot) bool {
	return s.Anchor == other.Anchor && s.Head == other.Head
}

// SameRange reports whether the snapshots cover the same endpoints in
// either direction.
func (s Snapshot) SameRange(other Snapshot) bool {
	return s.Equal(other) || (s.Anchor == other.Head && s.Head == other.Anchor)
}

// Collapsed reports whether anchor and head coincide.
func (s Snapshot) Collapsed() bool {
	return s.Anchor == s.Head
}

// Surface is the live selection and focus state of the presentation layer.
type Surface interface {
	// Selection returns the live native selection. ok is false when there
	// is no selection inside the editor.
	Selection() (snap Snapshot, ok bool)

	// RemoveAllRanges clears the live selection.
	RemoveAllRanges()

	// AddRange installs a forward range from start to end.
	AddRange(start, end Point)

	// CanExtend reports whether Extend is supported, which allows backward
	// selections to be installed with their direction intact.
	CanExtend() bool

	// Extend moves the head of the live selection to p.
	Extend(p Point)

	// HasFocus reports whether the editor holds input focus.
	HasFocus() bool

	// Focus moves input focus to the editor.
	Focus()

	// SetNodeSelected marks or unmarks the rendered element n as the
	// node-selected element.
	SetNodeSelected(n Node, selected bool)
}

// Mapper translates between document positions and render points.
type Mapper interface {
	PosFromPoint(p Point) (model.Pos, error)
	PointFromPos(pos model.Pos) (Point, error)

	// ElementAt returns the rendered element for the child unit that
	// starts at pos.
	ElementAt(pos model.Pos) (Node, error)
}

// Host is a Surface that can also map positions.
type Host interface {
	Surface
	Mapper
}
