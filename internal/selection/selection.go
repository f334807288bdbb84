package selection

import (
	"fmt"

	"github.com/bengler/prosemirror/internal/model"
)

// Mapping moves positions from an old document into a new one.
// *model.Mapping and model.StepMap implement it.
type Mapping interface {
	Map(pos model.Pos, bias int) model.MapResult
}

// Selection is a TextSelection or a NodeSelection.
type Selection interface {
	// From returns the lower bound.
	From() model.Pos

	// To returns the upper bound.
	To() model.Pos

	// Anchor returns the immobile end.
	Anchor() model.Pos

	// Head returns the mobile end.
	Head() model.Pos

	// Empty reports whether the selection covers nothing.
	Empty() bool

	// Eq reports whether other is the same variant with the same
	// endpoints.
	Eq(other Selection) bool

	// Map returns the selection moved through mapping into doc, re-resolved
	// if the mapped location is no longer valid for the variant.
	Map(doc *model.Node, mapping Mapping) (Selection, error)

	fmt.Stringer

	sealed()
}

// TextSelection selects a range of text between two textblock positions.
type TextSelection struct {
	anchor model.Pos
	head   model.Pos
}

// NewTextSelection creates a text selection from anchor to head.
func NewTextSelection(anchor, head model.Pos) *TextSelection {
	return &TextSelection{anchor: anchor, head: head}
}

// NewCaret creates an empty text selection at pos.
func NewCaret(pos model.Pos) *TextSelection {
	return &TextSelection{anchor: pos, head: pos}
}

func (s *TextSelection) sealed() {}

// Anchor returns where the selection started.
func (s *TextSelection) Anchor() model.Pos { return s.anchor }

// Head returns the moving end.
func (s *TextSelection) Head() model.Pos { return s.head }

// From returns the earlier endpoint.
func (s *TextSelection) From() model.Pos { return model.MinPos(s.anchor, s.head) }

// To returns the later endpoint.
func (s *TextSelection) To() model.Pos { return model.MaxPos(s.anchor, s.head) }

// Empty reports whether the selection is a caret.
func (s *TextSelection) Empty() bool { return s.anchor.Equal(s.head) }

// Inverted reports whether the head precedes the anchor.
func (s *TextSelection) Inverted() bool { return s.anchor.Cmp(s.head) > 0 }

// Eq requires an identical anchor and head.
func (s *TextSelection) Eq(other Selection) bool {
	o, ok := other.(*TextSelection)
	if !ok || o == nil {
		return false
	}
	return s.anchor.Equal(o.anchor) && s.head.Equal(o.head)
}

// Map maps the head first. If the head no longer lands in a textblock the
// anchor is dropped and the nearest valid selection is used; otherwise an
// anchor that left text collapses onto the head.
func (s *TextSelection) Map(doc *model.Node, mapping Mapping) (Selection, error) {
	head := mapping.Map(s.head, 0).Pos
	if !doc.InTextblock(head) {
		return FindSelectionNear(doc, head, 1, false)
	}
	anchor := mapping.Map(s.anchor, 0).Pos
	if !doc.InTextblock(anchor) {
		anchor = head
	}
	return NewTextSelection(anchor, head), nil
}

func (s *TextSelection) String() string {
	if s.Empty() {
		return fmt.Sprintf("Caret(%s)", s.head)
	}
	return fmt.Sprintf("Text(%s->%s)", s.anchor, s.head)
}

// NodeSelection selects a single node. To is one unit past From at the
// same level.
type NodeSelection struct {
	from model.Pos
	to   model.Pos
	node *model.Node
}

// NewNodeSelection creates a node selection. Use NodeSelectionAt to derive
// the bounds from a document.
func NewNodeSelection(from, to model.Pos, node *model.Node) *NodeSelection {
	return &NodeSelection{from: from, to: to, node: node}
}

// NodeSelectionAt selects the node that follows from in doc. It fails if
// there is no such node or it is not selectable.
func NodeSelectionAt(doc *model.Node, from model.Pos) (*NodeSelection, error) {
	parent := doc.NodeAt(from.Path)
	if parent == nil || parent.IsTextblock() {
		return nil, fmt.Errorf("select node at %s: %w", from, model.ErrInvalidPath)
	}
	node := parent.Child(from.Offset)
	if node == nil {
		return nil, fmt.Errorf("select node at %s: %w", from, model.ErrOutOfRange)
	}
	if !node.IsSelectable() {
		return nil, fmt.Errorf("select node at %s: %s is not selectable", from, node.Type.Name)
	}
	return NewNodeSelection(from, from.Shift(1), node), nil
}

func (s *NodeSelection) sealed() {}

// Node returns the selected node.
func (s *NodeSelection) Node() *model.Node { return s.node }

// From returns the position before the node.
func (s *NodeSelection) From() model.Pos { return s.from }

// To returns the position after the node.
func (s *NodeSelection) To() model.Pos { return s.to }

// Anchor returns From.
func (s *NodeSelection) Anchor() model.Pos { return s.from }

// Head returns To.
func (s *NodeSelection) Head() model.Pos { return s.to }

// Empty is always false.
func (s *NodeSelection) Empty() bool { return false }

// Eq compares only From. The node is implied by its position.
func (s *NodeSelection) Eq(other Selection) bool {
	o, ok := other.(*NodeSelection)
	if !ok || o == nil {
		return false
	}
	return s.from.Equal(o.from)
}

// Map keeps the selection if the mapped bounds still span one selectable
// node, and falls back to the nearest valid selection otherwise.
func (s *NodeSelection) Map(doc *model.Node, mapping Mapping) (Selection, error) {
	from := mapping.Map(s.from, 1).Pos
	to := mapping.Map(s.to, -1).Pos
	if from.Path.Equal(to.Path) && to.Offset == from.Offset+1 {
		if node := doc.NodeAt(from.Path).Child(from.Offset); node.IsSelectable() {
			return NewNodeSelection(from, to, node), nil
		}
	}
	return FindSelectionNear(doc, from, 1, false)
}

func (s *NodeSelection) String() string {
	name := "?"
	if s.node != nil && s.node.Type != nil {
		name = s.node.Type.Name
	}
	return fmt.Sprintf("Node(%s %s)", s.from, name)
}

// IsValid reports whether sel satisfies its variant's invariant in doc.
func IsValid(doc *model.Node, sel Selection) bool {
	switch s := sel.(type) {
	case *TextSelection:
		return doc.InTextblock(s.anchor) && doc.InTextblock(s.head)
	case *NodeSelection:
		if !s.from.Path.Equal(s.to.Path) || s.to.Offset != s.from.Offset+1 {
			return false
		}
		parent := doc.NodeAt(s.from.Path)
		if parent.IsTextblock() {
			return false
		}
		return parent.Child(s.from.Offset).IsSelectable()
	default:
		return false
	}
}
