// Package hosttest provides an in-memory host.Host for tests.
//
// Surface renders one Element per document node, keyed by path, so points
// are simply (element, offset) pairs. It records every write and mapper
// call so tests can assert on what the state machine did to the host.
package hosttest

import (
	"fmt"

	"github.com/bengler/prosemirror/internal/host"
	"github.com/bengler/prosemirror/internal/model"
)

// Element is the render node for one document node.
type Element struct {
	Path     model.Path
	Selected bool

	attached bool
}

func (e *Element) String() string {
	return "el(" + e.Path.String() + ")"
}

// Counters tallies calls made against the surface.
type Counters struct {
	RemoveAll   int
	AddRange    int
	Extend      int
	Focus       int
	PosLookups  int
	MarkChanges int
}

// Writes returns the number of calls that changed the live selection.
func (c Counters) Writes() int {
	return c.RemoveAll + c.AddRange + c.Extend
}

// Surface is a fake host.
type Surface struct {
	elements  map[string]*Element
	live      *host.Snapshot
	focused   bool
	canExtend bool

	// FailPointFor makes PointFromPos fail for matching positions.
	FailPointFor func(model.Pos) bool

	Calls Counters

	// Ops lists selection and focus writes in call order.
	Ops []string
}

var _ host.Host = (*Surface)(nil)

// New renders doc into a focused surface that supports Extend.
func New(doc *model.Node) *Surface {
	s := &Surface{elements: make(map[string]*Element), focused: true, canExtend: true}
	s.Render(doc)
	return s
}

// Render re-renders the document. Elements whose path still exists are
// reused; the rest are detached.
func (s *Surface) Render(doc *model.Node) {
	for _, el := range s.elements {
		el.attached = false
	}
	var walk func(n *model.Node, path model.Path)
	walk = func(n *model.Node, path model.Path) {
		key := path.String()
		el, ok := s.elements[key]
		if !ok {
			el = &Element{Path: path.Clone()}
			s.elements[key] = el
		}
		el.attached = true
		if n.IsTextblock() {
			return
		}
		for i := 0; i < n.ChildCount(); i++ {
			walk(n.Child(i), path.Child(i))
		}
	}
	walk(doc, model.Path{})
	for key, el := range s.elements {
		if !el.attached {
			delete(s.elements, key)
		}
	}
}

// SetFocus changes focus without counting it as a Focus call.
func (s *Surface) SetFocus(focused bool) {
	s.focused = focused
}

// SetCanExtend toggles directional extend support.
func (s *Surface) SetCanExtend(ok bool) {
	s.canExtend = ok
}

// UserSelect simulates the user moving the native selection.
func (s *Surface) UserSelect(anchor, head model.Pos) {
	s.live = &host.Snapshot{Anchor: s.mustPoint(anchor), Head: s.mustPoint(head)}
}

// ClearLive drops the native selection without counting a write.
func (s *Surface) ClearLive() {
	s.live = nil
}

// Point returns the render point for pos, panicking if there is none.
func (s *Surface) Point(pos model.Pos) host.Point {
	return s.mustPoint(pos)
}

// Element returns the element rendered at path, or nil.
func (s *Surface) Element(path model.Path) *Element {
	return s.elements[path.String()]
}

// Marked returns the elements currently marked node-selected.
func (s *Surface) Marked() []*Element {
	var out []*Element
	for _, el := range s.elements {
		if el.Selected {
			out = append(out, el)
		}
	}
	return out
}

// ResetCalls zeroes the counters and the op log.
func (s *Surface) ResetCalls() {
	s.Calls = Counters{}
	s.Ops = nil
}

func (s *Surface) Selection() (host.Snapshot, bool) {
	if s.live == nil {
		return host.Snapshot{}, false
	}
	return *s.live, true
}

func (s *Surface) RemoveAllRanges() {
	s.Calls.RemoveAll++
	s.Ops = append(s.Ops, "removeAll")
	s.live = nil
}

func (s *Surface) AddRange(start, end host.Point) {
	s.Calls.AddRange++
	s.Ops = append(s.Ops, "addRange")
	s.live = &host.Snapshot{Anchor: start, Head: end}
}

func (s *Surface) CanExtend() bool {
	return s.canExtend
}

func (s *Surface) Extend(p host.Point) {
	s.Calls.Extend++
	s.Ops = append(s.Ops, "extend")
	if !s.canExtend {
		panic("hosttest: Extend called on a surface without extend support")
	}
	if s.live != nil {
		s.live.Head = p
	}
}

func (s *Surface) HasFocus() bool {
	return s.focused
}

func (s *Surface) Focus() {
	s.Calls.Focus++
	s.Ops = append(s.Ops, "focus")
	s.focused = true
}

func (s *Surface) SetNodeSelected(n host.Node, selected bool) {
	s.Calls.MarkChanges++
	if el, ok := n.(*Element); ok {
		el.Selected = selected
	}
}

func (s *Surface) PosFromPoint(p host.Point) (model.Pos, error) {
	s.Calls.PosLookups++
	el, ok := p.Node.(*Element)
	if !ok || !el.attached {
		return model.Pos{}, host.ErrDetached
	}
	return model.NewPos(el.Path, p.Offset), nil
}

func (s *Surface) PointFromPos(pos model.Pos) (host.Point, error) {
	if s.FailPointFor != nil && s.FailPointFor(pos) {
		return host.Point{}, fmt.Errorf("%w: %s", host.ErrNoElement, pos)
	}
	el := s.elements[pos.Path.String()]
	if el == nil {
		return host.Point{}, fmt.Errorf("%w: %s", host.ErrNoElement, pos)
	}
	return host.Point{Node: el, Offset: pos.Offset}, nil
}

func (s *Surface) ElementAt(pos model.Pos) (host.Node, error) {
	el := s.elements[pos.Path.Child(pos.Offset).String()]
	if el == nil {
		return nil, fmt.Errorf("%w: %s", host.ErrNoElement, pos)
	}
	return el, nil
}

func (s *Surface) mustPoint(pos model.Pos) host.Point {
	p, err := s.PointFromPos(pos)
	if err != nil {
		panic(err)
	}
	return p
}
