// Package term is a host surface that renders the document to a tcell
// screen and keeps its own native selection, which the user changes by
// clicking and dragging.
//
// The surface mirrors the browser model the selection state machine is
// written against: the live selection is owned by the surface, the state
// machine reads it back and writes it through the host.Surface methods,
// and node selections are shown by styling the selected element.
//
// A Surface is not safe for concurrent use. Drive it from the event loop.
package term

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/bengler/prosemirror/internal/host"
	"github.com/bengler/prosemirror/internal/model"
)

// element is the rendered form of one document node. Elements are reused
// across renders while their path exists.
type element struct {
	path     model.Path
	node     *model.Node
	selected bool
	attached bool
}

func (e *element) String() string {
	return fmt.Sprintf("<%s %s>", e.node.Type.Name, e.path)
}

// Option configures a Surface.
type Option func(*Surface)

// WithStyles sets the drawing styles.
func WithStyles(st Styles) Option {
	return func(s *Surface) {
		s.styles = st
	}
}

// WithExtend sets whether the surface supports directional selections.
// Without it every selection is stored forward.
func WithExtend(ok bool) Option {
	return func(s *Surface) {
		s.canExtend = ok
	}
}

// Surface implements host.Host on a terminal screen.
type Surface struct {
	screen tcell.Screen
	styles Styles

	elements map[string]*element
	rows     []row

	live      *host.Snapshot
	focused   bool
	canExtend bool
	dragging  bool
}

var _ host.Host = (*Surface)(nil)

// New creates a surface drawing on screen. The screen must already be
// initialized.
func New(screen tcell.Screen, opts ...Option) *Surface {
	s := &Surface{
		screen:    screen,
		styles:    DefaultStyles(),
		elements:  make(map[string]*element),
		focused:   true,
		canExtend: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Render lays out doc. Elements whose path still exists are kept, so
// selection marks survive edits elsewhere; the rest are detached.
func (s *Surface) Render(doc *model.Node) {
	for _, el := range s.elements {
		el.attached = false
	}
	s.rows = s.rows[:0]
	s.layout(doc, model.Path{}, 0)
	for key, el := range s.elements {
		if !el.attached {
			delete(s.elements, key)
		}
	}
}

func (s *Surface) element(path model.Path, node *model.Node) *element {
	key := path.String()
	el, ok := s.elements[key]
	if !ok || el.node.Type != node.Type {
		el = &element{path: path.Clone()}
		s.elements[key] = el
	}
	el.node = node
	el.attached = true
	return el
}

// Selection implements host.Surface.
func (s *Surface) Selection() (host.Snapshot, bool) {
	if s.live == nil {
		return host.Snapshot{}, false
	}
	return *s.live, true
}

// RemoveAllRanges implements host.Surface.
func (s *Surface) RemoveAllRanges() {
	s.live = nil
}

// AddRange implements host.Surface.
func (s *Surface) AddRange(start, end host.Point) {
	s.live = &host.Snapshot{Anchor: start, Head: end}
}

// CanExtend implements host.Surface.
func (s *Surface) CanExtend() bool {
	return s.canExtend
}

// Extend implements host.Surface.
func (s *Surface) Extend(p host.Point) {
	if s.live == nil {
		s.live = &host.Snapshot{Anchor: p, Head: p}
		return
	}
	s.live.Head = p
}

// HasFocus implements host.Surface.
func (s *Surface) HasFocus() bool {
	return s.focused
}

// Focus implements host.Surface.
func (s *Surface) Focus() {
	s.focused = true
}

// SetNodeSelected implements host.Surface.
func (s *Surface) SetNodeSelected(n host.Node, selected bool) {
	if el, ok := n.(*element); ok {
		el.selected = selected
	}
}

// PosFromPoint implements host.Mapper.
func (s *Surface) PosFromPoint(p host.Point) (model.Pos, error) {
	el, ok := p.Node.(*element)
	if !ok || !el.attached || s.elements[el.path.String()] != el {
		return model.Pos{}, fmt.Errorf("point %v: %w", p.Node, host.ErrDetached)
	}
	return model.NewPos(el.path, p.Offset), nil
}

// PointFromPos implements host.Mapper.
func (s *Surface) PointFromPos(pos model.Pos) (host.Point, error) {
	el, ok := s.elements[pos.Path.String()]
	if !ok {
		return host.Point{}, fmt.Errorf("position %s: %w", pos, host.ErrNoElement)
	}
	return host.Point{Node: el, Offset: pos.Offset}, nil
}

// ElementAt implements host.Mapper.
func (s *Surface) ElementAt(pos model.Pos) (host.Node, error) {
	el, ok := s.elements[pos.Path.Child(pos.Offset).String()]
	if !ok {
		return nil, fmt.Errorf("node at %s: %w", pos, host.ErrNoElement)
	}
	return el, nil
}
