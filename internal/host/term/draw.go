package term

import (
	"github.com/gdamore/tcell/v2"

	"github.com/bengler/prosemirror/internal/model"
)

// Styles are the styles the surface draws with.
type Styles struct {
	Text      tcell.Style
	Heading   tcell.Style
	Atom      tcell.Style
	Quote     tcell.Style
	Selection tcell.Style
	Node      tcell.Style
}

// DefaultStyles returns the default styles.
func DefaultStyles() Styles {
	return Styles{
		Text:      tcell.StyleDefault,
		Heading:   tcell.StyleDefault.Bold(true),
		Atom:      tcell.StyleDefault.Foreground(tcell.ColorTeal),
		Quote:     tcell.StyleDefault.Foreground(tcell.ColorGray),
		Selection: tcell.StyleDefault.Reverse(true),
		Node:      tcell.StyleDefault.Foreground(tcell.ColorYellow).Reverse(true),
	}
}

// Draw paints the document, the live selection and node marks, and
// places the cursor at the selection head when focused.
func (s *Surface) Draw() {
	s.screen.Clear()

	from, to, hasRange := s.liveRange()
	for _, r := range s.rows {
		for i := 0; i < r.indent; i += quoteIndent {
			s.screen.SetContent(i, r.y, '│', nil, s.styles.Quote)
		}
		if r.isText() {
			s.drawText(r, from, to, hasRange)
		} else {
			s.drawAtom(r, from, to, hasRange)
		}
	}

	s.screen.HideCursor()
	if s.focused && s.live != nil {
		if x, y, ok := s.cell(s.live.Head); ok {
			s.screen.ShowCursor(x, y)
		}
	}
	s.screen.Show()
}

func (s *Surface) drawText(r row, from, to model.Pos, hasRange bool) {
	style := s.styles.Text
	if r.el.node.Type == model.HeadingType {
		style = s.styles.Heading
		s.screen.SetContent(r.x-2, r.y, '#', nil, style)
	}
	for i, c := range r.runes {
		st := style
		if hasRange && from.Cmp(model.NewPos(r.el.path, i)) <= 0 && model.NewPos(r.el.path, i+1).Cmp(to) <= 0 {
			st = s.styles.Selection
		}
		s.screen.SetContent(r.x+r.cols[i], r.y, c, nil, st)
	}
}

func (s *Surface) drawAtom(r row, from, to model.Pos, hasRange bool) {
	style := s.styles.Atom
	parent, idx := r.el.path[:len(r.el.path)-1], r.el.path[len(r.el.path)-1]
	switch {
	case r.el.selected:
		style = s.styles.Node
	case hasRange && from.Cmp(model.NewPos(parent, idx)) <= 0 && model.NewPos(parent, idx+1).Cmp(to) <= 0:
		style = s.styles.Selection
	}
	x := r.x
	for _, c := range r.label {
		s.screen.SetContent(x, r.y, c, nil, style)
		x += runeWidth(c)
	}
}

// liveRange returns the live selection as ordered document positions.
func (s *Surface) liveRange() (from, to model.Pos, ok bool) {
	if s.live == nil || s.live.Collapsed() {
		return model.Pos{}, model.Pos{}, false
	}
	a, err := s.PosFromPoint(s.live.Anchor)
	if err != nil {
		return model.Pos{}, model.Pos{}, false
	}
	h, err := s.PosFromPoint(s.live.Head)
	if err != nil {
		return model.Pos{}, model.Pos{}, false
	}
	return model.MinPos(a, h), model.MaxPos(a, h), true
}
