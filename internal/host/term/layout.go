package term

import (
	"strings"

	"github.com/rivo/uniseg"

	"github.com/bengler/prosemirror/internal/host"
	"github.com/bengler/prosemirror/internal/model"
)

const (
	quoteIndent = 2
	ruleWidth   = 12
)

// row is one screen line. Text rows hold one textblock; block rows hold
// one atom.
type row struct {
	el     *element
	y      int
	x      int
	indent int

	// runes and cols describe text rows: cols[i] is the column of the
	// boundary before runes[i], and cols[len(runes)] the end of the text.
	runes []rune
	cols  []int

	// label is drawn for atom rows.
	label string
}

func (r row) isText() bool {
	return r.el.node.IsTextblock()
}

func (s *Surface) layout(n *model.Node, path model.Path, indent int) {
	el := s.element(path, n)
	switch {
	case n.IsTextblock():
		x := indent
		if n.Type == model.HeadingType {
			x += 2
		}
		r := row{el: el, y: len(s.rows), x: x, indent: indent, runes: []rune(n.Text)}
		r.cols = make([]int, len(r.runes)+1)
		for i, c := range r.runes {
			r.cols[i+1] = r.cols[i] + runeWidth(c)
		}
		s.rows = append(s.rows, r)
	case n.IsAtom():
		s.rows = append(s.rows, row{el: el, y: len(s.rows), x: indent, indent: indent, label: atomLabel(n)})
	default:
		inner := indent
		if n.Type == model.BlockquoteType {
			inner += quoteIndent
		}
		for i := 0; i < n.ChildCount(); i++ {
			s.layout(n.Child(i), path.Child(i), inner)
		}
	}
}

func atomLabel(n *model.Node) string {
	switch n.Type {
	case model.ImageType:
		return "[image " + n.Attrs["src"] + "]"
	case model.RuleType:
		return strings.Repeat("─", ruleWidth)
	default:
		return "[" + n.Type.Name + "]"
	}
}

func runeWidth(r rune) int {
	if w := uniseg.StringWidth(string(r)); w > 0 {
		return w
	}
	return 1
}

// hit maps a screen cell to a host point. Text rows resolve to the
// nearest rune boundary; atom rows resolve to the position before the
// atom in its parent.
func (s *Surface) hit(x, y int) (host.Point, bool) {
	if y < 0 || y >= len(s.rows) {
		return host.Point{}, false
	}
	r := s.rows[y]
	if !r.isText() {
		parent, ok := s.elements[r.el.path[:len(r.el.path)-1].String()]
		if !ok {
			return host.Point{}, false
		}
		return host.Point{Node: parent, Offset: r.el.path[len(r.el.path)-1]}, true
	}

	rel := x - r.x
	offset := 0
	for i := 1; i < len(r.cols); i++ {
		mid := (r.cols[i-1] + r.cols[i] + 1) / 2
		if rel >= mid {
			offset = i
		}
	}
	return host.Point{Node: r.el, Offset: offset}, true
}

// cell returns the screen cell of a text point.
func (s *Surface) cell(p host.Point) (x, y int, ok bool) {
	el, isEl := p.Node.(*element)
	if !isEl {
		return 0, 0, false
	}
	for _, r := range s.rows {
		if r.el != el || !r.isText() {
			continue
		}
		if p.Offset < 0 || p.Offset >= len(r.cols) {
			return 0, 0, false
		}
		return r.x + r.cols[p.Offset], r.y, true
	}
	return 0, 0, false
}
