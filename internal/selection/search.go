package selection

import "github.com/bengler/prosemirror/internal/model"

// FindSelectionIn searches the node at path, starting at offset and moving
// in dir (+1 forward, -1 backward). A textblock yields a caret at offset
// immediately. Otherwise each child unit is tried in turn: selectable atoms
// become node selections (unless textOnly), anything else is searched from
// its near edge. It returns nil if nothing in the remaining range of the
// node is selectable.
func FindSelectionIn(doc *model.Node, path model.Path, offset, dir int, textOnly bool) Selection {
	node := doc.NodeAt(path)
	if node == nil {
		return nil
	}
	dir = direction(dir)
	offset = clamp(offset, 0, node.Size())
	if node.IsTextblock() {
		return NewCaret(model.NewPos(path, offset))
	}

	i := offset
	if dir < 0 {
		i--
	}
	for ; i >= 0 && i < node.ChildCount(); i += dir {
		child := node.Child(i)
		if !textOnly && child.IsAtom() && child.IsSelectable() {
			return NewNodeSelection(model.NewPos(path, i), model.NewPos(path, i+1), child)
		}
		inner := 0
		if dir < 0 {
			inner = child.Size()
		}
		if found := FindSelectionIn(doc, path.Child(i), inner, dir, textOnly); found != nil {
			return found
		}
	}
	return nil
}

// FindSelectionFrom searches from pos in dir, backing out one level at a
// time until a selection is found or the root is exhausted. A caret
// sitting on the edge of its textblock that faces dir has nowhere left to
// go inside that textblock, so the search starts in the parent just past
// it. It returns nil if nothing is found.
func FindSelectionFrom(doc *model.Node, pos model.Pos, dir int, textOnly bool) Selection {
	dir = direction(dir)
	path := pos.Path.Clone()
	offset := pos.Offset

	if node := doc.NodeAt(path); node.IsTextblock() && len(path) > 0 && atEdge(node, offset, dir) {
		path, offset = backOut(path, dir)
	}
	for {
		if found := FindSelectionIn(doc, path, offset, dir, textOnly); found != nil {
			return found
		}
		if len(path) == 0 {
			return nil
		}
		path, offset = backOut(path, dir)
	}
}

// FindSelectionNear returns the valid selection closest to pos, searching
// first in the direction of bias and then the other way. A position that
// already lies in a textblock resolves to a caret there.
func FindSelectionNear(doc *model.Node, pos model.Pos, bias int, textOnly bool) (Selection, error) {
	if doc.InTextblock(pos) {
		return NewCaret(pos), nil
	}
	bias = direction(bias)
	if found := FindSelectionFrom(doc, pos, bias, textOnly); found != nil {
		return found, nil
	}
	if found := FindSelectionFrom(doc, pos, -bias, textOnly); found != nil {
		return found, nil
	}
	return nil, resolutionFailure(pos)
}

// FindSelectionAtStart returns the first valid selection inside the node
// at path.
func FindSelectionAtStart(doc *model.Node, path model.Path, textOnly bool) (Selection, error) {
	if found := FindSelectionIn(doc, path, 0, 1, textOnly); found != nil {
		return found, nil
	}
	return nil, resolutionFailure(model.NewPos(path, 0))
}

// FindSelectionAtEnd returns the last valid selection inside the node at
// path.
func FindSelectionAtEnd(doc *model.Node, path model.Path, textOnly bool) (Selection, error) {
	size := doc.NodeAt(path).Size()
	if found := FindSelectionIn(doc, path, size, -1, textOnly); found != nil {
		return found, nil
	}
	return nil, resolutionFailure(model.NewPos(path, size))
}

// backOut moves from inside the last path segment to the parent, just past
// that segment in dir.
func backOut(path model.Path, dir int) (model.Path, int) {
	last := path[len(path)-1]
	parent := path[:len(path)-1:len(path)-1]
	if dir > 0 {
		return parent, last + 1
	}
	return parent, last
}

func atEdge(node *model.Node, offset, dir int) bool {
	if dir > 0 {
		return offset >= node.Size()
	}
	return offset <= 0
}

func direction(dir int) int {
	if dir < 0 {
		return -1
	}
	return 1
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
