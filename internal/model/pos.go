package model

import (
	"strconv"
	"strings"
)

// Path is a sequence of child indices leading from the root to a node.
type Path []int

// Clone returns an independent copy of the path.
func (p Path) Clone() Path {
	if p == nil {
		return nil
	}
	c := make(Path, len(p))
	copy(c, p)
	return c
}

// Child returns a new path extended by index i. The receiver is not
// modified.
func (p Path) Child(i int) Path {
	c := make(Path, len(p)+1)
	copy(c, p)
	c[len(p)] = i
	return c
}

// Equal reports whether two paths are identical.
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether prefix is a leading part of p.
func (p Path) HasPrefix(prefix Path) bool {
	if len(prefix) > len(p) {
		return false
	}
	return p[:len(prefix)].Equal(prefix)
}

// String renders the path as "0/2/1".
func (p Path) String() string {
	parts := make([]string, len(p))
	for i, v := range p {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, "/")
}

// Pos identifies a location in a document: the node reached by Path and an
// offset inside it. Pos is an immutable value type.
type Pos struct {
	Path   Path
	Offset int
}

// NewPos creates a position. The path is copied.
func NewPos(path Path, offset int) Pos {
	return Pos{Path: path.Clone(), Offset: offset}
}

// Cmp compares two positions in document order and returns -1, 0 or 1.
//
// When one path ends where the other continues into child i, the shorter
// position sorts before that child when its offset is <= i.
func (p Pos) Cmp(other Pos) int {
	n := len(p.Path)
	if len(other.Path) < n {
		n = len(other.Path)
	}
	for i := 0; i < n; i++ {
		if p.Path[i] != other.Path[i] {
			return sign(p.Path[i] - other.Path[i])
		}
	}
	switch {
	case len(p.Path) == len(other.Path):
		return sign(p.Offset - other.Offset)
	case len(p.Path) < len(other.Path):
		if p.Offset <= other.Path[n] {
			return -1
		}
		return 1
	default:
		if other.Offset <= p.Path[n] {
			return 1
		}
		return -1
	}
}

// Equal reports whether two positions are identical.
func (p Pos) Equal(other Pos) bool {
	return p.Offset == other.Offset && p.Path.Equal(other.Path)
}

// Before reports whether p sorts strictly before other.
func (p Pos) Before(other Pos) bool {
	return p.Cmp(other) < 0
}

// Shift returns a position at the same level moved by delta units.
func (p Pos) Shift(delta int) Pos {
	return Pos{Path: p.Path.Clone(), Offset: p.Offset + delta}
}

// Depth returns the number of path segments.
func (p Pos) Depth() int {
	return len(p.Path)
}

// String renders the position as "0/2:5".
func (p Pos) String() string {
	return p.Path.String() + ":" + strconv.Itoa(p.Offset)
}

// MinPos returns the earlier of two positions.
func MinPos(a, b Pos) Pos {
	if a.Cmp(b) <= 0 {
		return a
	}
	return b
}

// MaxPos returns the later of two positions.
func MaxPos(a, b Pos) Pos {
	if a.Cmp(b) >= 0 {
		return a
	}
	return b
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	default:
		return 0
	}
}
