package model

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// NodeType describes how a node participates in the document structure.
type NodeType struct {
	// Name identifies the type (e.g., "paragraph", "image").
	Name string

	// Textblock marks a text-bearing leaf. Cursors live inside textblocks.
	Textblock bool

	// Atom marks a leaf without any content.
	Atom bool

	// Selectable marks nodes that may be the target of a node selection.
	Selectable bool
}

// Common node types.
var (
	DocType        = &NodeType{Name: "doc"}
	ParagraphType  = &NodeType{Name: "paragraph", Textblock: true}
	HeadingType    = &NodeType{Name: "heading", Textblock: true}
	BlockquoteType = &NodeType{Name: "blockquote", Selectable: true}
	ImageType      = &NodeType{Name: "image", Atom: true, Selectable: true}
	RuleType       = &NodeType{Name: "horizontal_rule", Atom: true, Selectable: true}
)

// Node is an immutable document tree node.
type Node struct {
	Type     *NodeType
	Text     string
	Children []*Node
	Attrs    map[string]string
}

// NewNode creates a container node with the given children.
func NewNode(t *NodeType, children ...*Node) *Node {
	return &Node{Type: t, Children: children}
}

// NewTextblock creates a textblock node holding text.
func NewTextblock(t *NodeType, text string) *Node {
	return &Node{Type: t, Text: text}
}

// Doc creates a document root.
func Doc(children ...*Node) *Node {
	return NewNode(DocType, children...)
}

// Paragraph creates a paragraph textblock.
func Paragraph(text string) *Node {
	return NewTextblock(ParagraphType, text)
}

// Heading creates a heading textblock.
func Heading(text string) *Node {
	return NewTextblock(HeadingType, text)
}

// Blockquote creates a selectable container.
func Blockquote(children ...*Node) *Node {
	return NewNode(BlockquoteType, children...)
}

// Image creates a selectable atom.
func Image(src string) *Node {
	return &Node{Type: ImageType, Attrs: map[string]string{"src": src}}
}

// Rule creates a horizontal rule atom.
func Rule() *Node {
	return &Node{Type: RuleType}
}

// IsTextblock reports whether the node is a text-bearing leaf.
func (n *Node) IsTextblock() bool {
	return n != nil && n.Type != nil && n.Type.Textblock
}

// IsAtom reports whether the node is a leaf without content.
func (n *Node) IsAtom() bool {
	return n != nil && n.Type != nil && n.Type.Atom
}

// IsSelectable reports whether the node can be node-selected.
func (n *Node) IsSelectable() bool {
	return n != nil && n.Type != nil && n.Type.Selectable
}

// Size returns the number of units inside the node: runes for a
// textblock, children otherwise.
func (n *Node) Size() int {
	if n == nil {
		return 0
	}
	if n.IsTextblock() {
		return utf8.RuneCountInString(n.Text)
	}
	return len(n.Children)
}

// ChildCount returns the number of children.
func (n *Node) ChildCount() int {
	if n == nil {
		return 0
	}
	return len(n.Children)
}

// Child returns child i, or nil if out of range.
func (n *Node) Child(i int) *Node {
	if n == nil || i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// NodeAt follows path from n and returns the node it leads to, or nil if
// the path does not exist.
func (n *Node) NodeAt(path Path) *Node {
	cur := n
	for _, i := range path {
		cur = cur.Child(i)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// Contains reports whether pos lies inside the tree rooted at n.
func (n *Node) Contains(pos Pos) bool {
	node := n.NodeAt(pos.Path)
	if node == nil {
		return false
	}
	return pos.Offset >= 0 && pos.Offset <= node.Size()
}

// InTextblock reports whether pos lies inside a textblock of n.
func (n *Node) InTextblock(pos Pos) bool {
	node := n.NodeAt(pos.Path)
	return node.IsTextblock() && pos.Offset >= 0 && pos.Offset <= node.Size()
}

// withChildren returns a shallow copy of n with its children replaced.
func (n *Node) withChildren(children []*Node) *Node {
	c := *n
	c.Children = children
	return &c
}

// withText returns a shallow copy of n with its text replaced.
func (n *Node) withText(text string) *Node {
	c := *n
	c.Text = text
	return &c
}

// String returns a compact representation for debugging and tests,
// e.g. doc(paragraph("ab"), image, paragraph("cd")).
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	var b strings.Builder
	n.write(&b)
	return b.String()
}

func (n *Node) write(b *strings.Builder) {
	b.WriteString(n.Type.Name)
	switch {
	case n.IsTextblock():
		fmt.Fprintf(b, "(%q)", n.Text)
	case len(n.Children) > 0:
		b.WriteByte('(')
		for i, c := range n.Children {
			if i > 0 {
				b.WriteString(", ")
			}
			c.write(b)
		}
		b.WriteByte(')')
	}
}
