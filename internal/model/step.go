package model

import (
	"fmt"
	"unicode/utf8"
)

// Step is a single structural or textual edit.
type Step interface {
	// Apply produces the edited document and the map describing how
	// positions moved. doc is not modified.
	Apply(doc *Node) (*Node, StepMap, error)

	fmt.Stringer
}

// ReplaceStep replaces children [From, To) of the container at Path with
// Nodes.
type ReplaceStep struct {
	Path  Path
	From  int
	To    int
	Nodes []*Node
}

// Apply implements Step.
func (s ReplaceStep) Apply(doc *Node) (*Node, StepMap, error) {
	out, err := updateAt(doc, s.Path, func(n *Node) (*Node, error) {
		if n.IsTextblock() {
			return nil, ErrNotContainer
		}
		if s.From < 0 || s.From > s.To || s.To > len(n.Children) {
			return nil, ErrOutOfRange
		}
		children := make([]*Node, 0, len(n.Children)-(s.To-s.From)+len(s.Nodes))
		children = append(children, n.Children[:s.From]...)
		children = append(children, s.Nodes...)
		children = append(children, n.Children[s.To:]...)
		return n.withChildren(children), nil
	})
	if err != nil {
		return nil, StepMap{}, &StepError{Step: s, Err: err}
	}
	return out, StepMap{Path: s.Path.Clone(), From: s.From, To: s.To, NewSize: len(s.Nodes)}, nil
}

func (s ReplaceStep) String() string {
	return fmt.Sprintf("replace %s[%d:%d] with %d node(s)", s.Path, s.From, s.To, len(s.Nodes))
}

// TextStep replaces runes [From, To) of the textblock at Path with Text.
type TextStep struct {
	Path Path
	From int
	To   int
	Text string
}

// Apply implements Step.
func (s TextStep) Apply(doc *Node) (*Node, StepMap, error) {
	out, err := updateAt(doc, s.Path, func(n *Node) (*Node, error) {
		if !n.IsTextblock() {
			return nil, ErrNotTextblock
		}
		runes := []rune(n.Text)
		if s.From < 0 || s.From > s.To || s.To > len(runes) {
			return nil, ErrOutOfRange
		}
		text := string(runes[:s.From]) + s.Text + string(runes[s.To:])
		return n.withText(text), nil
	})
	if err != nil {
		return nil, StepMap{}, &StepError{Step: s, Err: err}
	}
	return out, StepMap{
		Path:    s.Path.Clone(),
		From:    s.From,
		To:      s.To,
		NewSize: utf8.RuneCountInString(s.Text),
		Text:    true,
	}, nil
}

func (s TextStep) String() string {
	return fmt.Sprintf("text %s[%d:%d] = %q", s.Path, s.From, s.To, s.Text)
}

// updateAt rebuilds the spine of root along path, replacing the node at
// the end of the path with the result of fn.
func updateAt(root *Node, path Path, fn func(*Node) (*Node, error)) (*Node, error) {
	if root == nil {
		return nil, ErrInvalidPath
	}
	if len(path) == 0 {
		return fn(root)
	}
	i := path[0]
	child := root.Child(i)
	if child == nil {
		return nil, ErrInvalidPath
	}
	updated, err := updateAt(child, path[1:], fn)
	if err != nil {
		return nil, err
	}
	children := make([]*Node, len(root.Children))
	copy(children, root.Children)
	children[i] = updated
	return root.withChildren(children), nil
}
