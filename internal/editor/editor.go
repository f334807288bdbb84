// Package editor is the editing-operation pipeline.
//
// Every document change goes through Apply, which brackets the change with
// the selection state machine's before and after hooks: pending host
// selection changes are folded in first, the document is changed, the
// host re-renders, and only then is the selection mapped into the new
// document and written back.
package editor

import (
	"errors"
	"fmt"

	"github.com/bengler/prosemirror/internal/event/events"
	"github.com/bengler/prosemirror/internal/logging"
	"github.com/bengler/prosemirror/internal/model"
	"github.com/bengler/prosemirror/internal/reconcile"
	"github.com/bengler/prosemirror/internal/selection"
)

// ErrCrossBlock is returned by text commands whose selection spans more
// than one textblock.
var ErrCrossBlock = errors.New("editor: selection spans several blocks")

// Renderer redraws the host after the document changed.
type Renderer func(doc *model.Node)

// Option configures an Editor.
type Option func(*Editor)

// WithRenderer sets the function that re-renders the host.
func WithRenderer(r Renderer) Option {
	return func(e *Editor) {
		e.render = r
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(e *Editor) {
		if l != nil {
			e.log = l
		}
	}
}

// Editor applies edits and selection commands to one document.
type Editor struct {
	state  *reconcile.State
	render Renderer
	log    *logging.Logger
}

// New creates an editor around state.
func New(state *reconcile.State, opts ...Option) *Editor {
	e := &Editor{state: state, log: logging.Null()}
	for _, opt := range opts {
		opt(e)
	}
	e.log = e.log.WithComponent("editor")
	return e
}

// Doc returns the current document.
func (e *Editor) Doc() *model.Node {
	return e.state.Doc()
}

// Selection returns the current selection.
func (e *Editor) Selection() selection.Selection {
	return e.state.Selection()
}

// State returns the selection state machine.
func (e *Editor) State() *reconcile.State {
	return e.state
}

// Apply runs fn against a transform of the current document. If fn fails,
// makes no change, or leaves no valid selection, the document is left as
// it was.
func (e *Editor) Apply(fn func(tr *model.Transform) error) error {
	e.state.BeforeEditOperation()
	old := e.state.Doc()
	tr := model.NewTransform(old)
	if err := fn(tr); err != nil {
		e.state.CancelEditOperation()
		return err
	}
	if !tr.DocChanged() {
		e.state.CancelEditOperation()
		return nil
	}
	e.rerender(tr.Doc())
	if err := e.state.AfterEditOperation(tr.Doc(), tr.Mapping()); err != nil {
		e.rerender(old)
		e.state.CommitToHost(false)
		return err
	}
	e.log.Debug("applied %d steps", len(tr.Steps()))
	return nil
}

func (e *Editor) rerender(doc *model.Node) {
	if e.render != nil {
		e.render(doc)
	}
}

// SetSelection replaces the selection and writes it to the host.
func (e *Editor) SetSelection(sel selection.Selection, takeFocus bool) error {
	if sel == nil || !selection.IsValid(e.Doc(), sel) {
		return fmt.Errorf("%w: %v", reconcile.ErrInvalidSelection, sel)
	}
	e.state.SetAndSignal(sel, events.SourceCommand)
	e.state.CommitToHost(takeFocus)
	return nil
}

// Move moves the selection one step in dir. Inside text the caret moves by
// one character; at a textblock edge, or from a node selection, it moves
// to the next valid selection. A non-empty text selection collapses to its
// edge in dir. It does nothing at the document edge.
func (e *Editor) Move(dir int, textOnly bool) {
	doc := e.Doc()
	var next selection.Selection
	var leftText *model.Pos

	switch sel := e.Selection().(type) {
	case *selection.TextSelection:
		head := sel.Head()
		switch {
		case !sel.Empty():
			edge := sel.From()
			if dir > 0 {
				edge = sel.To()
			}
			next = selection.NewCaret(edge)
		case dir > 0 && head.Offset < doc.NodeAt(head.Path).Size():
			next = selection.NewCaret(head.Shift(1))
		case dir < 0 && head.Offset > 0:
			next = selection.NewCaret(head.Shift(-1))
		default:
			next = selection.FindSelectionFrom(doc, head, dir, textOnly)
			leftText = &head
		}
	case *selection.NodeSelection:
		from := sel.To()
		if dir < 0 {
			from = sel.From()
		}
		next = selection.FindSelectionFrom(doc, from, dir, textOnly)
	}

	if next == nil {
		e.log.Debug("move %d: at document edge", dir)
		return
	}
	e.state.SetAndSignal(next, events.SourceCommand)
	if _, isNode := next.(*selection.NodeSelection); isNode && leftText != nil {
		e.state.SetLastNonNodePos(*leftText)
	}
	e.state.CommitToHost(false)
}

// InsertText replaces the selection with text. A node selection is
// replaced by a paragraph holding text.
func (e *Editor) InsertText(text string) error {
	switch sel := e.Selection().(type) {
	case *selection.TextSelection:
		from, to := sel.From(), sel.To()
		if !from.Path.Equal(to.Path) {
			return ErrCrossBlock
		}
		return e.Apply(func(tr *model.Transform) error {
			if to.Offset > from.Offset {
				if err := tr.DeleteText(from.Path, from.Offset, to.Offset); err != nil {
					return err
				}
			}
			return tr.InsertText(from.Path, from.Offset, text)
		})
	case *selection.NodeSelection:
		from := sel.From()
		return e.Apply(func(tr *model.Transform) error {
			if err := tr.Replace(from.Path, from.Offset, from.Offset+1, model.Paragraph(text)); err != nil {
				return err
			}
			end := model.NewPos(from.Path.Child(from.Offset), len([]rune(text)))
			e.state.SetAndSignal(selection.NewCaret(end), events.SourceEdit)
			return nil
		})
	}
	return nil
}

// DeleteBackward deletes the selection, or the character before the caret.
// A caret at the start of a textblock is left alone.
func (e *Editor) DeleteBackward() error {
	switch sel := e.Selection().(type) {
	case *selection.TextSelection:
		from, to := sel.From(), sel.To()
		if !from.Path.Equal(to.Path) {
			return ErrCrossBlock
		}
		if sel.Empty() {
			if from.Offset == 0 {
				return nil
			}
			from = from.Shift(-1)
		}
		return e.Apply(func(tr *model.Transform) error {
			return tr.DeleteText(from.Path, from.Offset, to.Offset)
		})
	case *selection.NodeSelection:
		from := sel.From()
		return e.Apply(func(tr *model.Transform) error {
			return tr.Delete(from.Path, from.Offset, from.Offset+1)
		})
	}
	return nil
}
