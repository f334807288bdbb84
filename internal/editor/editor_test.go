package editor

import (
	"errors"
	"testing"
	"time"

	"github.com/bengler/prosemirror/internal/host/hosttest"
	"github.com/bengler/prosemirror/internal/model"
	"github.com/bengler/prosemirror/internal/reconcile"
	"github.com/bengler/prosemirror/internal/schedule"
	"github.com/bengler/prosemirror/internal/selection"
)

func p(offset int, path ...int) model.Pos {
	return model.NewPos(model.Path(path), offset)
}

func newEditor(t *testing.T, doc *model.Node) (*Editor, *hosttest.Surface) {
	t.Helper()
	h := hosttest.New(doc)
	st, err := reconcile.New(doc, h, schedule.NewFakeClock(time.Unix(0, 0)))
	if err != nil {
		t.Fatal(err)
	}
	return New(st, WithRenderer(h.Render)), h
}

func imageDoc() *model.Node {
	return model.Doc(model.Paragraph("ab"), model.Image("img.png"), model.Paragraph("cd"))
}

func assertSelection(t *testing.T, e *Editor, want selection.Selection) {
	t.Helper()
	if got := e.Selection(); !got.Eq(want) {
		t.Errorf("selection = %s, want %s", got, want)
	}
}

func TestMoveAcrossImage(t *testing.T) {
	e, h := newEditor(t, imageDoc())

	e.Move(1, false)
	e.Move(1, false)
	assertSelection(t, e, selection.NewCaret(p(2, 0)))

	e.Move(1, false)
	sel, ok := e.Selection().(*selection.NodeSelection)
	if !ok || !sel.From().Equal(p(1)) {
		t.Fatalf("selection = %s, want the image", e.Selection())
	}
	if el := h.Element(model.Path{1}); !el.Selected {
		t.Error("image element not marked")
	}
	if pos, ok := e.State().LastNonNodePos(); !ok || !pos.Equal(p(2, 0)) {
		t.Errorf("LastNonNodePos = %s, %v; want 0:2", pos, ok)
	}

	e.Move(1, false)
	assertSelection(t, e, selection.NewCaret(p(0, 2)))
	if len(h.Marked()) != 0 {
		t.Error("image still marked after moving on")
	}

	e.Move(-1, false)
	e.Move(-1, false)
	assertSelection(t, e, selection.NewCaret(p(2, 0)))
}

func TestMoveTextOnlySkipsImage(t *testing.T) {
	e, _ := newEditor(t, imageDoc())
	if err := e.SetSelection(selection.NewCaret(p(2, 0)), false); err != nil {
		t.Fatal(err)
	}
	e.Move(1, true)
	assertSelection(t, e, selection.NewCaret(p(0, 2)))
}

func TestMoveAtDocumentEdge(t *testing.T) {
	e, _ := newEditor(t, imageDoc())
	e.Move(-1, false)
	assertSelection(t, e, selection.NewCaret(p(0, 0)))
}

func TestMoveCollapsesRange(t *testing.T) {
	e, _ := newEditor(t, imageDoc())
	if err := e.SetSelection(selection.NewTextSelection(p(2, 0), p(0, 0)), false); err != nil {
		t.Fatal(err)
	}
	e.Move(1, false)
	assertSelection(t, e, selection.NewCaret(p(2, 0)))
}

func TestSetSelectionValidates(t *testing.T) {
	e, h := newEditor(t, imageDoc())

	err := e.SetSelection(selection.NewCaret(p(1)), false)
	if !errors.Is(err, reconcile.ErrInvalidSelection) {
		t.Errorf("SetSelection(between blocks) = %v, want ErrInvalidSelection", err)
	}
	if err := e.SetSelection(nil, false); !errors.Is(err, reconcile.ErrInvalidSelection) {
		t.Errorf("SetSelection(nil) = %v, want ErrInvalidSelection", err)
	}

	if err := e.SetSelection(selection.NewCaret(p(1, 2)), true); err != nil {
		t.Fatal(err)
	}
	live, ok := h.Selection()
	if !ok || live.Head != h.Point(p(1, 2)) {
		t.Errorf("host selection = %+v, want caret at 2:1", live)
	}
}

func TestInsertText(t *testing.T) {
	e, h := newEditor(t, imageDoc())
	if err := e.SetSelection(selection.NewCaret(p(1, 0)), false); err != nil {
		t.Fatal(err)
	}

	if err := e.InsertText("XY"); err != nil {
		t.Fatalf("InsertText() = %v", err)
	}
	if got := e.Doc().Child(0).Text; got != "aXYb" {
		t.Errorf("text = %q, want aXYb", got)
	}
	assertSelection(t, e, selection.NewCaret(p(3, 0)))
	if live, _ := h.Selection(); live.Head != h.Point(p(3, 0)) {
		t.Errorf("host head = %+v, want 0:3", live.Head)
	}

	if err := e.SetSelection(selection.NewTextSelection(p(3, 0), p(1, 0)), false); err != nil {
		t.Fatal(err)
	}
	if err := e.InsertText("-"); err != nil {
		t.Fatal(err)
	}
	if got := e.Doc().Child(0).Text; got != "a-b" {
		t.Errorf("text = %q, want a-b", got)
	}
	assertSelection(t, e, selection.NewCaret(p(2, 0)))
}

func TestInsertTextReplacesNode(t *testing.T) {
	e, _ := newEditor(t, imageDoc())
	ns, err := selection.NodeSelectionAt(e.Doc(), p(1))
	if err != nil {
		t.Fatal(err)
	}
	if err := e.SetSelection(ns, false); err != nil {
		t.Fatal(err)
	}

	if err := e.InsertText("caption"); err != nil {
		t.Fatal(err)
	}
	if got := e.Doc().String(); got != `doc(paragraph("ab"), paragraph("caption"), paragraph("cd"))` {
		t.Errorf("doc = %s", got)
	}
	assertSelection(t, e, selection.NewCaret(p(7, 1)))
}

func TestInsertTextCrossBlock(t *testing.T) {
	e, _ := newEditor(t, imageDoc())
	if err := e.SetSelection(selection.NewTextSelection(p(1, 0), p(1, 2)), false); err != nil {
		t.Fatal(err)
	}
	before := e.Doc()
	if err := e.InsertText("x"); !errors.Is(err, ErrCrossBlock) {
		t.Errorf("InsertText() = %v, want ErrCrossBlock", err)
	}
	if e.Doc() != before {
		t.Error("document changed")
	}
}

func TestDeleteBackward(t *testing.T) {
	e, _ := newEditor(t, imageDoc())
	if err := e.SetSelection(selection.NewCaret(p(2, 0)), false); err != nil {
		t.Fatal(err)
	}

	if err := e.DeleteBackward(); err != nil {
		t.Fatal(err)
	}
	if got := e.Doc().Child(0).Text; got != "a" {
		t.Errorf("text = %q, want a", got)
	}
	assertSelection(t, e, selection.NewCaret(p(1, 0)))

	// Deleting the image turns the selection into a caret after it.
	ns, err := selection.NodeSelectionAt(e.Doc(), p(1))
	if err != nil {
		t.Fatal(err)
	}
	if err := e.SetSelection(ns, false); err != nil {
		t.Fatal(err)
	}
	if err := e.DeleteBackward(); err != nil {
		t.Fatal(err)
	}
	if got := e.Doc().ChildCount(); got != 2 {
		t.Errorf("child count = %d, want 2", got)
	}
	assertSelection(t, e, selection.NewCaret(p(0, 1)))

	// At the start of a block nothing happens.
	before := e.Doc()
	if err := e.DeleteBackward(); err != nil {
		t.Fatal(err)
	}
	if e.Doc() != before {
		t.Error("DeleteBackward at block start changed the document")
	}
}

func TestApplyErrorLeavesDocument(t *testing.T) {
	e, _ := newEditor(t, imageDoc())
	before := e.Doc()
	boom := errors.New("boom")

	err := e.Apply(func(tr *model.Transform) error {
		if err := tr.InsertText(model.Path{0}, 0, "x"); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("Apply() = %v, want boom", err)
	}
	if e.Doc() != before {
		t.Error("failed Apply changed the document")
	}
	if e.State().InOperation() {
		t.Error("operation still in flight after failure")
	}
}

func TestApplyWithoutSelectablePositionAborts(t *testing.T) {
	doc := model.Doc(model.Paragraph("x"), model.Image("img.png"))
	e, h := newEditor(t, doc)
	ns, err := selection.NodeSelectionAt(doc, p(1))
	if err != nil {
		t.Fatal(err)
	}
	if err := e.SetSelection(ns, false); err != nil {
		t.Fatal(err)
	}

	err = e.Apply(func(tr *model.Transform) error {
		return tr.Delete(model.Path{}, 0, 2)
	})
	if !errors.Is(err, reconcile.ErrEditAborted) || !errors.Is(err, selection.ErrNoSelection) {
		t.Fatalf("Apply() = %v, want ErrEditAborted wrapping ErrNoSelection", err)
	}

	if e.Doc() != doc {
		t.Errorf("document = %s, want the original", e.Doc())
	}
	assertSelection(t, e, ns)
	if !selection.IsValid(e.Doc(), e.Selection()) {
		t.Errorf("selection %s not valid in %s", e.Selection(), e.Doc())
	}
	if e.State().InOperation() {
		t.Error("operation still in flight after abort")
	}
	if el := h.Element(model.Path{1}); el == nil || !el.Selected {
		t.Error("image not marked after the host was restored")
	}

	e.Move(-1, false)
	assertSelection(t, e, selection.NewCaret(p(1, 0)))
}
