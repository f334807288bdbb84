package selection

import (
	"testing"

	"github.com/bengler/prosemirror/internal/model"
)

func TestTextSelectionBounds(t *testing.T) {
	anchor := model.NewPos(model.Path{2}, 1)
	head := model.NewPos(model.Path{0}, 1)
	sel := NewTextSelection(anchor, head)

	if !sel.From().Equal(head) || !sel.To().Equal(anchor) {
		t.Errorf("bounds = %s..%s", sel.From(), sel.To())
	}
	if !sel.Inverted() {
		t.Error("head before anchor should be inverted")
	}
	if sel.Empty() {
		t.Error("range should not be empty")
	}
	if !NewCaret(head).Empty() {
		t.Error("caret should be empty")
	}
}

func TestNodeSelectionNeverEmpty(t *testing.T) {
	doc := imageDoc()
	sel, err := NodeSelectionAt(doc, model.NewPos(nil, 1))
	if err != nil {
		t.Fatal(err)
	}
	if sel.Empty() {
		t.Error("node selection must not be empty")
	}
	if !sel.Anchor().Equal(sel.From()) || !sel.Head().Equal(sel.To()) {
		t.Error("anchor/head should match from/to")
	}
	if _, err := NodeSelectionAt(doc, model.NewPos(nil, 0)); err == nil {
		t.Error("paragraphs are not selectable")
	}
	if _, err := NodeSelectionAt(doc, model.NewPos(nil, 7)); err == nil {
		t.Error("out of range should fail")
	}
}

func TestEqProperties(t *testing.T) {
	doc := imageDoc()
	caret := NewCaret(model.NewPos(nil, 1))
	node := NewNodeSelection(model.NewPos(nil, 1), model.NewPos(nil, 2), doc.Child(1))
	text := NewTextSelection(model.NewPos(model.Path{0}, 0), model.NewPos(model.Path{0}, 2))
	sels := []Selection{caret, node, text}

	for _, s := range sels {
		if !s.Eq(s) {
			t.Errorf("%v is not equal to itself", s)
		}
		for _, o := range sels {
			if s.Eq(o) != o.Eq(s) {
				t.Errorf("Eq not symmetric for %v and %v", s, o)
			}
		}
	}
	// Same bounds, different variants.
	textSpan := NewTextSelection(model.NewPos(nil, 1), model.NewPos(nil, 2))
	if textSpan.Eq(node) || node.Eq(textSpan) {
		t.Error("text and node selections must never be equal")
	}
	// Node identity is not compared.
	other := NewNodeSelection(model.NewPos(nil, 1), model.NewPos(nil, 2), model.Image("dog.png"))
	if !node.Eq(other) {
		t.Error("node selections with the same from should be equal")
	}
	// Direction matters for text selections.
	if text.Eq(NewTextSelection(text.Head(), text.Anchor())) {
		t.Error("reversed selection should not be equal")
	}
	if text.Eq(nil) || node.Eq(nil) {
		t.Error("nil is never equal")
	}
}

func TestMapIdentity(t *testing.T) {
	doc := nestedDoc()
	sels := []Selection{
		NewCaret(model.NewPos(model.Path{0}, 3)),
		NewTextSelection(model.NewPos(model.Path{1, 2}, 1), model.NewPos(model.Path{0}, 0)),
		NewNodeSelection(model.NewPos(nil, 2), model.NewPos(nil, 3), doc.Child(2)),
		NewNodeSelection(model.NewPos(model.Path{1}, 1), model.NewPos(model.Path{1}, 2), doc.Child(1).Child(1)),
	}
	for _, sel := range sels {
		got, err := sel.Map(doc, model.Identity())
		if err != nil {
			t.Fatalf("Map(%v): %v", sel, err)
		}
		if !got.Eq(sel) {
			t.Errorf("identity map changed %v to %v", sel, got)
		}
	}
}

func TestNodeSelectionMapDeletedNode(t *testing.T) {
	doc := imageDoc()
	sel, err := NodeSelectionAt(doc, model.NewPos(nil, 1))
	if err != nil {
		t.Fatal(err)
	}

	tr := model.NewTransform(doc)
	if err := tr.Delete(nil, 1, 2); err != nil {
		t.Fatal(err)
	}
	got, err := sel.Map(tr.Doc(), tr.Mapping())
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	want := NewCaret(model.NewPos(model.Path{1}, 0))
	if !want.Eq(got) {
		t.Errorf("mapped = %v, want %v", got, want)
	}
	if !IsValid(tr.Doc(), got) {
		t.Errorf("mapped selection %v is not valid", got)
	}
}

func TestNodeSelectionMapReplacedWithText(t *testing.T) {
	doc := imageDoc()
	sel, _ := NodeSelectionAt(doc, model.NewPos(nil, 1))

	tr := model.NewTransform(doc)
	if err := tr.Replace(nil, 1, 2, model.Paragraph("img")); err != nil {
		t.Fatal(err)
	}
	got, err := sel.Map(tr.Doc(), tr.Mapping())
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := got.(*NodeSelection); ok {
		t.Fatalf("replaced node should not stay node-selected: %v", got)
	}
	if !IsValid(tr.Doc(), got) {
		t.Errorf("mapped selection %v is not valid", got)
	}
}

func TestNodeSelectionMapSurvivesShift(t *testing.T) {
	doc := imageDoc()
	sel, _ := NodeSelectionAt(doc, model.NewPos(nil, 1))

	tr := model.NewTransform(doc)
	if err := tr.Insert(nil, 1, model.Paragraph("new")); err != nil {
		t.Fatal(err)
	}
	if err := tr.Insert(nil, 3, model.Rule()); err != nil {
		t.Fatal(err)
	}
	got, err := sel.Map(tr.Doc(), tr.Mapping())
	if err != nil {
		t.Fatal(err)
	}
	ns, ok := got.(*NodeSelection)
	if !ok {
		t.Fatalf("expected node selection, got %v", got)
	}
	if !ns.From().Equal(model.NewPos(nil, 2)) || !ns.To().Equal(model.NewPos(nil, 3)) {
		t.Errorf("mapped span %s-%s", ns.From(), ns.To())
	}
	if ns.Node() != tr.Doc().Child(2) {
		t.Error("node should be the image in the new document")
	}
}

func TestTextSelectionMap(t *testing.T) {
	doc := imageDoc()

	t.Run("text insert shifts both ends", func(t *testing.T) {
		sel := NewTextSelection(model.NewPos(model.Path{2}, 0), model.NewPos(model.Path{2}, 2))
		tr := model.NewTransform(doc)
		_ = tr.InsertText(model.Path{2}, 0, "xx")
		got, err := sel.Map(tr.Doc(), tr.Mapping())
		if err != nil {
			t.Fatal(err)
		}
		want := NewTextSelection(model.NewPos(model.Path{2}, 2), model.NewPos(model.Path{2}, 4))
		if !want.Eq(got) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("anchor block deleted collapses to head", func(t *testing.T) {
		sel := NewTextSelection(model.NewPos(model.Path{0}, 1), model.NewPos(model.Path{2}, 1))
		tr := model.NewTransform(doc)
		_ = tr.Delete(nil, 0, 1)
		got, err := sel.Map(tr.Doc(), tr.Mapping())
		if err != nil {
			t.Fatal(err)
		}
		want := NewCaret(model.NewPos(model.Path{1}, 1))
		if !want.Eq(got) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("head block deleted falls back", func(t *testing.T) {
		sel := NewTextSelection(model.NewPos(model.Path{0}, 1), model.NewPos(model.Path{2}, 1))
		tr := model.NewTransform(doc)
		_ = tr.Delete(nil, 2, 3)
		got, err := sel.Map(tr.Doc(), tr.Mapping())
		if err != nil {
			t.Fatal(err)
		}
		if !IsValid(tr.Doc(), got) {
			t.Errorf("mapped selection %v is not valid", got)
		}
		if got.From().Cmp(model.NewPos(nil, 2)) > 0 {
			t.Errorf("fallback %v escaped the document", got)
		}
	})
}

func TestIsValid(t *testing.T) {
	doc := imageDoc()
	tests := []struct {
		name string
		sel  Selection
		want bool
	}{
		{"caret in text", NewCaret(model.NewPos(model.Path{0}, 2)), true},
		{"caret past text", NewCaret(model.NewPos(model.Path{0}, 3)), false},
		{"caret at doc level", NewCaret(model.NewPos(nil, 1)), false},
		{"image", NewNodeSelection(model.NewPos(nil, 1), model.NewPos(nil, 2), nil), true},
		{"paragraph", NewNodeSelection(model.NewPos(nil, 0), model.NewPos(nil, 1), nil), false},
		{"wide span", NewNodeSelection(model.NewPos(nil, 1), model.NewPos(nil, 3), nil), false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValid(doc, tt.sel); got != tt.want {
				t.Errorf("IsValid(%v) = %v, want %v", tt.sel, got, tt.want)
			}
		})
	}
}
