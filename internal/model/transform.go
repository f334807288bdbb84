package model

// Transform accumulates steps against a document. Each successful step
// advances Doc and appends to Mapping; a failed step leaves the transform
// unchanged.
type Transform struct {
	before  *Node
	doc     *Node
	steps   []Step
	mapping *Mapping
}

// NewTransform starts a transform on doc.
func NewTransform(doc *Node) *Transform {
	return &Transform{
		before:  doc,
		doc:     doc,
		mapping: Identity(),
	}
}

// Before returns the document the transform started from.
func (t *Transform) Before() *Node {
	return t.before
}

// Doc returns the current document.
func (t *Transform) Doc() *Node {
	return t.doc
}

// Steps returns the applied steps.
func (t *Transform) Steps() []Step {
	out := make([]Step, len(t.steps))
	copy(out, t.steps)
	return out
}

// Mapping returns the mapping from Before to Doc.
func (t *Transform) Mapping() *Mapping {
	return t.mapping
}

// DocChanged reports whether any step was applied.
func (t *Transform) DocChanged() bool {
	return len(t.steps) > 0
}

// Step applies a step.
func (t *Transform) Step(s Step) error {
	doc, sm, err := s.Apply(t.doc)
	if err != nil {
		return err
	}
	t.doc = doc
	t.steps = append(t.steps, s)
	t.mapping.Append(sm)
	return nil
}

// Replace replaces children [from, to) of the container at path.
func (t *Transform) Replace(path Path, from, to int, nodes ...*Node) error {
	return t.Step(ReplaceStep{Path: path.Clone(), From: from, To: to, Nodes: nodes})
}

// Insert inserts nodes before child at of the container at path.
func (t *Transform) Insert(path Path, at int, nodes ...*Node) error {
	return t.Replace(path, at, at, nodes...)
}

// Delete removes children [from, to) of the container at path.
func (t *Transform) Delete(path Path, from, to int) error {
	return t.Replace(path, from, to)
}

// InsertText inserts text at offset of the textblock at path.
func (t *Transform) InsertText(path Path, offset int, text string) error {
	return t.Step(TextStep{Path: path.Clone(), From: offset, To: offset, Text: text})
}

// DeleteText removes runes [from, to) of the textblock at path.
func (t *Transform) DeleteText(path Path, from, to int) error {
	return t.Step(TextStep{Path: path.Clone(), From: from, To: to})
}
