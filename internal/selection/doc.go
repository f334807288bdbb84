// Package selection provides editor selections over document positions and
// the search that finds valid selection positions in a document tree.
//
// Selection Model:
//
// A [Selection] is one of two variants:
//
//   - [TextSelection]: an anchor and a head, both inside textblocks. The
//     anchor is where the selection started and stays put; the head moves.
//     When anchor equals head the selection is a caret.
//   - [NodeSelection]: exactly one selectable node, spanning one unit of
//     its parent from From to To.
//
// The set of variants is closed: only this package can implement
// Selection. Both variants are immutable values.
//
// Position Search:
//
// Only some positions accept a selection. [FindSelectionNear],
// [FindSelectionFrom], [FindSelectionAtStart] and [FindSelectionAtEnd] walk
// the document tree to find the nearest one. Textblocks are terminal: the
// search never descends into them for finer positions. When the whole tree
// is exhausted the search reports [ErrNoSelection], which means the
// document has no selectable position at all.
//
// Mapping:
//
// After an edit, Selection.Map moves a selection into the new document
// through the edit's mapping. A selection whose target no longer exists
// degrades to the nearest valid selection instead of failing:
//
//	tr := model.NewTransform(doc)
//	_ = tr.Delete(nil, 1, 2)
//	next, err := sel.Map(tr.Doc(), tr.Mapping())
package selection
