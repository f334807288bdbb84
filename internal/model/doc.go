// Package model provides the document tree that selections are expressed
// against.
//
// A document is an immutable tree of [Node] values. Every node has a
// [NodeType] that decides how positions inside it are counted:
//
//   - Textblocks are text-bearing leaves. Offsets inside a textblock count
//     runes of its text. A textblock never has children.
//   - Every other node is a container (or an empty atom). Offsets inside it
//     count child units: offset i sits just before child i.
//
// A [Pos] names a location as a path of child indices from the root plus a
// trailing offset inside the node the path leads to. Positions are totally
// ordered in document order by [Pos.Cmp].
//
// Edits are expressed as [Step] values applied through a [Transform]. Every
// step produces a [StepMap]; the ordered list of step maps of one transform
// is a [Mapping] that moves positions from the old document into the new
// one:
//
//	tr := model.NewTransform(doc)
//	if err := tr.InsertText(model.Path{0}, 2, "xy"); err != nil {
//	    return err
//	}
//	res := tr.Mapping().Map(oldPos, 1)
//
// Nodes are never mutated after construction; transforms copy the spine of
// the tree along the edited path and share everything else.
package model
