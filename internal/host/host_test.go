package host

import "testing"

func TestSnapshotComparisons(t *testing.T) {
	a := Point{Node: "p1", Offset: 1}
	b := Point{Node: "p1", Offset: 3}

	fwd := Snapshot{Anchor: a, Head: b}
	back := Snapshot{Anchor: b, Head: a}

	if !fwd.Equal(fwd) {
		t.Error("snapshot should equal itself")
	}
	if fwd.Equal(back) {
		t.Error("direction must matter for Equal")
	}
	if !fwd.SameRange(back) {
		t.Error("SameRange should ignore direction")
	}
	if fwd.SameRange(Snapshot{Anchor: a, Head: a}) {
		t.Error("different ranges reported as same")
	}
	if fwd.Collapsed() || !(Snapshot{Anchor: a, Head: a}).Collapsed() {
		t.Error("Collapsed mismatch")
	}
	if !(Point{}).IsZero() || a.IsZero() {
		t.Error("IsZero mismatch")
	}
}
