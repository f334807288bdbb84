package reconcile

import (
	"github.com/bengler/prosemirror/internal/host"
	"github.com/bengler/prosemirror/internal/selection"
)

// CommitToHost writes the current selection to the host.
//
// A node selection clears the native range and marks the node's element;
// at most one element is marked at a time. A text selection is installed
// as a native range, direction included when the host supports Extend.
// Nothing is written while composing, and an unfocused host is left alone
// unless takeFocus is set.
func (s *State) CommitToHost(takeFocus bool) {
	if s.destroyed {
		return
	}
	if s.composing {
		s.log.Debug("host write deferred: composing")
		return
	}
	switch sel := s.sel.(type) {
	case *selection.NodeSelection:
		s.commitNode(sel, takeFocus)
	case *selection.TextSelection:
		s.commitText(sel, takeFocus)
	}
}

func (s *State) commitNode(sel *selection.NodeSelection, takeFocus bool) {
	if _, ok := s.host.Selection(); ok {
		s.host.RemoveAllRanges()
	}
	s.lastValid = false
	if takeFocus && !s.host.HasFocus() {
		s.host.Focus()
	}

	el, err := s.host.ElementAt(sel.From())
	if err != nil {
		s.log.Warn("no element for node selection %s: %v", sel, err)
		s.clearNodeMark()
		return
	}
	if s.lastNode != nil && s.lastNode == el {
		return
	}
	s.clearNodeMark()
	s.host.SetNodeSelected(el, true)
	s.lastNode = el
}

func (s *State) commitText(sel *selection.TextSelection, takeFocus bool) {
	s.clearNodeMark()
	if !s.host.HasFocus() {
		if !takeFocus {
			return
		}
		if s.cfg.ForceFocusBeforeRange {
			s.host.Focus()
		}
	}

	anchor, err := s.host.PointFromPos(sel.Anchor())
	if err != nil {
		s.log.Warn("mapping anchor %s: %v", sel.Anchor(), err)
		return
	}
	head, err := s.host.PointFromPos(sel.Head())
	if err != nil {
		s.log.Warn("mapping head %s: %v", sel.Head(), err)
		return
	}
	want := host.Snapshot{Anchor: anchor, Head: head}

	if live, ok := s.host.Selection(); ok && s.lastValid && s.matches(s.last, want) && s.matches(live, want) {
		s.log.Debug("host already shows %s", sel)
	} else {
		s.install(want, sel.Inverted())
	}

	if takeFocus && !s.host.HasFocus() {
		s.host.Focus()
	}
}

// install replaces the live range. Without Extend a backward selection is
// installed forwards.
func (s *State) install(want host.Snapshot, inverted bool) {
	s.host.RemoveAllRanges()
	if s.host.CanExtend() {
		s.host.AddRange(want.Anchor, want.Anchor)
		s.host.Extend(want.Head)
	} else if inverted {
		s.host.AddRange(want.Head, want.Anchor)
	} else {
		s.host.AddRange(want.Anchor, want.Head)
	}

	live, ok := s.host.Selection()
	s.last, s.lastValid = live, ok
}

func (s *State) matches(a, b host.Snapshot) bool {
	if s.host.CanExtend() {
		return a.Equal(b)
	}
	return a.SameRange(b)
}

func (s *State) clearNodeMark() {
	if s.lastNode == nil {
		return
	}
	s.host.SetNodeSelected(s.lastNode, false)
	s.lastNode = nil
}
