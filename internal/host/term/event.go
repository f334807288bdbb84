package term

import (
	"github.com/gdamore/tcell/v2"

	"github.com/bengler/prosemirror/internal/host"
)

// Notice tells the caller what a terminal event changed.
type Notice uint8

const (
	// NoticeSelection means the user moved the live selection.
	NoticeSelection Notice = 1 << iota

	// NoticeFocusGained means the surface received focus.
	NoticeFocusGained

	// NoticeFocusLost means the surface lost focus.
	NoticeFocusLost

	// NoticeRedraw means the screen needs repainting.
	NoticeRedraw
)

// NoticeNone is returned for events the surface does not handle.
const NoticeNone Notice = 0

// Has reports whether n includes flag.
func (n Notice) Has(flag Notice) bool {
	return n&flag != 0
}

// HandleEvent applies mouse, focus and resize events to the surface.
// Key events are left to the caller and yield NoticeNone.
func (s *Surface) HandleEvent(ev tcell.Event) Notice {
	switch e := ev.(type) {
	case *tcell.EventMouse:
		return s.handleMouse(e)
	case *tcell.EventFocus:
		if e.Focused == s.focused {
			return NoticeNone
		}
		s.focused = e.Focused
		if e.Focused {
			return NoticeFocusGained | NoticeRedraw
		}
		s.dragging = false
		return NoticeFocusLost | NoticeRedraw
	case *tcell.EventResize:
		s.screen.Sync()
		return NoticeRedraw
	}
	return NoticeNone
}

func (s *Surface) handleMouse(e *tcell.EventMouse) Notice {
	if e.Buttons()&tcell.Button1 == 0 {
		s.dragging = false
		return NoticeNone
	}

	x, y := e.Position()
	p, ok := s.hit(x, y)
	if !ok {
		return NoticeNone
	}

	var n Notice
	if !s.focused {
		s.focused = true
		n |= NoticeFocusGained
	}
	if !s.dragging {
		s.dragging = true
		s.live = &host.Snapshot{Anchor: p, Head: p}
		return n | NoticeSelection | NoticeRedraw
	}
	if s.live != nil && s.live.Head == p {
		return n
	}
	if s.live == nil {
		s.live = &host.Snapshot{Anchor: p, Head: p}
	} else {
		s.live.Head = p
	}
	return n | NoticeSelection | NoticeRedraw
}
