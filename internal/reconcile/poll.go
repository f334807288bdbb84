package reconcile

import (
	"time"

	"github.com/bengler/prosemirror/internal/schedule"
)

// PollForUpdate handles a raw host notification such as a selection
// change or a mouse release. The host is checked after UpdateInterval;
// if nothing changed yet it is checked once more after UpdateBackoff.
// Notifications during a composition are ignored.
func (s *State) PollForUpdate() {
	if s.destroyed || s.composing {
		return
	}
	s.stopTimer()
	s.mode = PollAwaitingUpdate
	s.updateAttempts = 0
	s.after(s.cfg.UpdateInterval, s.checkUpdate)
}

// StartSyncPolling switches to idle sync polling, replacing any pending
// update check.
func (s *State) StartSyncPolling() {
	if s.destroyed {
		return
	}
	s.stopTimer()
	s.mode = PollAwaitingSync
	s.after(s.cfg.SyncStartDelay, s.syncTick)
}

func (s *State) checkUpdate() {
	if s.mode != PollAwaitingUpdate {
		return
	}
	if s.composing || s.inOperation {
		s.after(s.cfg.UpdateInterval, s.checkUpdate)
		return
	}
	res, err := s.ResolveFromHost()
	if err != nil {
		s.log.Error("resolving host selection: %v", err)
	}
	if s.rescheduled(PollAwaitingUpdate) {
		return
	}
	if res == Unchanged && err == nil && s.updateAttempts == 0 {
		s.updateAttempts++
		s.after(s.cfg.UpdateBackoff, s.checkUpdate)
		return
	}
	s.stableRead()
}

// stableRead ends an update poll, continuing with sync polling if focused.
func (s *State) stableRead() {
	s.stopTimer()
	s.mode = PollNone
	if s.host.HasFocus() {
		s.StartSyncPolling()
	}
}

func (s *State) syncTick() {
	if s.mode != PollAwaitingSync {
		return
	}
	if !s.host.HasFocus() {
		s.mode = PollNone
		return
	}
	if !s.composing && !s.inOperation {
		if _, err := s.ResolveFromHost(); err != nil {
			s.log.Error("resolving host selection: %v", err)
		}
		if s.rescheduled(PollAwaitingSync) {
			return
		}
	}
	s.after(s.cfg.SyncInterval, s.syncTick)
}

// rescheduled reports whether a change listener called back into the
// state during a timer callback and changed the poll mode, scheduled its
// own timer or destroyed the state.
func (s *State) rescheduled(mode PollMode) bool {
	return s.destroyed || s.mode != mode || s.timer != nil
}

// after replaces the pending timer. At most one timer is pending at a
// time; a callback whose timer has been replaced does nothing.
func (s *State) after(d time.Duration, f func()) {
	s.stopTimer()
	if s.destroyed {
		return
	}
	var t schedule.Timer
	t = s.sched.AfterFunc(d, func() {
		if s.timer != t || s.destroyed {
			return
		}
		s.timer = nil
		f()
	})
	s.timer = t
}

func (s *State) stopTimer() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
