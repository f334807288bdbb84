// Package reconcile keeps the editor selection and the host's native
// selection in step.
//
// State owns the current selection.Selection for one editor instance. Reads
// flow from the host through ResolveFromHost, which validates whatever the
// host reports with the position search in package selection. Writes flow
// to the host through CommitToHost, which skips redundant writes and never
// steals focus unless asked to.
//
// Host notifications are unreliable, so State also polls. The poll mode is
// one of:
//
//	PollNone            idle
//	PollAwaitingUpdate  a raw host notification arrived; re-check shortly
//	PollAwaitingSync    focused and idle; check for drift periodically
//
// Only one timer is ever pending. Every method must be called from the
// same goroutine that runs the Scheduler's callbacks (see package schedule).
package reconcile
