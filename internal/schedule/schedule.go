// Package schedule runs deferred work on a single editor goroutine.
//
// The selection state machine is not safe for concurrent use; every timer
// callback it registers must run on the same goroutine as input handling.
// Loop provides that goroutine. FakeClock provides the same Scheduler
// interface with manually advanced time for tests.
package schedule

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrLoopStopped is returned by Post after the loop has stopped.
var ErrLoopStopped = errors.New("schedule: loop stopped")

// Timer is a pending callback that can be cancelled.
type Timer interface {
	// Stop cancels the callback. It reports whether the call prevented the
	// callback from running.
	Stop() bool
}

// Scheduler arranges for f to run once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// Loop serializes work onto the goroutine that calls Run.
type Loop struct {
	queue     chan func()
	afterEach func()

	mu      sync.Mutex
	stopped bool
	done    chan struct{}
}

// NewLoop creates a loop with the given queue capacity.
func NewLoop(capacity int) *Loop {
	if capacity <= 0 {
		capacity = 64
	}
	return &Loop{
		queue: make(chan func(), capacity),
		done:  make(chan struct{}),
	}
}

// Post queues f to run on the loop goroutine. It blocks if the queue is full.
func (l *Loop) Post(f func()) error {
	l.mu.Lock()
	stopped := l.stopped
	l.mu.Unlock()
	if stopped {
		return ErrLoopStopped
	}
	select {
	case l.queue <- f:
		return nil
	case <-l.done:
		return ErrLoopStopped
	}
}

// AfterEach sets f to run after every task. It must be called before Run.
func (l *Loop) AfterEach(f func()) {
	l.afterEach = f
}

// Run executes posted work until ctx is cancelled or Stop is called.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			l.Stop()
			return ctx.Err()
		case <-l.done:
			return nil
		case f := <-l.queue:
			f()
			if l.afterEach != nil {
				l.afterEach()
			}
		}
	}
}

// Stop ends Run. Pending work is discarded.
func (l *Loop) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stopped {
		return
	}
	l.stopped = true
	close(l.done)
}

// AfterFunc schedules f to be posted to the loop after d. A timer stopped
// after it fired but before the loop picked it up still does not run.
func (l *Loop) AfterFunc(d time.Duration, f func()) Timer {
	t := &loopTimer{}
	t.timer = time.AfterFunc(d, func() {
		_ = l.Post(func() {
			if t.cancelled() {
				return
			}
			f()
		})
	})
	return t
}

type loopTimer struct {
	mu    sync.Mutex
	stop  bool
	timer *time.Timer
}

func (t *loopTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	wasPending := !t.stop
	t.stop = true
	t.timer.Stop()
	return wasPending
}

func (t *loopTimer) cancelled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stop {
		return true
	}
	t.stop = true
	return false
}
