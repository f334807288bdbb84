package reconcile

import (
	"context"
	"fmt"

	"github.com/bengler/prosemirror/internal/config"
	"github.com/bengler/prosemirror/internal/event"
	"github.com/bengler/prosemirror/internal/event/events"
	"github.com/bengler/prosemirror/internal/host"
	"github.com/bengler/prosemirror/internal/logging"
	"github.com/bengler/prosemirror/internal/model"
	"github.com/bengler/prosemirror/internal/schedule"
	"github.com/bengler/prosemirror/internal/selection"
)

// PollMode is the reconciliation phase.
type PollMode int

const (
	PollNone PollMode = iota
	PollAwaitingUpdate
	PollAwaitingSync
)

func (m PollMode) String() string {
	switch m {
	case PollNone:
		return "none"
	case PollAwaitingUpdate:
		return "awaitingUpdate"
	case PollAwaitingSync:
		return "awaitingSync"
	default:
		return "unknown"
	}
}

// Result reports whether ResolveFromHost adopted a new host selection.
type Result int

const (
	Unchanged Result = iota
	Changed
)

func (r Result) String() string {
	if r == Changed {
		return "changed"
	}
	return "unchanged"
}

// State is the selection state machine for one editor instance.
type State struct {
	host  host.Host
	sched schedule.Scheduler
	cfg   config.SelectionConfig
	log   *logging.Logger
	pub   event.Publisher
	find  Finder

	doc *model.Node
	sel selection.Selection

	// last is the native selection as of the last read or write. It is
	// only meaningful while lastValid is set.
	last      host.Snapshot
	lastValid bool

	// lastNode is the element currently marked node-selected.
	lastNode host.Node

	lastNonNode    model.Pos
	hasLastNonNode bool

	mode           PollMode
	timer          schedule.Timer
	updateAttempts int

	composing   bool
	inOperation bool
	opStart     selection.Selection
	opSet       bool

	destroyed bool
}

// New creates the state for doc, initialised to the first valid selection
// in the document unless WithSelection says otherwise.
func New(doc *model.Node, h host.Host, sched schedule.Scheduler, opts ...Option) (*State, error) {
	s := &State{
		host:  h,
		sched: sched,
		cfg:   config.Default().Selection,
		log:   logging.Null(),
		find:  selection.FindSelectionNear,
		doc:   doc,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.WithComponent("reconcile")

	if s.sel == nil {
		sel, err := selection.FindSelectionAtStart(doc, nil, false)
		if err != nil {
			return nil, err
		}
		s.sel = sel
	} else if !selection.IsValid(doc, s.sel) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSelection, s.sel)
	}
	return s, nil
}

// Selection returns the current selection.
func (s *State) Selection() selection.Selection {
	return s.sel
}

// Doc returns the document the selection refers to.
func (s *State) Doc() *model.Node {
	return s.doc
}

// Mode returns the current poll mode.
func (s *State) Mode() PollMode {
	return s.mode
}

// Composing reports whether an input method composition is active.
func (s *State) Composing() bool {
	return s.composing
}

// InOperation reports whether an edit operation is in flight.
func (s *State) InOperation() bool {
	return s.inOperation
}

// Config returns the active timing configuration.
func (s *State) Config() config.SelectionConfig {
	return s.cfg
}

// SetConfig replaces the timing configuration. Timers already pending keep
// their original delay.
func (s *State) SetConfig(cfg config.SelectionConfig) {
	s.cfg = cfg
}

// LastNonNodePos returns the position vertical motion should resume from
// after passing over a node selection.
func (s *State) LastNonNodePos() (model.Pos, bool) {
	return s.lastNonNode, s.hasLastNonNode
}

// SetLastNonNodePos records the position vertical motion left text at.
func (s *State) SetLastNonNodePos(pos model.Pos) {
	s.lastNonNode = pos
	s.hasLastNonNode = true
}

// Set replaces the current selection. Setting a non-node selection drops
// the cached vertical-motion position. With clearHostCache the cached host
// snapshot is dropped, so the next CommitToHost always writes.
func (s *State) Set(sel selection.Selection, clearHostCache bool) {
	if s.destroyed {
		return
	}
	s.sel = sel
	if _, ok := sel.(*selection.NodeSelection); !ok {
		s.hasLastNonNode = false
	}
	if clearHostCache {
		s.lastValid = false
	}
	if s.inOperation {
		s.opSet = true
	}
}

// SetAndSignal is Set followed by a change notification if the selection
// actually changed. While an edit operation is in flight the notification
// is left to AfterEditOperation.
func (s *State) SetAndSignal(sel selection.Selection, source events.Source) {
	s.setAndSignal(sel, true, source)
}

func (s *State) setAndSignal(sel selection.Selection, clearHostCache bool, source events.Source) {
	if s.destroyed {
		return
	}
	old := s.sel
	s.Set(sel, clearHostCache)
	if s.inOperation || old.Eq(sel) {
		return
	}
	s.signal(old, sel, source)
}

// DetectHostChange reports whether the live host selection differs from
// the last one seen. It does no position mapping.
func (s *State) DetectHostChange() bool {
	live, ok := s.host.Selection()
	if !ok {
		return false
	}
	return !s.lastValid || !live.Equal(s.last)
}

// ResolveFromHost adopts the host's live selection. It does nothing while
// composing, when unfocused, or when the host selection has not changed.
// The host-reported endpoints are validated with the Finder; if that
// corrects them the result is written back to the host. An error means
// the document has no selectable position at all.
func (s *State) ResolveFromHost() (Result, error) {
	if s.destroyed || s.composing || !s.host.HasFocus() || !s.DetectHostChange() {
		return Unchanged, nil
	}
	live, _ := s.host.Selection()

	anchor, err := s.host.PosFromPoint(live.Anchor)
	if err != nil {
		s.log.Warn("mapping host anchor: %v", err)
		return Unchanged, nil
	}
	head, err := s.host.PosFromPoint(live.Head)
	if err != nil {
		s.log.Warn("mapping host head: %v", err)
		return Unchanged, nil
	}

	bias := 1
	if head.Before(s.sel.Head()) {
		bias = -1
	}
	found, err := s.find(s.doc, head, bias, false)
	if err != nil {
		return Unchanged, err
	}

	next := found
	if _, isText := found.(*selection.TextSelection); isText && s.doc.InTextblock(anchor) {
		next = selection.NewTextSelection(anchor, found.Head())
	}
	_, isNode := next.(*selection.NodeSelection)
	corrected := isNode || !next.Anchor().Equal(anchor) || !next.Head().Equal(head)

	s.setAndSignal(next, corrected, events.SourceHost)
	if corrected {
		s.log.Debug("host selection %s->%s corrected to %s", anchor, head, next)
		s.CommitToHost(false)
	} else {
		s.clearNodeMark()
		s.last = live
		s.lastValid = true
	}
	return Changed, nil
}

// BeginComposition suspends host reads and writes until EndComposition.
func (s *State) BeginComposition() {
	if s.destroyed || s.composing {
		return
	}
	s.composing = true
	s.log.Debug("composition started")
	s.publish(event.NewEvent(events.TopicCompositionStarted, events.CompositionChanged{Active: true}, "reconcile"))
}

// EndComposition resumes reconciliation and polls for the selection the
// composition left behind.
func (s *State) EndComposition() {
	if s.destroyed || !s.composing {
		return
	}
	s.composing = false
	s.log.Debug("composition ended")
	s.publish(event.NewEvent(events.TopicCompositionEnded, events.CompositionChanged{Active: false}, "reconcile"))
	s.PollForUpdate()
}

// BeforeEditOperation must be called before an edit changes the document.
// A pending host change is folded in first; otherwise the host is brought
// in line with the current selection.
func (s *State) BeforeEditOperation() {
	if s.destroyed || s.inOperation {
		return
	}
	if s.mode == PollAwaitingUpdate && !s.composing {
		res, err := s.ResolveFromHost()
		if err != nil {
			s.log.Error("resolving host selection: %v", err)
		}
		if res == Changed {
			s.stableRead()
		} else {
			s.syncIdle()
		}
	} else {
		s.syncIdle()
	}
	s.inOperation = true
	s.opSet = false
	s.opStart = s.sel
}

// AfterEditOperation maps the selection into doc, writes it to the host
// and emits at most one change notification for the whole operation. If
// the selection was set explicitly during the operation it is kept as long
// as it is valid in doc.
//
// If no selection can be resolved in doc the operation is aborted: the
// state keeps the old document and the selection it started with, and the
// caller must restore the host's rendering of the old document before
// committing again.
func (s *State) AfterEditOperation(doc *model.Node, mapping selection.Mapping) error {
	if s.destroyed {
		return nil
	}
	start := s.opStart
	explicit := s.opSet
	s.inOperation, s.opSet, s.opStart = false, false, nil

	next, err := s.resolveAfterEdit(doc, mapping, explicit)
	if err != nil {
		if start != nil {
			s.sel = start
		}
		s.lastValid = false
		s.log.Warn("edit aborted: %v", err)
		return fmt.Errorf("%w: %w", ErrEditAborted, err)
	}

	s.doc = doc
	s.Set(next, true)
	s.CommitToHost(false)
	if start != nil && !start.Eq(next) {
		s.signal(start, next, events.SourceEdit)
	}
	return nil
}

func (s *State) resolveAfterEdit(doc *model.Node, mapping selection.Mapping, explicit bool) (selection.Selection, error) {
	if !explicit {
		return s.sel.Map(doc, mapping)
	}
	if selection.IsValid(doc, s.sel) {
		return s.sel, nil
	}
	return s.find(doc, s.sel.Head(), 1, false)
}

// CancelEditOperation ends an operation that did not change the document.
func (s *State) CancelEditOperation() {
	if s.destroyed || !s.inOperation {
		return
	}
	start := s.opStart
	s.inOperation, s.opSet, s.opStart = false, false, nil
	if start != nil && !start.Eq(s.sel) {
		s.CommitToHost(false)
		s.signal(start, s.sel, events.SourceCommand)
	}
}

// OnFocusGained starts idle sync polling unless a poll is already running.
func (s *State) OnFocusGained() {
	if s.destroyed {
		return
	}
	s.publish(event.NewEvent(events.TopicFocusGained, events.FocusChanged{Focused: true}, "reconcile"))
	if s.mode == PollNone {
		s.StartSyncPolling()
	}
}

// OnFocusLost stops idle sync polling.
func (s *State) OnFocusLost() {
	if s.destroyed {
		return
	}
	s.publish(event.NewEvent(events.TopicFocusLost, events.FocusChanged{Focused: false}, "reconcile"))
	if s.mode == PollAwaitingSync {
		s.stopTimer()
		s.mode = PollNone
	}
}

// Destroy cancels any pending timer and clears node marking. Every later
// call is a no-op.
func (s *State) Destroy() {
	if s.destroyed {
		return
	}
	s.stopTimer()
	s.clearNodeMark()
	s.mode = PollNone
	s.destroyed = true
}

func (s *State) syncIdle() {
	if s.composing {
		return
	}
	res, err := s.ResolveFromHost()
	if err != nil {
		s.log.Error("resolving host selection: %v", err)
	}
	if res == Unchanged {
		s.CommitToHost(false)
	}
}

func (s *State) signal(old, sel selection.Selection, source events.Source) {
	s.publish(event.NewEvent(events.TopicSelectionChanged, events.SelectionChanged{Old: old, New: sel, Source: source}, "reconcile"))
}

func (s *State) publish(ev event.TopicProvider) {
	if s.pub == nil {
		return
	}
	if err := s.pub.Publish(context.Background(), ev); err != nil {
		s.log.Warn("publishing %s: %v", ev.EventTopic(), err)
	}
}
