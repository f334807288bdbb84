package reconcile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/bengler/prosemirror/internal/config"
	"github.com/bengler/prosemirror/internal/event"
	"github.com/bengler/prosemirror/internal/event/events"
	"github.com/bengler/prosemirror/internal/host"
	"github.com/bengler/prosemirror/internal/host/hosttest"
	"github.com/bengler/prosemirror/internal/model"
	"github.com/bengler/prosemirror/internal/schedule"
	"github.com/bengler/prosemirror/internal/selection"
)

// p builds a position: p(offset, path...).
func p(offset int, path ...int) model.Pos {
	return model.NewPos(model.Path(path), offset)
}

func imageDoc() *model.Node {
	return model.Doc(model.Paragraph("ab"), model.Image("img.png"), model.Paragraph("cd"))
}

type fixture struct {
	doc    *model.Node
	host   *hosttest.Surface
	clock  *schedule.FakeClock
	state  *State
	events []events.SelectionChanged
	biases []int
}

func newFixture(t *testing.T, doc *model.Node, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{
		doc:   doc,
		host:  hosttest.New(doc),
		clock: schedule.NewFakeClock(time.Unix(0, 0)),
	}

	bus := event.NewBus()
	_, err := bus.Subscribe(events.TopicSelectionChanged, event.HandlerFunc(func(ctx context.Context, ev any) error {
		f.events = append(f.events, ev.(event.Event[events.SelectionChanged]).Payload)
		return nil
	}))
	if err != nil {
		t.Fatal(err)
	}

	finder := func(doc *model.Node, pos model.Pos, bias int, textOnly bool) (selection.Selection, error) {
		f.biases = append(f.biases, bias)
		return selection.FindSelectionNear(doc, pos, bias, textOnly)
	}

	all := append([]Option{WithPublisher(bus), WithFinder(finder)}, opts...)
	st, err := New(doc, f.host, f.clock, all...)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	f.state = st
	return f
}

func (f *fixture) live(t *testing.T) host.Snapshot {
	t.Helper()
	snap, ok := f.host.Selection()
	if !ok {
		t.Fatal("host has no live selection")
	}
	return snap
}

func nextDeadline(t *testing.T, c *schedule.FakeClock) time.Duration {
	t.Helper()
	d, ok := c.NextDeadline()
	if !ok {
		t.Fatal("no pending timer")
	}
	return d
}

func TestNewStartsAtDocumentStart(t *testing.T) {
	f := newFixture(t, imageDoc())

	if want := selection.NewCaret(p(0, 0)); !f.state.Selection().Eq(want) {
		t.Errorf("initial selection = %s, want %s", f.state.Selection(), want)
	}
	if f.state.Mode() != PollNone {
		t.Errorf("initial mode = %s, want none", f.state.Mode())
	}
	if f.clock.Pending() != 0 || f.host.Calls.Writes() != 0 {
		t.Error("New should not schedule or write")
	}
}

func TestNewRejectsInvalidSelection(t *testing.T) {
	doc := imageDoc()
	_, err := New(doc, hosttest.New(doc), schedule.NewFakeClock(time.Unix(0, 0)),
		WithSelection(selection.NewCaret(p(0)))) // between blocks, not in text
	if !errors.Is(err, ErrInvalidSelection) {
		t.Errorf("New() = %v, want ErrInvalidSelection", err)
	}
}

func TestNewFailsWithoutSelectablePosition(t *testing.T) {
	doc := model.Doc()
	_, err := New(doc, hosttest.New(doc), schedule.NewFakeClock(time.Unix(0, 0)))
	if !errors.Is(err, selection.ErrNoSelection) {
		t.Errorf("New() = %v, want ErrNoSelection", err)
	}
}

func TestResolveFromHostUnchangedSnapshotSkipsSearch(t *testing.T) {
	f := newFixture(t, imageDoc())
	f.host.UserSelect(p(1, 0), p(1, 0))

	res, err := f.state.ResolveFromHost()
	if err != nil || res != Changed {
		t.Fatalf("first ResolveFromHost() = %s, %v; want changed", res, err)
	}
	if len(f.biases) != 1 {
		t.Fatalf("finder calls = %d, want 1", len(f.biases))
	}
	lookups := f.host.Calls.PosLookups

	res, err = f.state.ResolveFromHost()
	if err != nil || res != Unchanged {
		t.Fatalf("second ResolveFromHost() = %s, %v; want unchanged", res, err)
	}
	if len(f.biases) != 1 {
		t.Errorf("finder calls = %d after unchanged snapshot, want 1", len(f.biases))
	}
	if f.host.Calls.PosLookups != lookups {
		t.Errorf("position lookups grew from %d to %d", lookups, f.host.Calls.PosLookups)
	}
	if f.host.Calls.Writes() != 0 {
		t.Errorf("host writes = %d, want 0", f.host.Calls.Writes())
	}
	if len(f.events) != 1 || f.events[0].Source != events.SourceHost {
		t.Errorf("events = %+v, want one host change", f.events)
	}
}

func TestResolveFromHostIgnoredWhileComposing(t *testing.T) {
	f := newFixture(t, imageDoc())
	before := f.state.Selection()

	f.state.BeginComposition()
	f.host.UserSelect(p(1, 2), p(1, 2))

	res, err := f.state.ResolveFromHost()
	if err != nil || res != Unchanged {
		t.Errorf("ResolveFromHost() = %s, %v; want unchanged", res, err)
	}
	f.state.PollForUpdate()
	f.state.CommitToHost(true)

	if !f.state.Selection().Eq(before) {
		t.Errorf("selection changed to %s during composition", f.state.Selection())
	}
	if len(f.biases) != 0 {
		t.Errorf("finder called %d times during composition", len(f.biases))
	}
	if f.host.Calls.Writes() != 0 || f.host.Calls.Focus != 0 {
		t.Errorf("host touched during composition: %+v", f.host.Calls)
	}
	if f.clock.Pending() != 0 {
		t.Errorf("PollForUpdate scheduled %d timers during composition", f.clock.Pending())
	}
}

func TestResolveFromHostRequiresFocus(t *testing.T) {
	f := newFixture(t, imageDoc())
	f.host.SetFocus(false)
	f.host.UserSelect(p(1, 2), p(1, 2))

	if res, _ := f.state.ResolveFromHost(); res != Unchanged {
		t.Errorf("ResolveFromHost() = %s without focus, want unchanged", res)
	}
}

func TestResolveFromHostKeepsDirection(t *testing.T) {
	f := newFixture(t, imageDoc())
	f.host.UserSelect(p(2, 2), p(1, 0))

	if res, err := f.state.ResolveFromHost(); err != nil || res != Changed {
		t.Fatalf("ResolveFromHost() = %s, %v", res, err)
	}
	got, ok := f.state.Selection().(*selection.TextSelection)
	if !ok {
		t.Fatalf("selection = %s, want text selection", f.state.Selection())
	}
	if !got.Anchor().Equal(p(2, 2)) || !got.Head().Equal(p(1, 0)) || !got.Inverted() {
		t.Errorf("selection = %s, want Text(2:2->0:1)", got)
	}
	if f.host.Calls.Writes() != 0 {
		t.Errorf("host writes = %d for an exact host selection, want 0", f.host.Calls.Writes())
	}
}

func TestResolveFromHostBias(t *testing.T) {
	f := newFixture(t, imageDoc(), WithSelection(selection.NewCaret(p(1, 2))))

	f.host.UserSelect(p(0, 0), p(0, 0))
	_, _ = f.state.ResolveFromHost()
	f.host.UserSelect(p(2, 2), p(2, 2))
	_, _ = f.state.ResolveFromHost()
	f.host.UserSelect(p(1, 2), p(2, 2))
	_, _ = f.state.ResolveFromHost()

	if diff := cmp.Diff([]int{-1, 1, 1}, f.biases); diff != "" {
		t.Errorf("search bias mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveFromHostCorrectsToNodeSelection(t *testing.T) {
	f := newFixture(t, imageDoc())
	// The caret between the first paragraph and the image is not a valid
	// text position.
	f.host.UserSelect(p(1), p(1))

	if res, err := f.state.ResolveFromHost(); err != nil || res != Changed {
		t.Fatalf("ResolveFromHost() = %s, %v", res, err)
	}
	ns, ok := f.state.Selection().(*selection.NodeSelection)
	if !ok || !ns.From().Equal(p(1)) {
		t.Fatalf("selection = %s, want node selection at :1", f.state.Selection())
	}
	if _, live := f.host.Selection(); live {
		t.Error("native range should be cleared for a node selection")
	}
	if el := f.host.Element(model.Path{1}); el == nil || !el.Selected {
		t.Error("image element not marked")
	}
	if f.state.DetectHostChange() {
		t.Error("DetectHostChange() should be false with no native range")
	}
}

func TestResolveFromHostSearchFailure(t *testing.T) {
	errBoom := errors.New("boom")
	f := newFixture(t, imageDoc(), WithFinder(func(*model.Node, model.Pos, int, bool) (selection.Selection, error) {
		return nil, errBoom
	}))
	before := f.state.Selection()
	f.host.UserSelect(p(1, 0), p(1, 0))

	res, err := f.state.ResolveFromHost()
	if !errors.Is(err, errBoom) || res != Unchanged {
		t.Errorf("ResolveFromHost() = %s, %v; want unchanged, errBoom", res, err)
	}
	if !f.state.Selection().Eq(before) {
		t.Error("selection changed after failed resolution")
	}
}

func TestCommitNodeSelectionMarksOneElement(t *testing.T) {
	doc := model.Doc(model.Paragraph("ab"), model.Image("a"), model.Image("b"), model.Paragraph("cd"))
	f := newFixture(t, doc)

	first, err := selection.NodeSelectionAt(doc, p(1))
	if err != nil {
		t.Fatal(err)
	}
	second, err := selection.NodeSelectionAt(doc, p(2))
	if err != nil {
		t.Fatal(err)
	}

	f.state.SetAndSignal(first, events.SourceCommand)
	f.state.CommitToHost(false)
	f.state.SetAndSignal(second, events.SourceCommand)
	f.state.CommitToHost(false)

	marked := f.host.Marked()
	if len(marked) != 1 || !marked[0].Path.Equal(model.Path{2}) {
		t.Fatalf("marked = %v, want only el(2)", marked)
	}
	if f.host.Calls.MarkChanges != 3 {
		t.Errorf("mark changes = %d, want 3", f.host.Calls.MarkChanges)
	}

	f.state.CommitToHost(false)
	if f.host.Calls.MarkChanges != 3 {
		t.Errorf("re-committing the same node changed marks (%d)", f.host.Calls.MarkChanges)
	}

	f.state.SetAndSignal(selection.NewCaret(p(0, 0)), events.SourceCommand)
	f.state.CommitToHost(false)
	if len(f.host.Marked()) != 0 {
		t.Errorf("text selection left %v marked", f.host.Marked())
	}
}

func TestCommitSkipsRedundantWrites(t *testing.T) {
	f := newFixture(t, imageDoc())
	f.state.SetAndSignal(selection.NewCaret(p(1, 0)), events.SourceCommand)

	f.state.CommitToHost(false)
	if f.host.Calls.Writes() != 3 {
		t.Fatalf("first commit writes = %d, want 3", f.host.Calls.Writes())
	}

	f.host.ResetCalls()
	f.state.CommitToHost(false)
	if f.host.Calls.Writes() != 0 {
		t.Errorf("redundant commit wrote %v", f.host.Ops)
	}

	// Dropping the host cache forces the next write.
	f.state.Set(f.state.Selection(), true)
	f.state.CommitToHost(false)
	if f.host.Calls.Writes() != 3 {
		t.Errorf("commit after cache clear writes = %d, want 3", f.host.Calls.Writes())
	}

	// So does the user moving the native selection.
	f.host.UserSelect(p(2, 2), p(2, 2))
	f.host.ResetCalls()
	f.state.CommitToHost(false)
	if f.host.Calls.Writes() != 3 {
		t.Errorf("commit over drifted host writes = %d, want 3", f.host.Calls.Writes())
	}
}

func TestCommitBackwardSelection(t *testing.T) {
	backward := selection.NewTextSelection(p(1, 2), p(1, 0))

	t.Run("with extend", func(t *testing.T) {
		f := newFixture(t, imageDoc())
		f.state.SetAndSignal(backward, events.SourceCommand)
		f.state.CommitToHost(false)

		if diff := cmp.Diff([]string{"removeAll", "addRange", "extend"}, f.host.Ops); diff != "" {
			t.Errorf("ops mismatch (-want +got):\n%s", diff)
		}
		want := host.Snapshot{Anchor: f.host.Point(p(1, 2)), Head: f.host.Point(p(1, 0))}
		if got := f.live(t); !got.Equal(want) {
			t.Errorf("live = %+v, want directional %+v", got, want)
		}
	})

	t.Run("without extend", func(t *testing.T) {
		f := newFixture(t, imageDoc())
		f.host.SetCanExtend(false)
		f.state.SetAndSignal(backward, events.SourceCommand)
		f.state.CommitToHost(false)

		if diff := cmp.Diff([]string{"removeAll", "addRange"}, f.host.Ops); diff != "" {
			t.Errorf("ops mismatch (-want +got):\n%s", diff)
		}
		want := host.Snapshot{Anchor: f.host.Point(p(1, 0)), Head: f.host.Point(p(1, 2))}
		if got := f.live(t); !got.Equal(want) {
			t.Errorf("live = %+v, want forward %+v", got, want)
		}

		f.host.ResetCalls()
		f.state.CommitToHost(false)
		if len(f.host.Ops) != 0 {
			t.Errorf("forward-installed range rewritten: %v", f.host.Ops)
		}
	})
}

func TestCommitRespectsFocus(t *testing.T) {
	t.Run("never steals focus", func(t *testing.T) {
		f := newFixture(t, imageDoc())
		f.host.SetFocus(false)
		f.state.SetAndSignal(selection.NewCaret(p(1, 0)), events.SourceCommand)
		f.state.CommitToHost(false)
		if len(f.host.Ops) != 0 {
			t.Errorf("unfocused commit performed %v", f.host.Ops)
		}
	})

	t.Run("take focus", func(t *testing.T) {
		f := newFixture(t, imageDoc())
		f.host.SetFocus(false)
		f.state.SetAndSignal(selection.NewCaret(p(1, 0)), events.SourceCommand)
		f.state.CommitToHost(true)
		if diff := cmp.Diff([]string{"removeAll", "addRange", "extend", "focus"}, f.host.Ops); diff != "" {
			t.Errorf("ops mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("force focus before range", func(t *testing.T) {
		cfg := config.Default().Selection
		cfg.ForceFocusBeforeRange = true
		f := newFixture(t, imageDoc(), WithConfig(cfg))
		f.host.SetFocus(false)
		f.state.SetAndSignal(selection.NewCaret(p(1, 0)), events.SourceCommand)
		f.state.CommitToHost(true)
		if diff := cmp.Diff([]string{"focus", "removeAll", "addRange", "extend"}, f.host.Ops); diff != "" {
			t.Errorf("ops mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestCommitMappingFailureSkipsWrite(t *testing.T) {
	f := newFixture(t, imageDoc())
	f.host.FailPointFor = func(pos model.Pos) bool { return pos.Path.Equal(model.Path{2}) }
	f.state.SetAndSignal(selection.NewCaret(p(1, 2)), events.SourceCommand)
	f.state.CommitToHost(false)
	if f.host.Calls.Writes() != 0 {
		t.Errorf("writes = %d, want 0", f.host.Calls.Writes())
	}
}

func TestSetClearsLastNonNodePos(t *testing.T) {
	doc := imageDoc()
	f := newFixture(t, doc)
	f.state.SetLastNonNodePos(p(1, 0))

	ns, err := selection.NodeSelectionAt(doc, p(1))
	if err != nil {
		t.Fatal(err)
	}
	f.state.Set(ns, true)
	if _, ok := f.state.LastNonNodePos(); !ok {
		t.Fatal("node selection should keep the vertical motion position")
	}

	f.state.Set(selection.NewCaret(p(0, 2)), true)
	if _, ok := f.state.LastNonNodePos(); ok {
		t.Error("text selection should clear the vertical motion position")
	}
}

func TestSetAndSignalOnlyOnChange(t *testing.T) {
	f := newFixture(t, imageDoc())

	f.state.SetAndSignal(selection.NewCaret(p(0, 0)), events.SourceCommand)
	if len(f.events) != 0 {
		t.Errorf("equal selection signalled %d events", len(f.events))
	}
	f.state.SetAndSignal(selection.NewCaret(p(1, 0)), events.SourceCommand)
	if len(f.events) != 1 || f.events[0].Source != events.SourceCommand {
		t.Errorf("events = %+v, want one command change", f.events)
	}
	if !f.events[0].Old.Eq(selection.NewCaret(p(0, 0))) || !f.events[0].New.Eq(selection.NewCaret(p(1, 0))) {
		t.Errorf("unexpected payload %+v", f.events[0])
	}
}
