package app

import (
	"context"

	"github.com/gdamore/tcell/v2"

	"github.com/bengler/prosemirror/internal/config"
	"github.com/bengler/prosemirror/internal/event"
	"github.com/bengler/prosemirror/internal/event/events"
	"github.com/bengler/prosemirror/internal/host/term"
	"github.com/bengler/prosemirror/internal/logging"
	"github.com/bengler/prosemirror/internal/selection"
)

// handleEvent routes one terminal event. The surface sees every event
// first so its native selection is up to date before the state machine is
// told about it. It returns ErrQuit when the user asks to quit.
func (app *Application) handleEvent(ev tcell.Event) error {
	n := app.surface.HandleEvent(ev)
	if n.Has(term.NoticeFocusLost) {
		app.state.OnFocusLost()
	}
	if n.Has(term.NoticeFocusGained) {
		app.state.OnFocusGained()
	}
	if n.Has(term.NoticeSelection) {
		app.state.PollForUpdate()
	}

	switch ev := ev.(type) {
	case *tcell.EventKey:
		return app.handleKey(ev)
	case *tcell.EventPaste:
		app.handlePaste(ev)
	}
	return nil
}

func (app *Application) handleKey(ev *tcell.EventKey) error {
	if app.pasting {
		switch ev.Key() {
		case tcell.KeyRune:
			app.paste = append(app.paste, ev.Rune())
		case tcell.KeyEnter, tcell.KeyTab:
			app.paste = append(app.paste, ' ')
		}
		return nil
	}

	var err error
	switch ev.Key() {
	case tcell.KeyCtrlQ, tcell.KeyCtrlC:
		return ErrQuit
	case tcell.KeyLeft:
		app.editor.Move(-1, ev.Modifiers()&tcell.ModAlt != 0)
	case tcell.KeyRight:
		app.editor.Move(1, ev.Modifiers()&tcell.ModAlt != 0)
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		err = app.editor.DeleteBackward()
	case tcell.KeyCtrlA:
		err = app.selectAll()
	case tcell.KeyRune:
		err = app.editor.InsertText(string(ev.Rune()))
	}
	if err != nil {
		app.log.Warn("key %s: %v", ev.Name(), err)
	}
	return nil
}

// handlePaste treats a bracketed paste as a composition: host
// reconciliation is suspended while the text arrives and the text is
// inserted once it ends.
func (app *Application) handlePaste(ev *tcell.EventPaste) {
	switch {
	case ev.Start():
		app.pasting = true
		app.paste = app.paste[:0]
		app.state.BeginComposition()
	case ev.End():
		app.pasting = false
		app.state.EndComposition()
		if len(app.paste) == 0 {
			return
		}
		if err := app.editor.InsertText(string(app.paste)); err != nil {
			app.log.Warn("paste: %v", err)
		}
	}
}

// selectAll selects from the first to the last text position.
func (app *Application) selectAll() error {
	doc := app.editor.Doc()
	start, err := selection.FindSelectionAtStart(doc, nil, true)
	if err != nil {
		return err
	}
	end, err := selection.FindSelectionAtEnd(doc, nil, true)
	if err != nil {
		return err
	}
	return app.editor.SetSelection(selection.NewTextSelection(start.Head(), end.Head()), false)
}

// reloadConfig applies a changed configuration file. An invalid file is
// logged and the running configuration kept.
func (app *Application) reloadConfig(path string) {
	cfg, err := config.Load(path)
	if err != nil {
		app.log.Warn("reloading %s: %v", path, err)
		return
	}
	if app.opts.LogLevel != "" {
		cfg.Logging.Level = app.opts.LogLevel
	}
	app.cfg = cfg
	app.log.SetLevel(logging.ParseLevel(cfg.Logging.Level))
	app.state.SetConfig(cfg.Selection)
	app.log.Info("configuration reloaded from %s", path)

	ev := event.NewEvent(events.TopicConfigReloaded, events.ConfigReloaded{Path: path}, "app")
	if err := app.bus.Publish(context.Background(), ev); err != nil {
		app.log.Warn("publishing %s: %v", ev.EventTopic(), err)
	}
}
