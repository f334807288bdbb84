package reconcile

import (
	"github.com/bengler/prosemirror/internal/config"
	"github.com/bengler/prosemirror/internal/event"
	"github.com/bengler/prosemirror/internal/logging"
	"github.com/bengler/prosemirror/internal/model"
	"github.com/bengler/prosemirror/internal/selection"
)

// Finder resolves a position to the nearest valid selection. It matches
// selection.FindSelectionNear, which is the default.
type Finder func(doc *model.Node, pos model.Pos, bias int, textOnly bool) (selection.Selection, error)

// Option configures a State during creation.
type Option func(*State)

// WithConfig sets the polling intervals and host quirks.
func WithConfig(cfg config.SelectionConfig) Option {
	return func(s *State) {
		s.cfg = cfg
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *State) {
		if l != nil {
			s.log = l
		}
	}
}

// WithPublisher sets where change notifications go.
func WithPublisher(p event.Publisher) Option {
	return func(s *State) {
		s.pub = p
	}
}

// WithFinder replaces the position search used to resolve host selections.
func WithFinder(f Finder) Option {
	return func(s *State) {
		if f != nil {
			s.find = f
		}
	}
}

// WithSelection sets the initial selection instead of the start of the
// document.
func WithSelection(sel selection.Selection) Option {
	return func(s *State) {
		s.sel = sel
	}
}
