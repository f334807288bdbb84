package selection

import (
	"errors"
	"fmt"

	"github.com/bengler/prosemirror/internal/model"
)

// ErrNoSelection indicates that no selectable position is reachable in the
// document. A well-formed document always has one, so this signals an
// invalid document rather than a user error.
var ErrNoSelection = errors.New("no selectable position in document")

// ResolutionError reports a failed search and where it started.
type ResolutionError struct {
	Pos model.Pos
	Err error
}

// Error implements the error interface.
func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolve selection near %s: %v", e.Pos, e.Err)
}

// Unwrap returns the underlying error.
func (e *ResolutionError) Unwrap() error {
	return e.Err
}

func resolutionFailure(pos model.Pos) error {
	return &ResolutionError{Pos: pos, Err: ErrNoSelection}
}
