package reconcile

import "errors"

var (
	// ErrInvalidSelection is returned when a selection does not fit the
	// document it is set on.
	ErrInvalidSelection = errors.New("reconcile: selection not valid in document")

	// ErrEditAborted is returned by AfterEditOperation when the edited
	// document has no valid selection. The state keeps the old document.
	ErrEditAborted = errors.New("reconcile: edit aborted")
)
