package editor

import "errors"

var (
	// ErrBusy is returned when an action is started while the same kind of
	// action is still in flight.
	ErrBusy = errors.New("editor: action already in progress")

	// ErrClosed is returned once the session has been closed. Results of
	// calls that complete after Close are discarded.
	ErrClosed = errors.New("editor: session closed")
)

// State is the orchestration state of a session.
type State int

const (
	StateIdle State = iota
	StateValidating
	StateSubmitting
	StateTesting
	StateDeleting
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateSubmitting:
		return "submitting"
	case StateTesting:
		return "testing"
	case StateDeleting:
		return "deleting"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Loading holds one in-flight flag per backend mutation.
type Loading struct {
	Create bool
	Update bool
	Delete bool
	Test   bool
}

// Saving reports whether a save or delete is in flight. Testing has its own
// flag and does not count.
func (l Loading) Saving() bool { return l.Create || l.Update || l.Delete }

// Action names a user-triggered operation.
type Action string

const (
	ActionSubmit Action = "submit"
	ActionTest   Action = "test"
	ActionDelete Action = "delete"
)

// Activity reports an action starting (Done false) or finishing (Done true,
// with Err set on failure).
type Activity struct {
	Action Action
	Route  string
	Done   bool
	Err    error
}
