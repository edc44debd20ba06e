package requisition

import "fmt"

// State is the phase a run is in.
type State string

const (
	StateAwaitingFile      State = "AWAITING_FILE"
	StateAwaitingUserReady State = "AWAITING_USER_READY"
	StateParsing           State = "PARSING"
	StateGrowing           State = "GROWING"
	StateFilling           State = "FILLING"
	StateCategorizing      State = "CATEGORIZING"
	StateDone              State = "DONE"
	StateAborted           State = "ABORTED"
	StateFailed            State = "FAILED"
)

func (s State) String() string { return string(s) }

// IsTerminal reports whether no further transition is possible from s.
func IsTerminal(s State) bool {
	switch s {
	case StateDone, StateAborted, StateFailed:
		return true
	default:
		return false
	}
}

// Transition validates a move from one state to another.
func Transition(from, to State) error {
	if !isAllowedTransition(from, to) {
		return fmt.Errorf("disallowed transition: %s -> %s", from, to)
	}
	return nil
}

func isAllowedTransition(from, to State) bool {
	if IsTerminal(from) {
		return false
	}
	if to == StateFailed {
		return true
	}

	switch from {
	case StateAwaitingFile:
		return to == StateAwaitingUserReady || to == StateAborted
	case StateAwaitingUserReady:
		return to == StateParsing || to == StateAborted
	case StateParsing:
		return to == StateGrowing
	case StateGrowing:
		return to == StateFilling
	case StateFilling:
		return to == StateCategorizing
	case StateCategorizing:
		return to == StateDone
	default:
		return false
	}
}
