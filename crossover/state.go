package crossover

import "strconv"

// State is the directional state of a Detector.
type State int8

const (
	// Below means v2 leads v1 by at least delta.
	Below State = -1
	// Indeterminate means no threshold has been crossed yet.
	Indeterminate State = 0
	// Above means v1 leads v2 by at least delta.
	Above State = 1
)

// Valid returns true for Below, Indeterminate and Above.
func (s State) Valid() bool {
	return s >= Below && s <= Above
}

func (s State) String() string {
	switch s {
	case Below:
		return "below"
	case Indeterminate:
		return "indeterminate"
	case Above:
		return "above"
	default:
		return "State(" + strconv.Itoa(int(s)) + ")"
	}
}

// Event is the result of a single Poll.
type Event struct {
	State     State
	TurnedOn  bool // State just changed to Above
	TurnedOff bool // State just changed to Below
}

// Changed returns true if the poll observed a transition.
func (e Event) Changed() bool {
	return e.TurnedOn || e.TurnedOff
}
