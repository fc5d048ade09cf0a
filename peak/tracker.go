// Package peak follows the envelope of oscillating signals.
package peak

import (
	"github.com/binkynet/BinkyHardware/CapTouchSensor/smooth"
)

// Tracker tracks the peak of a signal that oscillates.
//
// A new peak is taken over instantly, between peaks the tracked value
// decays exponentially towards zero. Only maxima are tracked, pass the
// absolute value for a signal that is symmetrical around zero.
type Tracker struct {
	decay smooth.Filter
}

// NewTracker creates a tracker whose envelope decays with the given time
// constant.
func NewTracker(decayTimeConstant int) (*Tracker, error) {
	f, err := smooth.New(decayTimeConstant)
	if err != nil {
		return nil, err
	}
	return &Tracker{decay: *f}, nil
}

// Update feeds a value and returns the tracked peak.
func (t *Tracker) Update(v int) int {
	if v > t.decay.Value() {
		return t.decay.Reset(v)
	}
	return t.decay.Update(0)
}

// Value returns the tracked peak.
func (t *Tracker) Value() int {
	return t.decay.Value()
}
