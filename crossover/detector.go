// Package crossover detects when two independently smoothed values cross
// each other by at least some delta.
//
// Typical use is a fast and a slow exponential smoothing of the same raw
// signal: the slow one lags, so when the signal moves the two traces cross.
// That crossing is used instead of a fixed (calibrated) threshold.
//
// The detector remembers its last settled state until the other threshold
// is crossed, which gives a hysteresis band of 2*delta around equality.
package crossover

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDelta is returned for a delta below 1.
	ErrInvalidDelta = errors.New("delta must be positive")
	// ErrInvalidState is returned for an initial state outside Below..Above.
	ErrInvalidState = errors.New("invalid initial state")
)

// Valuer is anything that has a current integer value.
type Valuer interface {
	Value() int
}

// Constant is a Valuer with a fixed value, useful to compare a trace
// against a fixed level.
type Constant int

// Value implements Valuer.
func (c Constant) Value() int {
	return int(c)
}

// Detector compares v1 with v2.
//
// The detector does not own the values it compares, callers keep updating
// them and poll the detector afterwards. A Detector is not safe for
// concurrent use.
type Detector[A, B Valuer] struct {
	v1      A
	v2      B
	delta   int
	state   State
	changed bool
}

// New creates a detector for v1 against v2, starting in the given state.
func New[A, B Valuer](delta int, v1 A, v2 B, initial State) (*Detector[A, B], error) {
	if delta <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDelta, delta)
	}
	if !initial.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidState, initial)
	}
	return &Detector[A, B]{
		v1:    v1,
		v2:    v2,
		delta: delta,
		state: initial,
	}, nil
}

// V1 returns the first compared value.
func (d *Detector[A, B]) V1() A { return d.v1 }

// V2 returns the second compared value.
func (d *Detector[A, B]) V2() B { return d.v2 }

// Delta returns the crossover threshold.
func (d *Detector[A, B]) Delta() int { return d.delta }

// State recalculates and returns the current state.
// A transition sets the one-shot changed flag.
func (d *Detector[A, B]) State() State {
	a, b := d.v1.Value(), d.v2.Value()
	if d.state != Below && b-a >= d.delta {
		d.state = Below
		d.changed = true
	} else if d.state != Above && a-b >= d.delta {
		d.state = Above
		d.changed = true
	}
	return d.state
}

// On returns true if v1 is above v2.
func (d *Detector[A, B]) On() bool {
	return d.State() == Above
}

// Off returns true if v1 is below v2.
// Note that the detector can also be Indeterminate.
func (d *Detector[A, B]) Off() bool {
	return d.State() == Below
}

// Changed returns the one-shot changed flag and clears it.
func (d *Detector[A, B]) Changed() bool {
	c := d.changed
	d.changed = false
	return c
}

// DOn returns true only once after changing to Above.
// The changed flag is only consumed when the state is Above.
func (d *Detector[A, B]) DOn() bool {
	return d.State() == Above && d.Changed()
}

// DOff returns true only once after changing to Below.
// The changed flag is only consumed when the state is Below.
func (d *Detector[A, B]) DOff() bool {
	return d.State() == Below && d.Changed()
}

// Poll recalculates the state and returns it together with the edges,
// consuming the changed flag exactly once.
//
// Use Poll instead of combining State/DOn/DOff when both edges matter.
func (d *Detector[A, B]) Poll() Event {
	s := d.State()
	c := d.Changed()
	return Event{
		State:     s,
		TurnedOn:  c && s == Above,
		TurnedOff: c && s == Below,
	}
}

// CurrentDelta returns v1 - v2. It has no side effects.
func (d *Detector[A, B]) CurrentDelta() int {
	return d.v1.Value() - d.v2.Value()
}
