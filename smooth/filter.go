// Package smooth implements a single-pole exponential smoothing filter over
// integer samples.
package smooth

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidTimeConstant is returned when a filter is created with a
// time constant below 1.
var ErrInvalidTimeConstant = errors.New("time constant must be positive")

// Filter is an exponential smoothing (single-pole IIR low-pass) filter.
//
// The time constant is roughly the number of recent samples that are
// averaged: 5 behaves like averaging the last 5 samples.
//
// The accumulator is kept un-rounded, rounding is only applied when the
// value is read. A fresh filter starts at 0, call Reset with a real sample
// to avoid a slow ramp up.
type Filter struct {
	k        float64
	smoothed float64
}

// New creates a filter with the given time constant.
func New(timeConstant int) (*Filter, error) {
	if timeConstant <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTimeConstant, timeConstant)
	}
	return &Filter{k: float64(timeConstant)}, nil
}

// MustNew is like New but panics on an invalid time constant.
func MustNew(timeConstant int) *Filter {
	f, err := New(timeConstant)
	if err != nil {
		panic(err)
	}
	return f
}

// TimeConstant returns the time constant the filter was created with.
func (f *Filter) TimeConstant() int {
	return int(f.k)
}

// Reset sets the filter state to the given sample, without smoothing.
func (f *Filter) Reset(sample int) int {
	f.smoothed = float64(sample)
	return f.Value()
}

// Update feeds a sample into the filter and returns the smoothed value.
func (f *Filter) Update(sample int) int {
	// Both terms are divided the same way, so a constant input is a
	// fixed point of the recurrence.
	f.smoothed = float64(sample)/f.k + f.smoothed - f.smoothed/f.k
	return f.Value()
}

// Value returns the current smoothed value.
func (f *Filter) Value() int {
	return int(math.Round(f.smoothed))
}
