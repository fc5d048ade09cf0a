// Package edge reports changes of an already debounced discrete signal.
//
// Switches are noisy, debounce before feeding a Detector:
//
//	var sw edge.Detector[bool]
//	for {
//		pressed := debounce(pin.Get())
//		if sw.Changed(pressed) {
//			if pressed {
//				start()
//			} else {
//				stop()
//			}
//		}
//	}
package edge

// Detector is a one-shot change detector.
// The zero value starts with the zero value of T as last recorded value.
type Detector[T comparable] struct {
	last T
}

// New creates a detector with the given initial value.
func New[T comparable](initial T) *Detector[T] {
	return &Detector[T]{last: initial}
}

// Changed returns true if v differs from the previous value,
// and records v.
func (d *Detector[T]) Changed(v T) bool {
	if v == d.last {
		return false
	}
	d.last = v
	return true
}

// Last returns the last recorded value.
func (d *Detector[T]) Last() T {
	return d.last
}
