package peak

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/binkynet/BinkyHardware/CapTouchSensor/smooth"
)

// ErrInvalidWindow is returned for a window duration that is not positive.
var ErrInvalidWindow = errors.New("window must be positive")

// WindowedMax keeps the maximum over a short time window and smooths the
// sequence of window maxima.
//
// E.g. a long cap-touch lead picks up mains hum, with a window of one hum
// period the smoothed window max follows the hum amplitude.
//
// Time is passed in by the caller, WindowedMax never reads a clock.
type WindowedMax struct {
	window time.Duration
	smooth smooth.Filter

	started     bool
	seeded      bool
	windowStart time.Time
	currentMax  int
	lastMax     int
}

// NewWindowedMax creates a windowed max with the given window duration
// and smoothing time constant for the window maxima.
func NewWindowedMax(window time.Duration, decayTimeConstant int) (*WindowedMax, error) {
	if window <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidWindow, window)
	}
	f, err := smooth.New(decayTimeConstant)
	if err != nil {
		return nil, err
	}
	return &WindowedMax{
		window:     window,
		smooth:     *f,
		currentMax: math.MinInt,
	}, nil
}

// Window returns the window duration.
func (w *WindowedMax) Window() time.Duration {
	return w.window
}

// Update feeds a value sampled at the given time.
// It returns the smoothed max of the finalized windows, the window that is
// still in progress does not contribute.
func (w *WindowedMax) Update(v int, now time.Time) int {
	switch {
	case !w.started:
		w.started = true
		w.windowStart = now
	case now.Sub(w.windowStart) > w.window:
		w.finalize()
		w.windowStart = now
	}
	if v > w.currentMax {
		w.currentMax = v
	}
	return w.smooth.Value()
}

func (w *WindowedMax) finalize() {
	w.lastMax = w.currentMax
	if w.seeded {
		w.smooth.Update(w.currentMax)
	} else {
		// First window, start the average from a real value.
		w.smooth.Reset(w.currentMax)
		w.seeded = true
	}
	w.currentMax = math.MinInt
}

// Value returns the smoothed max of the finalized windows.
func (w *WindowedMax) Value() int {
	return w.smooth.Value()
}

// WindowMax returns the max of the window in progress, or math.MinInt if
// nothing was sampled yet.
func (w *WindowedMax) WindowMax() int {
	return w.currentMax
}

// LastWindowMax returns the max of the last finalized window.
func (w *WindowedMax) LastWindowMax() int {
	return w.lastMax
}

// Reset forgets all windows.
func (w *WindowedMax) Reset() {
	w.started = false
	w.seeded = false
	w.currentMax = math.MinInt
	w.lastMax = 0
	w.smooth.Reset(0)
}
