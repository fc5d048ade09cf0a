// Package touch turns a noisy analog reading (e.g. an analog pin used as
// cap-touch) into touched/released events.
//
// The raw signal is followed by a fast and a slow exponential smoothing.
// When the two cross (because the slow one lags behind) by at least a
// delta, that is a touch or a release.
//
//	s, err := touch.New(src, touch.DefaultConfig())
//	...
//	s.Setup()
//	for {
//		s.Read()
//		ev := s.Poll()
//		if ev.TurnedOn { ... }
//	}
package touch

import (
	"errors"
	"fmt"
	"io"

	"github.com/binkynet/BinkyHardware/CapTouchSensor/crossover"
	"github.com/binkynet/BinkyHardware/CapTouchSensor/smooth"
)

// ErrNotSetup is returned by Read before Setup succeeded.
var ErrNotSetup = errors.New("sensor not setup")

// Sensor binds a sample source to a crossover detector over a fast and a
// slow follower. A Sensor is not safe for concurrent use.
type Sensor struct {
	src     Source
	cfg     Config
	fast    smooth.Filter
	slow    smooth.Filter
	cross   *crossover.Detector[*smooth.Filter, *smooth.Filter]
	isSetup bool
}

// New creates a sensor reading from src.
func New(src Source, cfg Config) (*Sensor, error) {
	fast, err := smooth.New(cfg.Fast)
	if err != nil {
		return nil, fmt.Errorf("fast follower: %w", err)
	}
	slow, err := smooth.New(cfg.Slow)
	if err != nil {
		return nil, fmt.Errorf("slow follower: %w", err)
	}
	s := &Sensor{
		src:  src,
		cfg:  cfg,
		fast: *fast,
		slow: *slow,
	}
	// On is v1 above v2, so compare such that a touch turns it on.
	v1, v2 := &s.fast, &s.slow
	if cfg.Falling {
		v1, v2 = v2, v1
	}
	s.cross, err = crossover.New(cfg.Delta, v1, v2, cfg.Initial)
	if err != nil {
		return nil, fmt.Errorf("crossover: %w", err)
	}
	return s, nil
}

// Config returns the tuning parameters.
func (s *Sensor) Config() Config {
	return s.cfg
}

// Setup seeds both followers with a real sample, so the detector starts
// from the current reading instead of drifting in from zero.
func (s *Sensor) Setup() error {
	v, err := s.src.Sample()
	if err != nil {
		return fmt.Errorf("initial sample failed: %w", err)
	}
	s.Seed(v)
	return nil
}

// Seed sets both followers to the given sample.
func (s *Sensor) Seed(sample int) {
	s.fast.Reset(sample)
	s.slow.Reset(sample)
	s.isSetup = true
}

// Read acquires a sample and feeds it to both followers.
// The raw sample is returned for convenience.
func (s *Sensor) Read() (int, error) {
	if !s.isSetup {
		return 0, ErrNotSetup
	}
	v, err := s.src.Sample()
	if err != nil {
		return 0, fmt.Errorf("sample failed: %w", err)
	}
	s.Feed(v)
	return v, nil
}

// Feed feeds a sample that was acquired elsewhere to both followers.
func (s *Sensor) Feed(sample int) {
	s.fast.Update(sample)
	s.slow.Update(sample)
}

// Poll returns the touch state with the touched/released edges.
func (s *Sensor) Poll() crossover.Event {
	return s.cross.Poll()
}

// Touched returns true only once, till released and touched again.
func (s *Sensor) Touched() bool {
	return s.cross.DOn()
}

// Released returns true only once, till touched and released again.
func (s *Sensor) Released() bool {
	return s.cross.DOff()
}

// Touching returns true while touched.
func (s *Sensor) Touching() bool {
	return s.cross.On()
}

// NotTouching returns true while released.
// Note that the sensor can also be indeterminate.
func (s *Sensor) NotTouching() bool {
	return s.cross.Off()
}

// Fast returns the value of the fast follower.
func (s *Sensor) Fast() int { return s.fast.Value() }

// Slow returns the value of the slow follower.
func (s *Sensor) Slow() int { return s.slow.Value() }

// Detector gives access to the underlying crossover detector.
func (s *Sensor) Detector() *crossover.Detector[*smooth.Filter, *smooth.Filter] {
	return s.cross
}

// WriteTrace writes a line suitable for plotting, to see the values when
// tuning the parameters: a state mark (11 touching, -9 released,
// 1 indeterminate), both compared values and their difference.
func (s *Sensor) WriteTrace(w io.Writer) error {
	mark := 1
	switch s.cross.State() {
	case crossover.Above:
		mark += 10
	case crossover.Below:
		mark -= 10
	}
	_, err := fmt.Fprintf(w, "%d %d %d %d\n",
		mark, s.cross.V1().Value(), s.cross.V2().Value(), s.cross.CurrentDelta())
	return err
}
