// Package replay runs recorded traces through a touch sensor, the way the
// firmware would have seen them.
package replay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	log "github.com/inconshreveable/log15"

	"github.com/binkynet/BinkyHardware/CapTouchSensor/crossover"
	"github.com/binkynet/BinkyHardware/CapTouchSensor/peak"
	"github.com/binkynet/BinkyHardware/CapTouchSensor/touch"
	"github.com/binkynet/BinkyHardware/CapTouchSensor/trace"
)

// ErrEmptyTrace is returned when there is nothing to replay.
var ErrEmptyTrace = errors.New("empty trace")

// epoch is the wall clock time of the first sample of a trace.
var epoch = time.Unix(0, 0)

// Event is a touch or release found in a trace.
type Event struct {
	AtMillis int64 `json:"ms"`
	Touched  bool  `json:"touched"`
	Raw      int   `json:"raw"`
	Fast     int   `json:"fast"`
	Slow     int   `json:"slow"`
}

// Sink receives the events of a replay.
type Sink interface {
	Publish(ctx context.Context, ev Event) error
}

// Options configures a replay.
type Options struct {
	// Plot receives a trace line per sample, nil to disable.
	Plot io.Writer
	// Sink receives touch and release events, nil to disable.
	Sink Sink
	// Logger defaults to a discarding logger.
	Logger log.Logger
	// EnvelopeDecay is the time constant of the crossover difference envelope.
	EnvelopeDecay int
	// HumWindow is the window of the hum level, 0 disables it.
	// Use one mains period, e.g. 20ms for 50Hz.
	HumWindow time.Duration
	// HumDecay is the time constant of the hum level.
	HumDecay int
}

// DefaultOptions returns options with diagnostics enabled for 50Hz mains.
func DefaultOptions() Options {
	return Options{
		EnvelopeDecay: 50,
		HumWindow:     20 * time.Millisecond,
		HumDecay:      10,
	}
}

// Summary of a replay.
type Summary struct {
	Samples    int
	Touches    int
	Releases   int
	FinalState crossover.State
	// Envelope of the absolute crossover difference at the end, and its
	// largest value. Useful to choose a delta.
	DeltaEnvelope    int
	MaxDeltaEnvelope int
	// Smoothed max of the raw signal per hum window.
	HumLevel int
}

// cursor is a touch.Source over a trace.
type cursor struct {
	samples []trace.Sample
	pos     int
}

func (c *cursor) Sample() (int, error) {
	if c.pos >= len(c.samples) {
		return 0, io.EOF
	}
	v := c.samples[c.pos].Value
	c.pos++
	return v, nil
}

// Run replays the samples through a sensor with the given config.
// The first sample seeds the sensor.
func Run(ctx context.Context, samples []trace.Sample, cfg touch.Config, opts Options) (Summary, error) {
	var sum Summary
	if len(samples) == 0 {
		return sum, ErrEmptyTrace
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New()
		logger.SetHandler(log.DiscardHandler())
	}
	src := &cursor{samples: samples}
	sensor, err := touch.New(src, cfg)
	if err != nil {
		return sum, fmt.Errorf("failed to create sensor: %w", err)
	}
	envelope, err := peak.NewTracker(opts.EnvelopeDecay)
	if err != nil {
		return sum, fmt.Errorf("failed to create envelope tracker: %w", err)
	}
	var hum *peak.WindowedMax
	if opts.HumWindow > 0 {
		if hum, err = peak.NewWindowedMax(opts.HumWindow, opts.HumDecay); err != nil {
			return sum, fmt.Errorf("failed to create hum tracker: %w", err)
		}
	}

	if err := sensor.Setup(); err != nil {
		return sum, err
	}
	sum.Samples = 1
	logger.Debug("Sensor setup", "value", samples[0].Value, "fast", cfg.Fast, "slow", cfg.Slow, "delta", cfg.Delta)

	for src.pos < len(samples) {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		s := samples[src.pos]
		raw, err := sensor.Read()
		if err != nil {
			return sum, err
		}
		sum.Samples++

		ev := sensor.Poll()
		d := sensor.Detector().CurrentDelta()
		if d < 0 {
			d = -d
		}
		if e := envelope.Update(d); e > sum.MaxDeltaEnvelope {
			sum.MaxDeltaEnvelope = e
		}
		if hum != nil {
			hum.Update(raw, epoch.Add(s.At))
		}
		if opts.Plot != nil {
			if err := sensor.WriteTrace(opts.Plot); err != nil {
				return sum, fmt.Errorf("failed to write plot: %w", err)
			}
		}
		if !ev.Changed() {
			continue
		}

		if ev.TurnedOn {
			sum.Touches++
			logger.Info("Touched", "at", s.At, "raw", raw, "fast", sensor.Fast(), "slow", sensor.Slow())
		} else {
			sum.Releases++
			logger.Info("Released", "at", s.At, "raw", raw, "fast", sensor.Fast(), "slow", sensor.Slow())
		}
		if opts.Sink != nil {
			event := Event{
				AtMillis: s.At.Milliseconds(),
				Touched:  ev.TurnedOn,
				Raw:      raw,
				Fast:     sensor.Fast(),
				Slow:     sensor.Slow(),
			}
			if err := opts.Sink.Publish(ctx, event); err != nil {
				logger.Warn("Failed to publish event", "at", s.At, "err", err)
			}
		}
	}

	sum.FinalState = sensor.Poll().State
	sum.DeltaEnvelope = envelope.Value()
	if hum != nil {
		sum.HumLevel = hum.Value()
	}
	logger.Debug("Replay done", "samples", sum.Samples, "touches", sum.Touches, "releases", sum.Releases)
	return sum, nil
}
