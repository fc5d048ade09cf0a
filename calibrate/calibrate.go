// Package calibrate derives a crossover delta from a recorded trace.
//
// The trace is replayed through the fast and slow followers, seeded with
// the first sample like a touch sensor. The difference between the two is
// classified with a z-score peak detector: touches and releases show up as
// positive and negative signals, everything else is noise. The suggested
// delta sits above the noise.
//
// The recording should start untouched. The followers agree right after
// seeding, so the baseline is taken from the Lag samples that follow the
// first Slow samples.
package calibrate

import (
	"errors"
	"fmt"
	"math"

	"github.com/MicahParks/peakdetect"
	"gonum.org/v1/gonum/stat"

	"github.com/binkynet/BinkyHardware/CapTouchSensor/smooth"
)

// ErrTooFewSamples is returned when the trace ends before the baseline does.
var ErrTooFewSamples = errors.New("too few samples")

// minNoiseStdDev is the smallest noise deviation assumed when sizing a
// crossing. Differences are whole counts, a quiet baseline rounds to zero.
const minNoiseStdDev = 1.0

// Options configures a calibration run.
type Options struct {
	Fast int // time constant of the fast follower
	Slow int // time constant of the slow follower

	Lag       int     // number of baseline samples
	Influence float64 // influence of signals on the baseline (0..1)
	Threshold float64 // z-score above which a difference is a signal
	Margin    float64 // delta margin in standard deviations of the noise
}

// DefaultOptions returns options matching touch.DefaultConfig.
func DefaultOptions() Options {
	return Options{
		Fast:      20,
		Slow:      50,
		Lag:       30,
		Influence: 0,
		Threshold: 3.5,
		Margin:    4,
	}
}

// Result of a calibration run.
type Result struct {
	Delta int // suggested crossover delta

	NoiseMean   float64
	NoiseStdDev float64
	NoiseMax    int // largest absolute difference not part of a crossing, settle-in included
	MaxDelta    int // largest absolute difference seen

	Crossings int // number of signal runs large enough to be a touch or release
	Positive  int // number of samples in rising crossings
	Negative  int // number of samples in falling crossings
	Neutral   int // number of samples classified as noise, settle-in excluded
}

// Delta replays the raw samples and suggests a crossover delta.
func Delta(samples []int, opts Options) (Result, error) {
	var result Result
	if opts.Lag < 2 {
		return result, fmt.Errorf("lag must be at least 2, got %d", opts.Lag)
	}
	fast, err := smooth.New(opts.Fast)
	if err != nil {
		return result, fmt.Errorf("fast follower: %w", err)
	}
	slow, err := smooth.New(opts.Slow)
	if err != nil {
		return result, fmt.Errorf("slow follower: %w", err)
	}
	settle := opts.Slow
	if len(samples) <= settle+opts.Lag {
		return result, fmt.Errorf("%w: %d samples, need more than %d", ErrTooFewSamples, len(samples), settle+opts.Lag)
	}

	fast.Reset(samples[0])
	slow.Reset(samples[0])
	diffs := make([]float64, len(samples))
	for i := 1; i < len(samples); i++ {
		diffs[i] = float64(fast.Update(samples[i]) - slow.Update(samples[i]))
		if d := absInt(diffs[i]); d > result.MaxDelta {
			result.MaxDelta = d
		}
	}

	baseline := diffs[settle : settle+opts.Lag]
	detector := peakdetect.NewPeakDetector()
	if err := detector.Initialize(opts.Influence, opts.Threshold, baseline); err != nil {
		return result, fmt.Errorf("failed to initialize peak detector: %w", err)
	}
	classified := diffs[settle+opts.Lag:]
	signals := detector.NextBatch(classified)

	noise := append([]float64(nil), baseline...)
	for i, sig := range signals {
		if sig == peakdetect.SignalNeutral {
			noise = append(noise, classified[i])
		}
	}
	updateNoiseMax(&result, diffs[:settle])
	updateNoiseMax(&result, noise)

	// A z-score run that stays small is noise the baseline underestimated.
	_, std := stat.MeanStdDev(noise, nil)
	minPeak := int(math.Ceil(opts.Threshold * math.Max(std, minNoiseStdDev)))
	if minPeak <= result.NoiseMax {
		minPeak = result.NoiseMax + 1
	}
	for _, r := range signalRuns(classified, signals) {
		values := classified[r.start:r.end]
		if r.peak < minPeak {
			noise = append(noise, values...)
			updateNoiseMax(&result, values)
			continue
		}
		result.Crossings++
		if r.signal == peakdetect.SignalPositive {
			result.Positive += len(values)
		} else {
			result.Negative += len(values)
		}
	}
	result.Neutral = len(noise)

	result.NoiseMean, result.NoiseStdDev = stat.MeanStdDev(noise, nil)
	result.Delta = suggestDelta(result, opts.Margin)
	return result, nil
}

// run is a stretch of equal, non-neutral signals.
type run struct {
	start, end int
	signal     peakdetect.Signal
	peak       int
}

func signalRuns(values []float64, signals []peakdetect.Signal) []run {
	var runs []run
	for i := 0; i < len(signals); {
		sig := signals[i]
		if sig == peakdetect.SignalNeutral {
			i++
			continue
		}
		r := run{start: i, signal: sig}
		for ; i < len(signals) && signals[i] == sig; i++ {
			if a := absInt(values[i]); a > r.peak {
				r.peak = a
			}
		}
		r.end = i
		runs = append(runs, r)
	}
	return runs
}

func updateNoiseMax(r *Result, values []float64) {
	for _, d := range values {
		if a := absInt(d); a > r.NoiseMax {
			r.NoiseMax = a
		}
	}
}

func absInt(d float64) int {
	return int(math.Abs(d))
}

func suggestDelta(r Result, margin float64) int {
	delta := r.NoiseMax + 1
	if !math.IsNaN(r.NoiseStdDev) {
		if d := int(math.Ceil(math.Abs(r.NoiseMean) + margin*r.NoiseStdDev)); d > delta {
			delta = d
		}
	}
	return delta
}
