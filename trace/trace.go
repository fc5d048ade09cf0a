// Package trace reads and writes recorded sensor traces, so the touch
// detection can be replayed and tuned away from the device.
package trace

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// Sample is a single raw reading.
type Sample struct {
	At    time.Duration // Time since the start of the trace
	Value int
}

// ErrInvalidLine is returned for lines that do not contain a sample.
var ErrInvalidLine = errors.New("invalid trace line")

// Values returns the raw values of the given samples.
func Values(samples []Sample) []int {
	out := make([]int, len(samples))
	for i, s := range samples {
		out[i] = s.Value
	}
	return out
}

// ReadCSV reads a trace with one sample per line, either `value` or
// `millis,value`. Lines starting with '#' are comments.
// Samples without a time are spaced interval apart.
func ReadCSV(r io.Reader, interval time.Duration) ([]Sample, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var samples []Sample
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			return samples, nil
		} else if err != nil {
			return nil, fmt.Errorf("failed to read trace: %w", err)
		}
		line, _ := cr.FieldPos(0)
		s, err := parseRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if len(rec) == 1 {
			s.At = time.Duration(len(samples)) * interval
		}
		samples = append(samples, s)
	}
}

func parseRecord(rec []string) (Sample, error) {
	var s Sample
	switch len(rec) {
	case 1:
		v, err := strconv.Atoi(strings.TrimSpace(rec[0]))
		if err != nil {
			return s, fmt.Errorf("%w: %s", ErrInvalidLine, err)
		}
		s.Value = v
	case 2:
		ms, err := strconv.ParseInt(strings.TrimSpace(rec[0]), 10, 64)
		if err != nil {
			return s, fmt.Errorf("%w: time: %s", ErrInvalidLine, err)
		}
		v, err := strconv.Atoi(strings.TrimSpace(rec[1]))
		if err != nil {
			return s, fmt.Errorf("%w: value: %s", ErrInvalidLine, err)
		}
		s.At = time.Duration(ms) * time.Millisecond
		s.Value = v
	default:
		return s, fmt.Errorf("%w: %d fields", ErrInvalidLine, len(rec))
	}
	return s, nil
}

// WriteCSV writes samples as `millis,value` lines.
func WriteCSV(w io.Writer, samples []Sample) error {
	cw := csv.NewWriter(w)
	for _, s := range samples {
		rec := []string{
			strconv.FormatInt(s.At.Milliseconds(), 10),
			strconv.Itoa(s.Value),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("failed to write trace: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
