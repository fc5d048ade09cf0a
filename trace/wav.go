package trace

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/youpy/go-wav"
)

// ErrUnsupportedFormat is returned for WAV files that are not PCM.
var ErrUnsupportedFormat = errors.New("unsupported wav format")

// WAVSource is what the WAV reader needs to read a file.
type WAVSource interface {
	io.Reader
	io.ReaderAt
}

// ReadWAV reads one channel of a PCM WAV file, e.g. an ADC capture
// recorded at a fixed sample rate. Values are the signed PCM values.
func ReadWAV(r WAVSource, channel uint) ([]Sample, error) {
	rd := wav.NewReader(r)
	format, err := rd.Format()
	if err != nil {
		return nil, fmt.Errorf("failed to read wav format: %w", err)
	}
	if format.AudioFormat != wav.AudioFormatPCM {
		return nil, fmt.Errorf("%w: audio format %d", ErrUnsupportedFormat, format.AudioFormat)
	}
	if format.SampleRate == 0 {
		return nil, fmt.Errorf("%w: sample rate 0", ErrUnsupportedFormat)
	}
	if channel >= uint(format.NumChannels) {
		return nil, fmt.Errorf("%w: channel %d of %d", ErrUnsupportedFormat, channel, format.NumChannels)
	}

	var samples []Sample
	for {
		batch, err := rd.ReadSamples()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("failed to read wav samples: %w", err)
		}
		for _, s := range batch {
			samples = append(samples, Sample{
				At:    time.Duration(len(samples)) * time.Second / time.Duration(format.SampleRate),
				Value: rd.IntValue(s, channel),
			})
		}
	}
	return samples, nil
}

// WriteWAV writes the values of the given samples as a mono 16-bit PCM
// WAV file with the given sample rate.
func WriteWAV(w io.Writer, samples []Sample, sampleRate uint32) error {
	wr := wav.NewWriter(w, uint32(len(samples)), 1, sampleRate, 16)
	buf := make([]wav.Sample, len(samples))
	for i, s := range samples {
		buf[i].Values[0] = s.Value
	}
	if err := wr.WriteSamples(buf); err != nil {
		return fmt.Errorf("failed to write wav samples: %w", err)
	}
	return nil
}
