package trace

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestReadCSV(t *testing.T) {
	in := `# baseline
500
502

510
`
	samples, err := ReadCSV(strings.NewReader(in), 10*time.Millisecond)
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	want := []Sample{
		{0, 500},
		{10 * time.Millisecond, 502},
		{20 * time.Millisecond, 510},
	}
	if len(samples) != len(want) {
		t.Fatalf("ReadCSV() returned %d samples, want %d", len(samples), len(want))
	}
	for i := range want {
		if samples[i] != want[i] {
			t.Errorf("sample %d = %+v, want %+v", i, samples[i], want[i])
		}
	}
}

func TestReadCSVWithTime(t *testing.T) {
	in := "0,500\n17, 501\n35,499\n"
	samples, err := ReadCSV(strings.NewReader(in), time.Second)
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	if len(samples) != 3 {
		t.Fatalf("ReadCSV() returned %d samples", len(samples))
	}
	if samples[1] != (Sample{17 * time.Millisecond, 501}) {
		t.Errorf("sample 1 = %+v", samples[1])
	}
	if got := Values(samples); got[0] != 500 || got[1] != 501 || got[2] != 499 {
		t.Errorf("Values() = %v", got)
	}
}

func TestReadCSVInvalid(t *testing.T) {
	for _, in := range []string{"abc\n", "1,2,3\n", "x,5\n", "5,y\n"} {
		if _, err := ReadCSV(strings.NewReader(in), time.Millisecond); !errors.Is(err, ErrInvalidLine) {
			t.Errorf("ReadCSV(%q) error = %v, want ErrInvalidLine", in, err)
		}
	}
}

func TestCSVRoundTrip(t *testing.T) {
	samples := []Sample{{0, 1}, {5 * time.Millisecond, -2}, {9 * time.Millisecond, 1023}}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, samples); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}
	if got := buf.String(); got != "0,1\n5,-2\n9,1023\n" {
		t.Fatalf("WriteCSV() = %q", got)
	}
	back, err := ReadCSV(&buf, time.Millisecond)
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	for i := range samples {
		if back[i] != samples[i] {
			t.Errorf("sample %d = %+v, want %+v", i, back[i], samples[i])
		}
	}
}

func TestWAV(t *testing.T) {
	samples := []Sample{{Value: 500}, {Value: 600}, {Value: -7}, {Value: 4095}}
	var buf bytes.Buffer
	if err := WriteWAV(&buf, samples, 1000); err != nil {
		t.Fatalf("WriteWAV() error = %v", err)
	}
	back, err := ReadWAV(bytes.NewReader(buf.Bytes()), 0)
	if err != nil {
		t.Fatalf("ReadWAV() error = %v", err)
	}
	if len(back) != len(samples) {
		t.Fatalf("ReadWAV() returned %d samples, want %d", len(back), len(samples))
	}
	for i, s := range samples {
		if back[i].Value != s.Value {
			t.Errorf("sample %d = %d, want %d", i, back[i].Value, s.Value)
		}
		if want := time.Duration(i) * time.Millisecond; back[i].At != want {
			t.Errorf("sample %d at %s, want %s", i, back[i].At, want)
		}
	}
	if _, err := ReadWAV(bytes.NewReader(buf.Bytes()), 1); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("ReadWAV(channel 1) error = %v, want ErrUnsupportedFormat", err)
	}
}
