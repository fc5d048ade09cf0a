package peak

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/binkynet/BinkyHardware/CapTouchSensor/smooth"
)

func TestNewWindowedMax(t *testing.T) {
	tests := []struct {
		name    string
		window  time.Duration
		k       int
		wantErr error
	}{
		{"valid", 100 * time.Millisecond, 4, nil},
		{"zero window", 0, 4, ErrInvalidWindow},
		{"negative window", -time.Second, 4, ErrInvalidWindow},
		{"zero time constant", time.Second, 0, smooth.ErrInvalidTimeConstant},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := NewWindowedMax(tt.window, tt.k)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("NewWindowedMax() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewWindowedMax() error = %v", err)
			}
			if w.Window() != tt.window {
				t.Errorf("Window() = %s, want %s", w.Window(), tt.window)
			}
		})
	}
}

func TestWindowedMaxFinalizesMax(t *testing.T) {
	w, err := NewWindowedMax(100*time.Millisecond, 4)
	if err != nil {
		t.Fatalf("NewWindowedMax() error = %v", err)
	}
	t0 := time.Unix(1000, 0)
	at := func(ms int) time.Time { return t0.Add(time.Duration(ms) * time.Millisecond) }

	w.Update(5, at(0))
	w.Update(50, at(10))
	w.Update(5, at(20))
	if got := w.WindowMax(); got != 50 {
		t.Fatalf("WindowMax() = %d, want 50", got)
	}

	// Window boundary itself still belongs to the first window.
	w.Update(1, at(100))
	if got := w.LastWindowMax(); got != 0 {
		t.Fatalf("window finalized at its boundary, LastWindowMax() = %d", got)
	}

	if got := w.Update(1, at(150)); got != 50 {
		t.Fatalf("Update after window = %d, want 50", got)
	}
	if got := w.LastWindowMax(); got != 50 {
		t.Fatalf("LastWindowMax() = %d, want 50", got)
	}
	if got := w.WindowMax(); got != 1 {
		t.Fatalf("WindowMax() of new window = %d, want 1", got)
	}

	w.Update(7, at(200))
	// 7/4 + 50 - 50/4 = 39.25
	if got := w.Update(0, at(300)); got != 39 {
		t.Fatalf("second window: Value = %d, want 39", got)
	}
	if got := w.Value(); got != 39 {
		t.Fatalf("Value() = %d, want 39", got)
	}
}

func TestWindowedMaxNegativeSamples(t *testing.T) {
	w, err := NewWindowedMax(10*time.Millisecond, 2)
	if err != nil {
		t.Fatalf("NewWindowedMax() error = %v", err)
	}
	t0 := time.Unix(0, 0)
	w.Update(-30, t0)
	w.Update(-3, t0.Add(5*time.Millisecond))
	w.Update(-40, t0.Add(20*time.Millisecond))
	if got := w.LastWindowMax(); got != -3 {
		t.Fatalf("LastWindowMax() = %d, want -3", got)
	}
	if got := w.Value(); got != -3 {
		t.Fatalf("Value() = %d, want -3", got)
	}
}

func TestWindowedMaxReset(t *testing.T) {
	w, err := NewWindowedMax(10*time.Millisecond, 2)
	if err != nil {
		t.Fatalf("NewWindowedMax() error = %v", err)
	}
	t0 := time.Unix(0, 0)
	w.Update(30, t0)
	w.Update(0, t0.Add(time.Second))
	w.Reset()
	if w.Value() != 0 || w.LastWindowMax() != 0 || w.WindowMax() != math.MinInt {
		t.Fatalf("Reset left state: value %d last %d current %d", w.Value(), w.LastWindowMax(), w.WindowMax())
	}
	w.Update(8, t0.Add(2*time.Second))
	w.Update(0, t0.Add(3*time.Second))
	if got := w.Value(); got != 8 {
		t.Fatalf("Value() after reset = %d, want 8", got)
	}
}

func TestWindowedMaxUpdateDoesNotAllocate(t *testing.T) {
	w, err := NewWindowedMax(time.Millisecond*20, 10)
	if err != nil {
		t.Fatalf("NewWindowedMax() error = %v", err)
	}
	now := time.Unix(0, 0)
	v := 0
	allocs := testing.AllocsPerRun(100, func() {
		// Crosses several window boundaries
		now = now.Add(time.Millisecond * 7)
		v = (v + 37) % 1000
		w.Update(v, now)
	})
	if allocs != 0 {
		t.Fatalf("Update allocates %v times", allocs)
	}
}
