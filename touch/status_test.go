package touch

import (
	"testing"

	"github.com/binkynet/BinkyHardware/CapTouchSensor/crossover"
)

func TestStatusRecord(t *testing.T) {
	touched := crossover.Event{State: crossover.Above, TurnedOn: true}
	tests := []struct {
		name   string
		start  Status
		index  int
		last   crossover.Event
		failed bool
		want   Status
	}{
		{"touch", Status{}, 2, touched, false, Status{Touching: 0x04, Touched: 0x04}},
		{"release", Status{Touching: 0x05}, 0, crossover.Event{State: crossover.Below, TurnedOff: true}, false, Status{Touching: 0x04, Released: 0x01}},
		{"failed read keeps touching", Status{}, 3, touched, true, Status{Touching: 0x08}},
		{"failed read keeps released", Status{Touching: 0x08}, 3, crossover.Event{State: crossover.Below}, true, Status{}},
		{"not setup", Status{}, 1, crossover.Event{}, false, Status{}},
		{"index out of range", Status{}, MaxStatusSensors, touched, false, Status{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := tt.start
			st.Record(tt.index, tt.last, tt.failed)
			if st != tt.want {
				t.Fatalf("Record() = %+v, want %+v", st, tt.want)
			}
		})
	}
}

// A sensor that stays touched while one of its reads fails must never
// report a touching gap.
func TestStatusRecordTouchingAcrossFailedRead(t *testing.T) {
	rounds := []struct {
		last   crossover.Event
		failed bool
	}{
		{crossover.Event{State: crossover.Above, TurnedOn: true}, false},
		{crossover.Event{State: crossover.Above, TurnedOn: true}, true}, // event of the previous round
		{crossover.Event{State: crossover.Above}, false},
	}
	touchedEdges := 0
	for i, r := range rounds {
		var st Status
		st.Record(0, r.last, r.failed)
		if st.Touching&1 == 0 {
			t.Fatalf("round %d: not touching", i)
		}
		if st.Released != 0 {
			t.Fatalf("round %d: released", i)
		}
		if st.Touched&1 != 0 {
			touchedEdges++
		}
	}
	if touchedEdges != 1 {
		t.Fatalf("touched reported %d times, want 1", touchedEdges)
	}
}

func TestStatusMerge(t *testing.T) {
	var pending Status
	pending.Merge(Status{Touching: 0x01, Touched: 0x01})
	pending.Merge(Status{Touching: 0x00, Released: 0x01})
	want := Status{Touching: 0x00, Touched: 0x01, Released: 0x01}
	if pending != want {
		t.Fatalf("Merge() = %+v, want %+v", pending, want)
	}
	pending.ClearEdges()
	if pending != (Status{}) {
		t.Fatalf("ClearEdges() = %+v", pending)
	}
}
