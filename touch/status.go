package touch

import "github.com/binkynet/BinkyHardware/CapTouchSensor/crossover"

// MaxStatusSensors is the number of sensors a Status can hold.
const MaxStatusSensors = 8

// Status holds the state of a bank of sensors as bit masks,
// bit i for sensor i.
type Status struct {
	Touching uint8 // Bit per sensor
	Touched  uint8 // Bit per sensor turned on
	Released uint8 // Bit per sensor turned off
}

// Record sets the bits of the sensor with the given index from its last
// polled event. When the latest read failed, the sensor keeps reporting
// the state of that event but no edges.
func (st *Status) Record(index int, last crossover.Event, failed bool) {
	if index < 0 || index >= MaxStatusSensors {
		return
	}
	bit := uint8(1) << index
	if last.State == crossover.Above {
		st.Touching |= bit
	} else {
		st.Touching &^= bit
	}
	if failed {
		return
	}
	if last.TurnedOn {
		st.Touched |= bit
	}
	if last.TurnedOff {
		st.Released |= bit
	}
}

// Merge takes the touching state of next and adds its edges to the ones
// already pending.
func (st *Status) Merge(next Status) {
	st.Touching = next.Touching
	st.Touched |= next.Touched
	st.Released |= next.Released
}

// ClearEdges drops the pending edges.
func (st *Status) ClearEdges() {
	st.Touched, st.Released = 0, 0
}
