package touch

import (
	"github.com/binkynet/BinkyHardware/CapTouchSensor/crossover"
)

// Config holds the tuning parameters of a Sensor.
// There is no auto-calibration, these differ per environment
// (e.g. on one table or another).
type Config struct {
	// Fast is the time constant of the fast follower. Large enough to
	// remove most noise, small enough to be responsive.
	Fast int
	// Slow is the time constant of the slow follower. Larger than Fast to
	// give a delta at crossover, small enough to allow a rapid release.
	Slow int
	// Delta is the difference the followers must reach to count as a
	// crossover. It effectively debounces.
	Delta int
	// Initial is the state the sensor starts in.
	Initial crossover.State
	// Falling is set when a touch lowers the raw reading.
	Falling bool
}

// DefaultConfig returns the settings that work for a plain analog pin
// used as cap-touch, starting as not touching.
func DefaultConfig() Config {
	return Config{
		Fast:    20,
		Slow:    50,
		Delta:   10,
		Initial: crossover.Below,
	}
}
