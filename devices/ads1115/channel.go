package ads1115

import (
	"errors"
	"fmt"
	"time"
)

const (
	maxConversionDuration = time.Millisecond * 500
	busyPollInterval      = time.Microsecond * 50
)

// ErrConversionTimeout is returned when a conversion does not finish in time.
var ErrConversionTimeout = errors.New("conversion timeout")

// Channel is a single ended input of a device.
// It can be used as the sample source of a touch sensor.
type Channel struct {
	dev     *Device
	channel uint8
	timeout time.Duration
}

// Channel returns the given input (0-3) of the device.
func (dev *Device) Channel(channel uint8) *Channel {
	return &Channel{dev: dev, channel: channel, timeout: maxConversionDuration}
}

// SetTimeout changes how long Sample waits for a conversion.
// Zero or less restores the default of 500ms.
func (c *Channel) SetTimeout(timeout time.Duration) {
	if timeout <= 0 {
		timeout = maxConversionDuration
	}
	c.timeout = timeout
}

// Index returns the channel number.
func (c *Channel) Index() uint8 {
	return c.channel
}

// Sample runs a single conversion on this channel and returns the raw value.
func (c *Channel) Sample() (int, error) {
	// Select channel
	if err := c.dev.SetSingleChannel(c.channel); err != nil {
		return 0, fmt.Errorf("SetSingleChannel failed: %w", err)
	}
	// Start measurement
	if err := c.dev.StartSingleMeasurement(); err != nil {
		return 0, fmt.Errorf("StartSingleMeasurement failed: %w", err)
	}
	// Wait until ready
	start := time.Now()
	for {
		if busy, err := c.dev.IsBusy(); err != nil {
			return 0, fmt.Errorf("IsBusy failed: %w", err)
		} else if !busy {
			break
		}
		if time.Since(start) >= c.timeout {
			return 0, ErrConversionTimeout
		}
		time.Sleep(busyPollInterval)
	}
	raw, err := c.dev.GetRawConversion()
	if err != nil {
		return 0, fmt.Errorf("GetRawConversion failed: %w", err)
	}
	// Single ended conversions are signed 16-bit
	return int(int16(raw)), nil
}
