package pcf8574

import (
	"fmt"

	"tinygo.org/x/drivers"
)

// Addresses lists all addresses a PCF8574 can be strapped to.
var Addresses = []uint8{0x20, 0x21, 0x22, 0x23, 0x24, 0x25, 0x26, 0x27}

// Device implements access to an PCF8574 device.
type Device struct {
	i2c        drivers.I2C
	i2cAddress uint8
	bits       uint8
}

// New initializes a new device attached to given I2C bus.
func New(i2c drivers.I2C, i2cAddress uint8) *Device {
	return &Device{
		i2c:        i2c,
		i2cAddress: i2cAddress,
	}
}

// Reset the device to default configuration
func (dev *Device) Reset() error {
	if err := dev.WriteBits(0); err != nil {
		return fmt.Errorf("WriteBits failed: %w", err)
	}
	return nil
}

// Write 8-bits out binary output
func (dev *Device) WriteBits(value uint8) error {
	w := [1]uint8{value}
	if err := dev.i2c.Tx(uint16(dev.i2cAddress), w[:], nil); err != nil {
		return err
	}
	dev.bits = value
	return nil
}

// Bits returns the last written output bits.
func (dev *Device) Bits() uint8 {
	return dev.bits
}
