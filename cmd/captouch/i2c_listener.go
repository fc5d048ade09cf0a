//go:build tinygo

package main

import (
	"fmt"
	"machine"
)

var (
	// Current firmware version
	version = []byte{0, 2, 0} // Major.Minor.Patch
)

const (
	// Register addresses
	RegVersionMajor = 0x00 // No input, returns 1 version
	RegVersionMinor = 0x01 // No input, returns 1 version
	RegVersionPatch = 0x02 // No input, returns 1 version
	RegSensorCount  = 0x03 // No input, returns 1 byte giving the number of touch sensors (0..8)
	RegOutputCount  = 0x04 // No input, returns 1 byte giving the number of PCF8574 output bits (0, 8)
	RegTouching     = 0x10 // No input, returns 1 byte with a touching bit per sensor
	RegTouched      = 0x11 // No input, returns 1 byte with the sensors touched since the last read
	RegReleased     = 0x12 // No input, returns 1 byte with the sensors released since the last read
	RegHum0         = 0x20 // No input, returns 2 bytes (MSB first) hum level of sensor 0
	RegHum7         = 0x27 // No input, returns 2 bytes (MSB first) hum level of sensor 7
)

// Single i2c message sent to the incoming i2c port
type incomingI2CEvent struct {
	Event       machine.I2CTargetEvent
	HasRegister bool
	Register    uint8
}

// Listen for incoming I2C requests.
func listenForIncomingI2CRequests(i2c *machine.I2C, i2cAddress uint8,
	statusChanges <-chan sensorStatus, sensorCount uint8, outputBitsCount uint8) error {
	// Configure i2c bus as target
	if err := i2c.Configure(machine.I2CConfig{
		Mode: machine.I2CModeTarget,
	}); err != nil {
		return fmt.Errorf("Failed to configure i2c bus: %w", err)
	}

	// Start listening on the i2c bus
	if err := i2c.Listen(uint16(i2cAddress)); err != nil {
		return fmt.Errorf("Failed to listen on i2c bus: %w", err)
	}
	println("Listening on i2c address: ", i2cAddress)

	// Process events & status changes
	events := make(chan incomingI2CEvent)
	go func() {
		var current sensorStatus
		// Edges are latched until read
		var touched, released uint8
		register := uint8(RegTouching)
		var responseBuf [2]uint8
		for {
			select {
			case status := <-statusChanges:
				if status.Touching != current.Touching {
					println("Update touch status: ", status.Touching)
				}
				current = status
				touched |= status.Touched
				released |= status.Released
			case evt := <-events:
				switch evt.Event {
				case machine.I2CReceive:
					// Register select
					if evt.HasRegister {
						register = evt.Register
					}
				case machine.I2CRequest:
					switch {
					case register == RegVersionMajor:
						i2c.Reply(version[0:1])
					case register == RegVersionMinor:
						i2c.Reply(version[1:2])
					case register == RegVersionPatch:
						i2c.Reply(version[2:3])
					case register == RegSensorCount:
						i2c.Reply([]byte{sensorCount})
					case register == RegOutputCount:
						i2c.Reply([]byte{outputBitsCount})
					case register == RegTouching:
						responseBuf[0] = current.Touching
						i2c.Reply(responseBuf[:1])
					case register == RegTouched:
						responseBuf[0] = touched
						i2c.Reply(responseBuf[:1])
						touched = 0
					case register == RegReleased:
						responseBuf[0] = released
						i2c.Reply(responseBuf[:1])
						released = 0
					case register >= RegHum0 && register <= RegHum7:
						hum := current.Hum[register-RegHum0]
						responseBuf[0] = uint8(hum >> 8)
						responseBuf[1] = uint8(hum)
						i2c.Reply(responseBuf[:2])
					default:
						println("I2C:Request: Invalid register ", register)
						i2c.Reply([]byte{0xff, 0xff})
					}
				case machine.I2CFinish:
					// No response needed
				}
			}
		}
	}()
	var buf [8]uint8
	for {
		// Wait for event
		evt, count, err := i2c.WaitForEvent(buf[:])
		if err != nil {
			return fmt.Errorf("Failed to wait for event: %w", err)
		}

		// Handle event
		events <- incomingI2CEvent{
			Event:       evt,
			HasRegister: count >= 1,
			Register:    buf[0],
		}
	}
}
