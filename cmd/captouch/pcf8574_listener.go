//go:build tinygo

package main

import (
	"fmt"
	"machine"
)

// Listen for PCF8574 compatible requests on the given i2c
// bus with the given address.
// Every read returns the touching bits, like the inputs of a PCF8574.
func listenForPCF8574Requests(i2c *machine.I2C, i2cAddress uint8, statusChanges <-chan sensorStatus) error {
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
	println("Listening (PCF8574 mode) on i2c address: ", i2cAddress)

	// Process events & status changes
	events := make(chan machine.I2CTargetEvent)
	go func() {
		var responseBuf [1]uint8
		for {
			select {
			case status := <-statusChanges:
				responseBuf[0] = status.Touching
			case evt := <-events:
				switch evt {
				case machine.I2CReceive:
					// Writes would drive outputs on a real PCF8574, ignore them
				case machine.I2CRequest:
					i2c.Reply(responseBuf[:])
				case machine.I2CFinish:
					// No response needed
				}
			}
		}
	}()
	var buf [8]uint8
	for {
		// Wait for event
		evt, _, err := i2c.WaitForEvent(buf[:])
		if err != nil {
			return fmt.Errorf("Failed to wait for event: %w", err)
		}
		events <- evt
	}
}
