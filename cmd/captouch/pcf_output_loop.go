//go:build tinygo

package main

import (
	"github.com/binkynet/BinkyHardware/CapTouchSensor/devices/pcf8574"
)

// Mirror the touching bits to the outputs of the first PCF8574 device,
// so a touch can drive a relay or led without a host.
func sendPCF8574Outputs(devices []*pcf8574.Device, touching <-chan uint8) {
	for bits := range touching {
		if len(devices) == 0 {
			continue
		}
		if err := devices[0].WriteBits(bits); err != nil {
			println("Failed to set PCF8574 outputs: ", bits, err)
		}
	}
}
