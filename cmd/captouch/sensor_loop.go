//go:build tinygo

package main

import (
	"errors"
	"image/color"
	"time"

	"github.com/binkynet/BinkyHardware/CapTouchSensor/devices/ads1115"
	"github.com/binkynet/BinkyHardware/CapTouchSensor/touch"
	"tinygo.org/x/drivers/ws2812"
)

const (
	maxSensors    = touch.MaxStatusSensors
	probeInterval = time.Millisecond * 10
)

// Snapshot of all sensors after one probe round
type sensorStatus struct {
	touch.Status
	Hum [maxSensors]uint16
}

// Keep probing sensors
func probeSensors(sensors []*Sensor, adsDevs []*ads1115.Device, led ws2812.Device, baseColor color.RGBA,
	statusChanges chan<- sensorStatus, outputs chan<- uint8) {
	var lastTouching uint8
	var pending sensorStatus
	for {
		status, err := probeSensorsOnce(sensors, time.Now())
		showStatus(led, baseColor, status, err)
		if status.Touching != lastTouching {
			lastTouching = status.Touching
			select {
			case outputs <- status.Touching:
			default:
				println("Output loop busy, dropping ", status.Touching)
			}
		}
		// Keep edges until the listener took them
		pending.Merge(status.Status)
		pending.Hum = status.Hum
		select {
		case statusChanges <- pending:
			pending.ClearEdges()
		default:
		}
		if err != nil {
			// Wait a bit
			time.Sleep(time.Millisecond * 200)
			// Reset ADS devices
			for idx, dev := range adsDevs {
				if err := resetADS1115Device(dev); err != nil {
					println("Failed to reset ADS1115 device: ", idx, err)
				} else {
					println("Succesfully reset ADS1115 device: ", idx)
				}
			}
		} else {
			time.Sleep(probeInterval)
		}
	}
}

// Probe all sensors once
func probeSensorsOnce(sensors []*Sensor, now time.Time) (sensorStatus, error) {
	var status sensorStatus
	var allErrs error
	for i, s := range sensors {
		if i >= maxSensors {
			break
		}
		err := s.Probe(now)
		if err != nil {
			println("probe failed: ", i, err)
			allErrs = errors.Join(allErrs, err)
		}
		// A failed read keeps the last known state
		status.Record(i, s.LastEvent(), err != nil)
		if hum := s.HumLevel(); hum > 0 {
			status.Hum[i] = uint16(hum)
		}
	}
	return status, allErrs
}

// Show status on the neopixel
func showStatus(led ws2812.Device, baseColor color.RGBA, status sensorStatus, err error) {
	if err != nil {
		baseColor = colorProbeError
	} else if status.Touching != 0 {
		count := uint8(0)
		for x := status.Touching; x != 0; x &= x - 1 {
			count++
		}
		baseColor = color.RGBA{B: 120 + count*16}
	}
	led.WriteColors([]color.RGBA{baseColor})
}
