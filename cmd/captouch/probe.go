//go:build tinygo

package main

import (
	"fmt"
	"image/color"
	"machine"
	"time"

	"github.com/binkynet/BinkyHardware/CapTouchSensor/devices/ads1115"
	"github.com/binkynet/BinkyHardware/CapTouchSensor/devices/pcf8574"
	"tinygo.org/x/drivers/ws2812"
)

// Try to detect ADS1115 addresses.
// Only when 1 or 2 devices are found, are they returned.
func probeADS1115Devices(led ws2812.Device) ([]*ads1115.Device, color.RGBA) {
	for {
		println("Configure i2c0...")
		if err := machine.I2C0.Configure(machine.I2CConfig{}); err != nil {
			led.WriteColors([]color.RGBA{colorI2cConfigError})
		} else {
			println("Probing ADS1115 devices")
			var adsDevs []*ads1115.Device
			for _, i2cAddress := range ads1115.Addresses {
				dev := ads1115.New(machine.I2C0, i2cAddress)
				if err := resetADS1115Device(dev); err == nil {
					println("Found ADS1115 at address: ", i2cAddress)
					adsDevs = append(adsDevs, dev)
				}
			}
			switch len(adsDevs) {
			case 0:
				led.WriteColors([]color.RGBA{colorNoAdsDevsFound})
			case 1:
				led.WriteColors([]color.RGBA{colorIdle1AdsDevFound})
				return adsDevs, colorIdle1AdsDevFound
			case 2:
				led.WriteColors([]color.RGBA{colorIdle2AdsDevsFound})
				return adsDevs, colorIdle2AdsDevsFound
			default:
				led.WriteColors([]color.RGBA{colorTooManyAdsDevsFound})
			}

			// Wait until trying again
			time.Sleep(time.Second * 3)
		}
		led.WriteColors([]color.RGBA{colorBoot})
		time.Sleep(time.Second * 1)
	}
}

// Reset the given device to desired values.
// Touch pads on a 3.3V supply, so the 4.096V range gives the best resolution.
func resetADS1115Device(dev *ads1115.Device) error {
	if err := dev.Reset(); err != nil {
		return fmt.Errorf("Reset failed: %w", err)
	}
	if err := dev.SetVoltageRangeMilliV(ads1115.ADS1115_RANGE_4096); err != nil {
		return fmt.Errorf("SetVoltageRangeMilliV failed: %w", err)
	}
	if err := dev.SetSingleChannel(0); err != nil {
		return fmt.Errorf("SetSingleChannel failed: %w", err)
	}
	return nil
}

// Try to detect PCF8574 addresses.
// I2C0 must already be configured.
func probePCF8574Devices() []*pcf8574.Device {
	println("Probing PCF8574 devices")
	var pcfDevs []*pcf8574.Device
	for _, i2cAddress := range pcf8574.Addresses {
		dev := pcf8574.New(machine.I2C0, i2cAddress)
		if err := dev.Reset(); err == nil {
			println("Found PCF8574 at address: ", i2cAddress)
			pcfDevs = append(pcfDevs, dev)
		}
	}
	println("Found ", len(pcfDevs), " PCF8574 devices")
	return pcfDevs
}
