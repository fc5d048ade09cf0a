//go:build tinygo

package main

import (
	"image/color"
	"machine"
	"time"

	"github.com/binkynet/BinkyHardware/CapTouchSensor/devices/ads1115"
	"github.com/binkynet/BinkyHardware/CapTouchSensor/touch"
	"tinygo.org/x/drivers/ws2812"
)

var (
	// Color scheme
	colorBoot                = color.RGBA{R: 255, G: 165, B: 0}
	colorI2cConfigError      = color.RGBA{R: 96, G: 0, B: 96}
	colorNoAdsDevsFound      = color.RGBA{R: 245, G: 0, B: 0}
	colorTooManyAdsDevsFound = color.RGBA{R: 96, G: 0, B: 0}
	colorIdle1AdsDevFound    = color.RGBA{R: 0, G: 245, B: 0}
	colorIdle2AdsDevsFound   = color.RGBA{R: 0, G: 96, B: 0}
	colorProbeError          = color.RGBA{R: 255, G: 0, B: 0}
)

var (
	LedRed    = machine.GPIO6
	LedGreen  = machine.GPIO7
	LedYellow = machine.GPIO10

	// Jumpers, pulled up, read at boot
	JumperAltAddress = machine.GPIO29 // Pulled down: use alternate i2c address
	JumperPCFMode    = machine.GPIO28 // Pulled down: behave as a PCF8574 input expander
	JumperFalling    = machine.GPIO27 // Pulled down: a touch lowers the reading
)

const (
	defaultI2cAddress = uint8(0x36)
	altI2cAddress     = uint8(0x37)
)

func main() {
	// Configure leds
	LedRed.Configure(machine.PinConfig{Mode: machine.PinOutput})
	LedGreen.Configure(machine.PinConfig{Mode: machine.PinOutput})
	LedYellow.Configure(machine.PinConfig{Mode: machine.PinOutput})
	// Configure jumpers
	for _, p := range []machine.Pin{JumperAltAddress, JumperPCFMode, JumperFalling} {
		p.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	}
	// Set initial state
	LedRed.Low()    // Turn on
	LedGreen.High() // Turn off
	LedYellow.Low() // Turn on

	time.Sleep(time.Second * 5)

	// Detect I2C address
	i2cAddress := defaultI2cAddress
	if !JumperAltAddress.Get() {
		i2cAddress = altI2cAddress
	}
	println("Found i2c address: ", i2cAddress)

	// Configure neopixel
	machine.NEOPIXEL.Configure(machine.PinConfig{Mode: machine.PinOutput})
	led := ws2812.New(machine.NEOPIXEL)
	led.WriteColors([]color.RGBA{colorBoot})

	// Configure ADS1115 I2C channel (i2c0)
	adsDevs, baseColor := probeADS1115Devices(led)

	// Prepare sensors
	cfg := touch.DefaultConfig()
	cfg.Falling = !JumperFalling.Get()
	sensors := make([]*Sensor, 0, len(adsDevs)*ads1115.ChannelCount)
	for _, adsDev := range adsDevs {
		for ch := uint8(0); ch < ads1115.ChannelCount; ch++ {
			s, err := NewSensor(adsDev, ch, cfg)
			if err != nil {
				println("Failed to create sensor: ", ch, err)
				continue
			}
			sensors = append(sensors, s)
		}
	}

	// Detect PCF8574 devices
	pcfDevs := probePCF8574Devices()
	outputBits := uint8(0)
	if len(pcfDevs) > 0 {
		outputBits = 8
	}

	statusChanges := make(chan sensorStatus)
	outputs := make(chan uint8, 8)
	go probeSensors(sensors, adsDevs, led, baseColor, statusChanges, outputs)
	go sendPCF8574Outputs(pcfDevs, outputs)
	pcfMode := !JumperPCFMode.Get()
	go func() {
		for {
			var err error
			if pcfMode {
				err = listenForPCF8574Requests(machine.I2C1, i2cAddress, statusChanges)
			} else {
				err = listenForIncomingI2CRequests(machine.I2C1, i2cAddress, statusChanges, uint8(len(sensors)), outputBits)
			}
			if err != nil {
				println("i2c listener failed: ", err)
				time.Sleep(time.Second)
			}
		}
	}()

	// Set leds to running state
	LedRed.High()                                  // Turn off
	LedGreen.Low()                                 // Turn on
	LedYellow.Set(i2cAddress == defaultI2cAddress) // Turn off (default), turn on (alternate)

	for {
		time.Sleep(time.Minute)
	}
}
