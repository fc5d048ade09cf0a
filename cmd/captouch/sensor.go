//go:build tinygo

package main

import (
	"fmt"
	"time"

	"github.com/binkynet/BinkyHardware/CapTouchSensor/crossover"
	"github.com/binkynet/BinkyHardware/CapTouchSensor/devices/ads1115"
	"github.com/binkynet/BinkyHardware/CapTouchSensor/peak"
	"github.com/binkynet/BinkyHardware/CapTouchSensor/touch"
)

const (
	// Window of the hum level: one 50Hz mains period
	humWindow = time.Millisecond * 20
	// Smoothing of the hum level over windows
	humDecay = 10
)

// Sensor represents the state of a single touch input
type Sensor struct {
	channel *ads1115.Channel
	touch   *touch.Sensor
	hum     *peak.WindowedMax
	ready   bool
	last    crossover.Event
}

// NewSensor initializes a new sensor on the given ADS1115 channel
func NewSensor(ads *ads1115.Device, adsChannel uint8, cfg touch.Config) (*Sensor, error) {
	ch := ads.Channel(adsChannel)
	ts, err := touch.New(ch, cfg)
	if err != nil {
		return nil, fmt.Errorf("touch.New failed: %w", err)
	}
	hum, err := peak.NewWindowedMax(humWindow, humDecay)
	if err != nil {
		return nil, fmt.Errorf("peak.NewWindowedMax failed: %w", err)
	}
	return &Sensor{
		channel: ch,
		touch:   ts,
		hum:     hum,
	}, nil
}

// Probe the current status of the sensor.
// The first successful probe seeds the sensor.
func (s *Sensor) Probe(now time.Time) error {
	if !s.ready {
		if err := s.touch.Setup(); err != nil {
			return fmt.Errorf("Setup failed: %w", err)
		}
		s.ready = true
		return nil
	}
	raw, err := s.touch.Read()
	if err != nil {
		return fmt.Errorf("Read failed: %w", err)
	}
	s.hum.Update(raw, now)

	s.last = s.touch.Poll()
	if s.last.Changed() {
		println(s.channel.Index(), raw, s.last.State.String())
	}
	return nil
}

// LastEvent returns the result of the last successful probe.
func (s *Sensor) LastEvent() crossover.Event {
	return s.last
}

// HumLevel returns the smoothed max of the raw signal per mains period.
func (s *Sensor) HumLevel() int {
	return s.hum.Value()
}
