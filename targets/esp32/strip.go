//go:build esp32

package main

import (
	"image/color"
	"machine"

	"tinygo.org/x/drivers/ws2812"

	"afterfire/engine"
)

// ws2812Strip adapts the bit-banged WS2812 driver to the engine's strip
// interface.
type ws2812Strip struct {
	dev ws2812.Device
}

func (s *ws2812Strip) WriteFrame(frame []color.RGBA) error {
	return s.dev.WriteColors(frame)
}

func initStrip(pin machine.Pin) {
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	engine.SetStripDriver(&ws2812Strip{dev: ws2812.New(pin)})
}
