//go:build rp2040

package main

import (
	"image/color"
	"machine"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"
	"github.com/tinygo-org/pio/rp2-pio/piolib"

	"afterfire/engine"
)

// pioStrip drives a WS2812B chain from a PIO state machine, leaving the
// CPU free for the effect loop.
type pioStrip struct {
	dev *piolib.WS2812B
	raw []uint32
}

func (s *pioStrip) WriteFrame(frame []color.RGBA) error {
	if len(s.raw) != len(frame) {
		s.raw = make([]uint32, len(frame))
	}
	for i, c := range frame {
		// WS2812B wire order is GRB, MSB first.
		s.raw[i] = uint32(c.G)<<24 | uint32(c.R)<<16 | uint32(c.B)<<8
	}
	return s.dev.WriteRaw(s.raw)
}

func initStrip(pin machine.Pin) error {
	sm := rp2pio.PIO0.StateMachine(0)
	dev, err := piolib.NewWS2812B(sm, pin)
	if err != nil {
		return err
	}
	engine.SetStripDriver(&pioStrip{dev: dev})
	return nil
}
