//go:build rp2040

package main

import (
	"machine"
	"time"

	"afterfire/engine"
	"afterfire/settings"
)

const (
	throttlePin = machine.GP2 // Receiver PWM input
	stripPin    = machine.GP3 // WS2812B data out, driven by PIO
	numLEDs     = 1           // Change for dual exhaust
	tickPeriod  = 5 * time.Millisecond
)

func main() {
	engine.SetDebugWriter(func(s string) { println(s) })

	eng := engine.New(numLEDs, nil)

	store := settings.NewStore(flashMedium{})
	rec, err := store.Load()
	if err != nil {
		println("settings: defaults in use:", err.Error())
	}
	eng.Profile = rec.Profile
	eng.Effects = rec.Effects
	eng.OnSave = func(p engine.CalibrationProfile, fx engine.EffectConfig) error {
		rec.Profile = p
		rec.Effects = fx
		return store.Save(&rec)
	}

	if err := initStrip(stripPin); err != nil {
		println("strip init:", err.Error())
		return
	}
	initThrottle(throttlePin, eng.Pulse())

	for {
		frame := eng.Advance(time.Now())
		if err := engine.MustStrip().WriteFrame(frame); err != nil {
			println("strip write:", err.Error())
		}
		time.Sleep(tickPeriod)
	}
}

// initThrottle attaches the edge interrupt that measures the receiver's
// pulse width. The handler runs in interrupt context and publishes into
// the engine's pulse cell; the main loop only ever snapshots it.
func initThrottle(pin machine.Pin, cell *engine.PulseCell) {
	rec := engine.NewEdgeRecorder(cell)
	pin.Configure(machine.PinConfig{Mode: machine.PinInput})
	err := pin.SetInterrupt(machine.PinRising|machine.PinFalling, func(p machine.Pin) {
		rec.Edge(p.Get(), time.Now())
	})
	if err != nil {
		println("throttle interrupt:", err.Error())
	}
}
