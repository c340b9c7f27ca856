//go:build esp32

package main

import (
	"machine"
	"time"

	"afterfire/engine"
	"afterfire/settings"
)

const (
	throttlePin = machine.GPIO2 // Receiver PWM input
	stripPin    = machine.GPIO3 // WS2812 data out
	numLEDs     = 1             // Change for dual exhaust
	tickPeriod  = 5 * time.Millisecond
)

func main() {
	engine.SetDebugWriter(func(s string) { println(s) })

	eng := engine.New(numLEDs, nil)

	// TODO: wire a settings.Medium once TinyGo exposes the ESP32 NVS
	// partition; until then this target runs on compiled-in defaults
	// and calibration does not survive a power cycle.
	rec := settings.DefaultRecord()
	eng.Profile = rec.Profile
	eng.Effects = rec.Effects

	initStrip(stripPin)
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
