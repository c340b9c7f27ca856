package engine

import "image/color"

// StripDriver is the abstract LED strip interface that the main loop
// pushes frames through. Platform-specific implementations handle the
// actual wire protocol (bit-banged WS2812, PIO, a simulator, ...).
type StripDriver interface {
	// WriteFrame pushes one frame, one RGB triple per physical LED.
	WriteFrame(frame []color.RGBA) error
}

// Global singleton used by target main loops.
var stripDriver StripDriver

// SetStripDriver is called by target-specific code to register its driver.
func SetStripDriver(d StripDriver) {
	stripDriver = d
}

// MustStrip returns the configured driver or panics if missing.
func MustStrip() StripDriver {
	if stripDriver == nil {
		panic("LED strip driver not configured")
	}
	return stripDriver
}
