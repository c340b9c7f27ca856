package engine

import "image/color"

// Heat bands for the flame gradient.
const (
	heatOrange = 120 // Below this: deep red ramp
	heatYellow = 200 // Above this: yellow-white tip
)

// FlameColor maps a heat value in [0, 255] onto the exhaust flame
// gradient. Out-of-range input is clamped. Deterministic and stateless.
func FlameColor(heat int) color.RGBA {
	heat = clamp(heat, 0, 255)
	switch {
	case heat < heatOrange:
		// Deep red: red ramps with heat, a quarter of it bleeds into green.
		return color.RGBA{R: uint8(heat), G: uint8(heat / 4), A: 0xFF}
	case heat < heatYellow:
		// Orange: red pegged, green ramps with heat.
		return color.RGBA{R: 0xFF, G: uint8(heat), A: 0xFF}
	default:
		// Yellow-white tip: blue rises above the yellow band.
		return color.RGBA{R: 0xFF, G: 0xFF, B: uint8(heat - heatYellow), A: 0xFF}
	}
}

// scaleColor scales each channel by num/255, FastLED nscale8 style.
func scaleColor(c color.RGBA, num uint8) color.RGBA {
	return color.RGBA{
		R: uint8(uint16(c.R) * uint16(num) / 255),
		G: uint8(uint16(c.G) * uint16(num) / 255),
		B: uint8(uint16(c.B) * uint16(num) / 255),
		A: c.A,
	}
}

// fillFrame sets every LED in the frame to c.
func fillFrame(frame []color.RGBA, c color.RGBA) {
	for i := range frame {
		frame[i] = c
	}
}

// fadeFrame dims the frame toward black by step/255, preserving visual
// persistence instead of snapping off.
func fadeFrame(frame []color.RGBA, step uint8) {
	keep := 255 - step
	for i := range frame {
		frame[i] = scaleColor(frame[i], keep)
	}
}
