// Non-blocking burst flash animation.
package engine

import (
	"image/color"
	"math/rand"
	"time"
)

// Inter-flash pacing bounds in milliseconds. Each flash waits a fresh
// random interval so bursts sound irregular rather than metronomic.
const (
	flashGapMinMS = 20
	flashGapMaxMS = 80
)

// Burst is the flash animation state machine. While active it owns the
// LED frame outright: ambient effects must not write output until the
// final black frame has been emitted and Active cleared.
type Burst struct {
	Active    bool
	Remaining int // Flashes still to emit
	Intensity int // Brightness scale for every flash, 0-255

	lastFlash time.Time
	gap       time.Duration // Current randomized inter-flash interval
}

// Start arms the burst from a detector trigger. The first flash is
// emitted on the next Advance whose gap has elapsed.
func (b *Burst) Start(t Trigger, now time.Time) {
	b.Active = true
	b.Remaining = t.Flashes
	b.Intensity = t.Intensity
	b.lastFlash = now
	b.gap = 0
}

// Advance moves the animation forward by at most one flash. It is
// re-entrant safe: if the inter-flash interval has not elapsed it is a
// no-op, so callers never block. Once the flash count drains it emits a
// single black frame and deactivates.
func (b *Burst) Advance(frame []color.RGBA, now time.Time, rng *rand.Rand) {
	if !b.Active {
		return
	}
	if now.Sub(b.lastFlash) <= b.gap {
		return
	}

	if b.Remaining > 0 {
		fillFrame(frame, scaleColor(b.flashColor(rng), uint8(clamp(b.Intensity, 0, 255))))
		b.Remaining--
	} else {
		fillFrame(frame, color.RGBA{A: 0xFF})
		b.Active = false
	}

	b.lastFlash = now
	b.gap = time.Duration(randRange(rng, flashGapMinMS, flashGapMaxMS)) * time.Millisecond
}

// flashColor picks one of four weighted flame bands: cool-blue hot
// combustion (2/10), purple fuel-rich (2/10), red-orange unburned fuel
// (3/10), bright yellow-orange flash (3/10).
func (b *Burst) flashColor(rng *rand.Rand) color.RGBA {
	choice := rng.Intn(10)
	switch {
	case choice < 2:
		return color.RGBA{
			R: uint8(randRange(rng, 0, 50)),
			G: uint8(randRange(rng, 50, 150)),
			B: uint8(randRange(rng, 180, 255)),
			A: 0xFF,
		}
	case choice < 4:
		return color.RGBA{
			R: uint8(randRange(rng, 100, 200)),
			G: uint8(randRange(rng, 0, 80)),
			B: uint8(randRange(rng, 150, 255)),
			A: 0xFF,
		}
	case choice < 7:
		return color.RGBA{
			R: 0xFF,
			G: uint8(randRange(rng, 50, 150)),
			B: uint8(randRange(rng, 0, 30)),
			A: 0xFF,
		}
	default:
		return color.RGBA{
			R: 0xFF,
			G: uint8(randRange(rng, 150, 255)),
			B: uint8(randRange(rng, 0, 100)),
			A: 0xFF,
		}
	}
}
