// Ambient effects: RPM-linked flicker and idle burble.
package engine

import (
	"image/color"
	"math/rand"
)

// RPM flicker tuning.
const (
	flickerHeatFloor = 120 // Heat at the start threshold
	flickerHeatCeil  = 255 // Heat at full throttle
	flickerJitter    = 40  // Random heat jitter, either direction
	flickerHeatMin   = 80  // Post-jitter clamp floor
	flickerFadeStep  = 40  // Fade applied below the start threshold
)

// Idle burble tuning.
const (
	burbleDeadband = 5    // |throttle| below this counts as idle
	burbleChance   = 4    // Pops per burbleTicks ticks, on average
	burbleTicks    = 1000
	burbleHeatLo   = 100
	burbleHeatHi   = 160
)

// rpmFlicker renders the throttle-proportional exhaust glow. Above the
// start threshold the base heat tracks throttle with random jitter; below
// it the frame decays toward black instead of cutting off.
func rpmFlicker(frame []color.RGBA, throttle int, cfg *EffectConfig, rng *rand.Rand) {
	if throttle > cfg.RPMFlickerStartPct {
		base := mapRange(throttle, cfg.RPMFlickerStartPct, 100, flickerHeatFloor, flickerHeatCeil)
		jitter := randRange(rng, -flickerJitter, flickerJitter)
		fillFrame(frame, FlameColor(clamp(base+jitter, flickerHeatMin, flickerHeatCeil)))
	} else {
		fadeFrame(frame, flickerFadeStep)
	}
}

// idleBurble emits sparse faint pops while the throttle sits near
// neutral, roughly 0.4% of ticks.
func idleBurble(frame []color.RGBA, throttle int, rng *rand.Rand) {
	if throttle > -burbleDeadband && throttle < burbleDeadband {
		if rng.Intn(burbleTicks) < burbleChance {
			fillFrame(frame, FlameColor(randRange(rng, burbleHeatLo, burbleHeatHi)))
		}
	}
}
