// Throttle transition detection for backfire and brake-crackle triggers.
package engine

import "math/rand"

// EffectConfig holds the effect toggles and sensitivity thresholds. All
// thresholds are throttle percentages.
type EffectConfig struct {
	Backfire     bool
	BrakeCrackle bool
	IdleBurble   bool
	RPMFlicker   bool

	BackfireEngageMin  int // Throttle that must be exceeded before release
	BackfireReleaseMax int // Throttle that must be undershot after release
	BrakeEngageMin     int // Throttle needed before braking
	BrakeTriggerMax    int // Brake position that fires the crackle
	RPMFlickerStartPct int // Throttle where the flicker glow starts
}

// DefaultEffects returns the compiled-in effect configuration.
func DefaultEffects() EffectConfig {
	return EffectConfig{
		Backfire:           true,
		BrakeCrackle:       true,
		IdleBurble:         true,
		RPMFlicker:         true,
		BackfireEngageMin:  30,
		BackfireReleaseMax: 15,
		BrakeEngageMin:     20,
		BrakeTriggerMax:    -20,
		RPMFlickerStartPct: 30,
	}
}

// Burst trigger parameter ranges.
const (
	backfireFlashesMin   = 3
	backfireFlashesMax   = 8
	backfireIntensityMin = 180
	backfireIntensityMax = 255
	crackleFlashesLo     = 3
	crackleFlashesHi     = 7
	crackleIntensityLo   = 160
	crackleIntensityHi   = 230
)

// Trigger describes a burst to start: how many flashes and how bright.
type Trigger struct {
	Flashes   int
	Intensity int
}

// Detect classifies the throttle transition from prev to now and returns
// a burst trigger if one fired. The backfire rule is evaluated before the
// brake-crackle rule, and neither fires while a burst is already active,
// so at most one trigger results per tick.
//
// Backfire fires on a high-to-released transition; its length and
// brightness grow with how high the throttle was before release. Brake
// crackle fires on a throttle-to-brake transition with randomized length
// and brightness.
func (c *EffectConfig) Detect(prev, now int, burstActive bool, rng *rand.Rand) (Trigger, bool) {
	if burstActive {
		return Trigger{}, false
	}
	if c.Backfire && prev > c.BackfireEngageMin && now < c.BackfireReleaseMax {
		return Trigger{
			Flashes:   mapRange(prev, c.BackfireEngageMin, 100, backfireFlashesMin, backfireFlashesMax),
			Intensity: mapRange(prev, c.BackfireEngageMin, 100, backfireIntensityMin, backfireIntensityMax),
		}, true
	}
	if c.BrakeCrackle && prev > c.BrakeEngageMin && now < c.BrakeTriggerMax {
		return Trigger{
			Flashes:   randRange(rng, crackleFlashesLo, crackleFlashesHi),
			Intensity: randRange(rng, crackleIntensityLo, crackleIntensityHi),
		}, true
	}
	return Trigger{}, false
}

// randRange returns a random int in [lo, hi).
func randRange(rng *rand.Rand, lo, hi int) int {
	return lo + rng.Intn(hi-lo)
}
