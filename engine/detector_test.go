package engine

import (
	"math/rand"
	"testing"
)

func testRand() *rand.Rand {
	return rand.New(rand.NewSource(1))
}

func TestDetectBackfire(t *testing.T) {
	cfg := DefaultEffects() // engage 30, release 15
	trig, ok := cfg.Detect(60, 5, false, testRand())
	if !ok {
		t.Fatal("expected backfire trigger for 60 -> 5")
	}
	// Linear interpolation of prev=60 within [30,100]:
	// flashes [3,8] -> 5, intensity [180,255] -> 212.
	if trig.Flashes != 5 {
		t.Errorf("Flashes = %d, want 5", trig.Flashes)
	}
	if trig.Intensity != 212 {
		t.Errorf("Intensity = %d, want 212", trig.Intensity)
	}
}

func TestDetectBackfireBounds(t *testing.T) {
	cfg := DefaultEffects()
	trig, ok := cfg.Detect(100, 0, false, testRand())
	if !ok {
		t.Fatal("expected backfire trigger for 100 -> 0")
	}
	if trig.Flashes != backfireFlashesMax {
		t.Errorf("Flashes at full release = %d, want %d", trig.Flashes, backfireFlashesMax)
	}
	if trig.Intensity != backfireIntensityMax {
		t.Errorf("Intensity at full release = %d, want %d", trig.Intensity, backfireIntensityMax)
	}
}

func TestDetectNoTrigger(t *testing.T) {
	cfg := DefaultEffects()
	testCases := []struct {
		name      string
		prev, now int
	}{
		{"steady cruise", 60, 60},
		{"slow rolloff", 60, 20},  // now above releaseMax
		{"never engaged", 20, 0},  // prev below engageMin
		{"idle", 0, 0},
		{"accelerating", 10, 80},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if trig, ok := cfg.Detect(tc.prev, tc.now, false, testRand()); ok {
				t.Errorf("unexpected trigger %+v for %d -> %d", trig, tc.prev, tc.now)
			}
		})
	}
}

func TestDetectBrakeCrackle(t *testing.T) {
	cfg := DefaultEffects() // brake engage 20, trigger -20
	cfg.Backfire = false
	trig, ok := cfg.Detect(50, -30, false, testRand())
	if !ok {
		t.Fatal("expected brake crackle for 50 -> -30")
	}
	if trig.Flashes < crackleFlashesLo || trig.Flashes >= crackleFlashesHi {
		t.Errorf("Flashes = %d, want within [%d,%d)", trig.Flashes, crackleFlashesLo, crackleFlashesHi)
	}
	if trig.Intensity < crackleIntensityLo || trig.Intensity >= crackleIntensityHi {
		t.Errorf("Intensity = %d, want within [%d,%d)", trig.Intensity, crackleIntensityLo, crackleIntensityHi)
	}
}

func TestDetectBackfireBeforeBrake(t *testing.T) {
	// 100 -> -30 satisfies both rules; the backfire rule is checked
	// first, so the throttle-proportional parameters must come back.
	cfg := DefaultEffects()
	trig, ok := cfg.Detect(100, -30, false, testRand())
	if !ok {
		t.Fatal("expected a trigger for 100 -> -30")
	}
	if trig.Intensity != backfireIntensityMax {
		t.Errorf("Intensity = %d, want backfire's %d (brake rule must not win)", trig.Intensity, backfireIntensityMax)
	}
}

func TestDetectSuppressedWhileBurstActive(t *testing.T) {
	cfg := DefaultEffects()
	if trig, ok := cfg.Detect(100, 0, true, testRand()); ok {
		t.Errorf("trigger %+v fired while a burst was active", trig)
	}
}

func TestDetectRespectsToggles(t *testing.T) {
	cfg := DefaultEffects()
	cfg.Backfire = false
	cfg.BrakeCrackle = false
	if trig, ok := cfg.Detect(100, -30, false, testRand()); ok {
		t.Errorf("trigger %+v fired with both effects disabled", trig)
	}
}
