// Frame driver: the per-tick orchestrator that turns pulse captures into
// LED frames.
package engine

import (
	"errors"
	"fmt"
	"image/color"
	"math/rand"
	"time"
)

// Calibration indicator colors shown while normal rendering is suspended.
var (
	calActiveColor   = color.RGBA{B: 0xFF, A: 0xFF} // Solid blue while awaiting a capture
	calCompleteColor = color.RGBA{G: 0xFF, A: 0xFF} // Solid green once complete
)

// idleFadeStep dims the frame when every ambient effect is disabled and
// no burst is running.
const idleFadeStep = 50

// Fixed parameters for the control API's test triggers.
var (
	testBackfire = Trigger{Flashes: 5, Intensity: 240}
	testCrackle  = Trigger{Flashes: 6, Intensity: 200}
)

// ErrUnknownEffect and ErrUnknownParam reject configuration requests that
// name nothing the engine knows about.
var (
	ErrUnknownEffect = errors.New("unknown effect name")
	ErrUnknownParam  = errors.New("unknown threshold parameter")
)

// Engine owns every piece of per-tick state: the calibration profile,
// effect configuration, burst and calibration state machines, and the LED
// frame buffer. Nothing lives in package globals; collaborators reach the
// state only through the Engine. All methods must be called from the one
// main-loop context (the HTTP collaborator serializes its calls).
type Engine struct {
	Profile CalibrationProfile
	Effects EffectConfig

	// OnSave, when set, persists the current profile and effect config.
	// Called after calibration completes and after configuration changes.
	// A save failure is reported to the requesting caller; in-memory
	// state keeps the newly applied values.
	OnSave func(CalibrationProfile, EffectConfig) error

	pulse   PulseCell
	burst   Burst
	session CalibrationSession
	rng     *rand.Rand

	frame     []color.RGBA
	prev      int // Previous tick's throttle
	debugLast time.Time
}

// New creates an engine driving numLEDs LEDs. A nil rng selects a
// time-seeded source; tests inject a fixed seed instead.
func New(numLEDs int, rng *rand.Rand) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Engine{
		Profile: DefaultProfile(),
		Effects: DefaultEffects(),
		pulse:   PulseCell{},
		rng:     rng,
		frame:   make([]color.RGBA, numLEDs),
	}
}

// Pulse returns the capture cell the platform's edge interrupt publishes
// into.
func (e *Engine) Pulse() *PulseCell { return &e.pulse }

// Frame returns the current frame buffer. The slice is reused every tick.
func (e *Engine) Frame() []color.RGBA { return e.frame }

// Advance runs one tick: snapshot the pulse width, map it, detect
// transitions, advance whichever state machine is active and composite
// one frame. It never blocks; pacing inside the effects is all
// timestamp-delta based. Returns the frame to push to the strip.
func (e *Engine) Advance(now time.Time) []color.RGBA {
	width := e.pulse.Load()

	// An active calibration session preempts the effect path entirely.
	switch e.session.Step() {
	case CalIdle:
		// Normal effect path below.
	case CalComplete:
		fillFrame(e.frame, calCompleteColor)
		e.session.expire(now)
		return e.frame
	default:
		fillFrame(e.frame, calActiveColor)
		return e.frame
	}

	throttle := e.Profile.Map(width)
	e.debugTick(now, width, throttle)

	if !e.burst.Active && e.Effects.RPMFlicker {
		rpmFlicker(e.frame, throttle, &e.Effects, e.rng)
	}
	if trig, ok := e.Effects.Detect(e.prev, throttle, e.burst.Active, e.rng); ok {
		e.burst.Start(trig, now)
	}
	if !e.burst.Active && e.Effects.IdleBurble {
		idleBurble(e.frame, throttle, e.rng)
	}
	e.burst.Advance(e.frame, now, e.rng)

	if !e.burst.Active && !e.Effects.RPMFlicker && !e.Effects.IdleBurble {
		fadeFrame(e.frame, idleFadeStep)
	}

	e.prev = throttle
	return e.frame
}

// Status is the snapshot handed to the control API.
type Status struct {
	PulseWidth  uint16 `json:"pwm"`
	ThrottlePct int    `json:"throttle"`
	BurstActive bool   `json:"burst"`
}

// Status reports the raw pulse width, mapped throttle and burst flag.
func (e *Engine) Status() Status {
	width := e.pulse.Load()
	return Status{
		PulseWidth:  width,
		ThrottlePct: e.Profile.Map(width),
		BurstActive: e.burst.Active,
	}
}

// TriggerTestBackfire forces the burst state machine into a fixed
// backfire, bypassing the detector.
func (e *Engine) TriggerTestBackfire(now time.Time) {
	e.burst.Start(testBackfire, now)
}

// TriggerTestCrackle forces a fixed brake-crackle burst.
func (e *Engine) TriggerTestCrackle(now time.Time) {
	e.burst.Start(testCrackle, now)
}

// SetEffectEnabled toggles one effect by its wire name and persists the
// configuration. The toggle stays applied even if the save fails; the
// error tells the caller the new state did not reach storage.
func (e *Engine) SetEffectEnabled(name string, enabled bool) error {
	switch name {
	case "backfire":
		e.Effects.Backfire = enabled
	case "brake":
		e.Effects.BrakeCrackle = enabled
	case "idle":
		e.Effects.IdleBurble = enabled
	case "rpm":
		e.Effects.RPMFlicker = enabled
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEffect, name)
	}
	return e.requestSave()
}

// EffectEnabled reports one effect's toggle by wire name.
func (e *Engine) EffectEnabled(name string) (bool, error) {
	switch name {
	case "backfire":
		return e.Effects.Backfire, nil
	case "brake":
		return e.Effects.BrakeCrackle, nil
	case "idle":
		return e.Effects.IdleBurble, nil
	case "rpm":
		return e.Effects.RPMFlicker, nil
	}
	return false, fmt.Errorf("%w: %q", ErrUnknownEffect, name)
}

// SetThreshold updates one sensitivity threshold by its wire parameter
// name and persists the configuration.
func (e *Engine) SetThreshold(param string, value int) error {
	switch param {
	case "backfireMin":
		e.Effects.BackfireEngageMin = value
	case "backfireMax":
		e.Effects.BackfireReleaseMax = value
	case "brakeMin":
		e.Effects.BrakeEngageMin = value
	case "brakeMax":
		e.Effects.BrakeTriggerMax = value
	case "rpmThreshold":
		e.Effects.RPMFlickerStartPct = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownParam, param)
	}
	return e.requestSave()
}

// StartCalibration begins a calibration session. Normal rendering is
// suspended until the session completes or is abandoned by reset.
func (e *Engine) StartCalibration() {
	e.session.Start()
}

// CalibrationStep reports the session's current step.
func (e *Engine) CalibrationStep() CalibrationStep {
	return e.session.Step()
}

// CaptureCalibration records the current pulse width for the named step.
// On the final (brake) capture the assembled profile is applied and
// persisted; a persistence failure leaves the profile applied in memory
// and is returned to the caller.
func (e *Engine) CaptureCalibration(stepName string, now time.Time) (uint16, error) {
	step, ok := StepByName(stepName)
	if !ok {
		return 0, fmt.Errorf("%w: unknown step %q", ErrWrongStep, stepName)
	}
	width, err := e.session.Capture(step, e.pulse.Load(), now)
	if err != nil {
		return 0, err
	}
	if e.session.Step() == CalComplete {
		e.Profile = e.session.Profile()
		if err := e.requestSave(); err != nil {
			return width, err
		}
	}
	return width, nil
}

// CalibrationResults returns the profile currently in effect. After a
// completed session this is the freshly captured profile.
func (e *Engine) CalibrationResults() CalibrationProfile {
	return e.Profile
}

func (e *Engine) requestSave() error {
	if e.OnSave == nil {
		return nil
	}
	return e.OnSave(e.Profile, e.Effects)
}
