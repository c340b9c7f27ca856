// Guided calibration state machine for the three reference pulse widths.
package engine

import (
	"errors"
	"fmt"
	"time"
)

// CalibrationStep identifies where a calibration session currently sits.
type CalibrationStep uint8

const (
	CalIdle CalibrationStep = iota
	CalAwaitNeutral
	CalAwaitThrottle
	CalAwaitBrake
	CalComplete
)

// String returns the wire name of the step as used by the control API.
func (s CalibrationStep) String() string {
	switch s {
	case CalIdle:
		return "idle"
	case CalAwaitNeutral:
		return "neutral"
	case CalAwaitThrottle:
		return "throttle"
	case CalAwaitBrake:
		return "brake"
	case CalComplete:
		return "complete"
	}
	return "unknown"
}

// StepByName resolves a wire name to a capturable step.
func StepByName(name string) (CalibrationStep, bool) {
	switch name {
	case "neutral":
		return CalAwaitNeutral, true
	case "throttle":
		return CalAwaitThrottle, true
	case "brake":
		return CalAwaitBrake, true
	}
	return CalIdle, false
}

// NeutralDeadband is the half-width in microseconds of the neutral window
// derived around a captured neutral pulse.
const NeutralDeadband = 25

// completeHold is how long the completion indicator stays lit before the
// session self-clears back to idle.
const completeHold = time.Second

// ErrWrongStep reports a capture request that does not match the session's
// current step. The session state is left untouched.
var ErrWrongStep = errors.New("calibration: capture out of order")

// CalibrationSession advances only on explicit capture requests from the
// control API, never on a timeout. Captured widths accumulate as steps
// complete; a wrong-step request is rejected without disturbing them.
type CalibrationSession struct {
	step        CalibrationStep
	neutral     uint16
	max         uint16
	min         uint16
	completedAt time.Time
}

// Step returns the current step.
func (s *CalibrationSession) Step() CalibrationStep { return s.step }

// Start begins a new session, discarding any previous progress.
func (s *CalibrationSession) Start() {
	s.step = CalAwaitNeutral
	s.neutral, s.max, s.min = 0, 0, 0
}

// Capture records width for the given step and advances the session.
// Requests for any step other than the current one are rejected with
// ErrWrongStep. Completing the brake step moves the session to
// CalComplete; the caller persists the resulting profile.
func (s *CalibrationSession) Capture(step CalibrationStep, width uint16, now time.Time) (uint16, error) {
	if step != s.step {
		return 0, fmt.Errorf("%w: in step %q, got capture for %q", ErrWrongStep, s.step, step)
	}
	switch step {
	case CalAwaitNeutral:
		s.neutral = width
		s.step = CalAwaitThrottle
	case CalAwaitThrottle:
		s.max = width
		s.step = CalAwaitBrake
	case CalAwaitBrake:
		s.min = width
		s.step = CalComplete
		s.completedAt = now
	default:
		return 0, fmt.Errorf("%w: step %q is not capturable", ErrWrongStep, step)
	}
	return width, nil
}

// Profile assembles the calibration profile from the captured widths.
// Only meaningful once the session is complete.
func (s *CalibrationSession) Profile() CalibrationProfile {
	return CalibrationProfile{
		NeutralPulse: s.neutral,
		NeutralLow:   s.neutral - NeutralDeadband,
		NeutralHigh:  s.neutral + NeutralDeadband,
		MinPulse:     s.min,
		MaxPulse:     s.max,
	}
}

// expire clears a completed session back to idle once the completion
// indicator has been shown for completeHold.
func (s *CalibrationSession) expire(now time.Time) {
	if s.step == CalComplete && now.Sub(s.completedAt) >= completeHold {
		s.step = CalIdle
	}
}
