package engine

import (
	"errors"
	"testing"
	"time"
)

func TestCalibrationFullSequence(t *testing.T) {
	var s CalibrationSession
	now := time.Unix(0, 0)

	s.Start()
	if s.Step() != CalAwaitNeutral {
		t.Fatalf("step after Start = %v, want neutral", s.Step())
	}

	if v, err := s.Capture(CalAwaitNeutral, 1520, now); err != nil || v != 1520 {
		t.Fatalf("neutral capture: value=%d err=%v", v, err)
	}
	if v, err := s.Capture(CalAwaitThrottle, 1980, now); err != nil || v != 1980 {
		t.Fatalf("throttle capture: value=%d err=%v", v, err)
	}
	if v, err := s.Capture(CalAwaitBrake, 1050, now); err != nil || v != 1050 {
		t.Fatalf("brake capture: value=%d err=%v", v, err)
	}
	if s.Step() != CalComplete {
		t.Fatalf("step after brake capture = %v, want complete", s.Step())
	}

	p := s.Profile()
	if !(p.MinPulse < p.NeutralLow && p.NeutralLow <= p.NeutralPulse &&
		p.NeutralPulse <= p.NeutralHigh && p.NeutralHigh < p.MaxPulse) {
		t.Errorf("profile ordering violated: %+v", p)
	}
	if p.NeutralLow != 1520-NeutralDeadband || p.NeutralHigh != 1520+NeutralDeadband {
		t.Errorf("deadband window = %d-%d, want %d either side of 1520",
			p.NeutralLow, p.NeutralHigh, NeutralDeadband)
	}
}

func TestCalibrationRejectsOutOfOrderCapture(t *testing.T) {
	var s CalibrationSession
	now := time.Unix(0, 0)
	s.Start()

	_, err := s.Capture(CalAwaitThrottle, 1980, now)
	if !errors.Is(err, ErrWrongStep) {
		t.Fatalf("out-of-order capture error = %v, want ErrWrongStep", err)
	}
	if s.Step() != CalAwaitNeutral {
		t.Errorf("state changed on rejected capture: %v", s.Step())
	}

	// Previously captured values survive a later rejected request.
	if _, err := s.Capture(CalAwaitNeutral, 1500, now); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Capture(CalAwaitBrake, 1000, now); !errors.Is(err, ErrWrongStep) {
		t.Fatalf("skip-ahead capture error = %v, want ErrWrongStep", err)
	}
	if s.Profile().NeutralPulse != 1500 {
		t.Error("rejected capture corrupted the stored neutral value")
	}
}

func TestCalibrationCaptureWithoutSession(t *testing.T) {
	var s CalibrationSession
	if _, err := s.Capture(CalAwaitNeutral, 1500, time.Unix(0, 0)); !errors.Is(err, ErrWrongStep) {
		t.Errorf("capture on idle session error = %v, want ErrWrongStep", err)
	}
}

func TestCalibrationSelfClears(t *testing.T) {
	var s CalibrationSession
	t0 := time.Unix(0, 0)
	s.Start()
	s.Capture(CalAwaitNeutral, 1500, t0)
	s.Capture(CalAwaitThrottle, 2000, t0)
	s.Capture(CalAwaitBrake, 1000, t0)

	s.expire(t0.Add(completeHold / 2))
	if s.Step() != CalComplete {
		t.Error("session cleared before the completion hold elapsed")
	}
	s.expire(t0.Add(completeHold))
	if s.Step() != CalIdle {
		t.Errorf("step after hold = %v, want idle", s.Step())
	}
}

func TestStepByName(t *testing.T) {
	for _, name := range []string{"neutral", "throttle", "brake"} {
		step, ok := StepByName(name)
		if !ok || step.String() != name {
			t.Errorf("StepByName(%q) = %v, %v", name, step, ok)
		}
	}
	if _, ok := StepByName("complete"); ok {
		t.Error("complete must not be capturable")
	}
	if _, ok := StepByName("bogus"); ok {
		t.Error("unknown step resolved")
	}
}
