package engine

import (
	"strconv"
	"time"
)

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// debugPrintln is the global debug print function (can be set by platform code)
var debugPrintln DebugWriter = func(s string) {} // No-op by default

// statusInterval paces the periodic status line.
const statusInterval = 500 * time.Millisecond

// SetDebugWriter sets the platform-specific debug output function.
// This allows platforms to redirect debug output to UART, USB, etc.
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// debugTick emits the periodic status line when the interval has elapsed.
// Pacing is a timestamp delta against the last emission, never a sleep.
func (e *Engine) debugTick(now time.Time, width uint16, throttle int) {
	if now.Sub(e.debugLast) <= statusInterval {
		return
	}
	e.debugLast = now

	line := "PWM: " + strconv.Itoa(int(width)) +
		" | Neutral: " + strconv.Itoa(int(e.Profile.NeutralLow)) + "-" + strconv.Itoa(int(e.Profile.NeutralHigh)) +
		" | Throttle: " + strconv.Itoa(throttle) + "%" +
		" | Prev: " + strconv.Itoa(e.prev) + "%" +
		" | Burst: " + onOff(e.burst.Active) +
		" | BF: " + onOff(e.Effects.Backfire) +
		" | BC: " + onOff(e.Effects.BrakeCrackle) +
		" | IB: " + onOff(e.Effects.IdleBurble)
	debugPrintln(line)
}

func onOff(b bool) string {
	if b {
		return "ON"
	}
	return "OFF"
}
