package engine

// CalibrationProfile holds the pulse-width reference points that map raw
// receiver output onto throttle percentages. All values are microseconds.
// Invariant: MinPulse < NeutralLow <= NeutralPulse <= NeutralHigh < MaxPulse.
type CalibrationProfile struct {
	NeutralPulse uint16 // Stick centered
	NeutralLow   uint16 // Lower edge of the neutral deadband
	NeutralHigh  uint16 // Upper edge of the neutral deadband
	MinPulse     uint16 // Full brake/reverse
	MaxPulse     uint16 // Full throttle
}

// DefaultProfile returns the compiled-in calibration used until a stored
// profile loads or the operator runs calibration.
func DefaultProfile() CalibrationProfile {
	return CalibrationProfile{
		NeutralPulse: 1916,
		NeutralLow:   1890,
		NeutralHigh:  1930,
		MinPulse:     1496,
		MaxPulse:     2000,
	}
}

// Map converts a raw pulse width into a throttle percentage in [-100, 100].
// Widths inside the neutral deadband map to exactly 0; widths above it
// interpolate toward MaxPulse, widths below it toward MinPulse. The result
// is clamped so out-of-range widths from drift or signal loss degrade to
// the nearest extreme instead of overflowing.
func (p CalibrationProfile) Map(width uint16) int {
	var throttle int
	switch {
	case width >= p.NeutralLow && width <= p.NeutralHigh:
		throttle = 0
	case width > p.NeutralHigh:
		throttle = mapRange(int(width), int(p.NeutralHigh), int(p.MaxPulse), 0, 100)
	default:
		throttle = mapRange(int(width), int(p.MinPulse), int(p.NeutralLow), -100, 0)
	}
	return clamp(throttle, -100, 100)
}

// mapRange linearly interpolates x from [inLo, inHi] into [outLo, outHi].
// A degenerate input span maps everything to outLo.
func mapRange(x, inLo, inHi, outLo, outHi int) int {
	if inHi == inLo {
		return outLo
	}
	return (x-inLo)*(outHi-outLo)/(inHi-inLo) + outLo
}

func clamp(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
