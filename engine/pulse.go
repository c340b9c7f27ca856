// PWM pulse capture shared between the edge interrupt and the main loop.
package engine

import (
	"sync/atomic"
	"time"
)

// PulseCell holds the most recent throttle pulse width in microseconds.
// The interrupt context publishes into it on each falling edge; the main
// loop takes exactly one snapshot per tick via Load so a width cannot
// change mid-computation. A word-sized atomic is the only synchronization
// needed for this single-producer/single-consumer pair.
type PulseCell struct {
	width uint32
}

// Store publishes a new pulse width. Safe to call from interrupt context.
func (c *PulseCell) Store(widthUS uint16) {
	atomic.StoreUint32(&c.width, uint32(widthUS))
}

// Load returns a snapshot of the latest pulse width.
func (c *PulseCell) Load() uint16 {
	return uint16(atomic.LoadUint32(&c.width))
}

// EdgeRecorder turns rising/falling edge events into pulse widths and
// publishes them through a PulseCell. It runs entirely in the interrupt
// context, so the start timestamp needs no locking.
//
// No filtering happens here: signal loss produces zero or garbage widths
// and the throttle mapper clamps those downstream.
type EdgeRecorder struct {
	cell  *PulseCell
	start time.Time
}

// NewEdgeRecorder creates a recorder publishing into cell.
func NewEdgeRecorder(cell *PulseCell) *EdgeRecorder {
	return &EdgeRecorder{cell: cell}
}

// Edge processes one pin edge. A rising edge records the start time, the
// following falling edge publishes the elapsed width.
func (r *EdgeRecorder) Edge(rising bool, now time.Time) {
	if rising {
		r.start = now
		return
	}
	width := now.Sub(r.start).Microseconds()
	if width < 0 || width > 0xFFFF {
		width = 0
	}
	r.cell.Store(uint16(width))
}
