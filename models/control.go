// Package models contains the value types shared by the optimizer, critic, and
// controller packages.
package models

// Control is a single velocity command: forward, lateral, and angular.
type Control struct {
	VX float64
	VY float64
	WZ float64
}

// ControlSequence is the horizon-length sequence of controls the optimizer refines
// each tick. Axes are stored as separate slices so per-axis filtering and
// aggregation run over contiguous values.
type ControlSequence struct {
	VX []float64
	VY []float64
	WZ []float64
}

// NewControlSequence returns a zeroed sequence of the given horizon length.
func NewControlSequence(horizon int) ControlSequence {
	return ControlSequence{
		VX: make([]float64, horizon),
		VY: make([]float64, horizon),
		WZ: make([]float64, horizon),
	}
}

// Horizon returns the number of timesteps in the sequence.
func (cs ControlSequence) Horizon() int {
	return len(cs.VX)
}

// At returns the control at timestep t.
func (cs ControlSequence) At(t int) Control {
	return Control{VX: cs.VX[t], VY: cs.VY[t], WZ: cs.WZ[t]}
}

// Fill sets every timestep to the given control.
func (cs ControlSequence) Fill(c Control) {
	for t := range cs.VX {
		cs.VX[t] = c.VX
		cs.VY[t] = c.VY
		cs.WZ[t] = c.WZ
	}
}

// Copy returns a deep copy of the sequence.
func (cs ControlSequence) Copy() ControlSequence {
	out := NewControlSequence(cs.Horizon())
	copy(out.VX, cs.VX)
	copy(out.VY, cs.VY)
	copy(out.WZ, cs.WZ)
	return out
}

// ControlHistorySize is the number of applied controls retained as the left
// boundary condition for smoothing.
const ControlHistorySize = 4

// ControlHistory is a fixed-capacity ring of the most recently applied controls.
// Pushing rotates an index over the contiguous buffer rather than moving entries.
type ControlHistory struct {
	buf  [ControlHistorySize]Control
	head int
}

// Push records an applied control, evicting the oldest entry.
func (h *ControlHistory) Push(c Control) {
	h.buf[h.head] = c
	h.head = (h.head + 1) % ControlHistorySize
}

// At returns the i-th retained control, oldest first.
func (h *ControlHistory) At(i int) Control {
	return h.buf[(h.head+i)%ControlHistorySize]
}

// Reset zeroes the ring.
func (h *ControlHistory) Reset() {
	*h = ControlHistory{}
}
