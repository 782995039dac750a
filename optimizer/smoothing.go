package optimizer

import (
	"go.viam.com/mppi/models"
)

// Savitzky-Golay quadratic, 9-point coefficients over 231.
var sgCoefficients = [9]float64{-21, 14, 39, 54, 59, 54, 39, 14, -21}

// minSmoothingHorizon is the horizon length under which smoothing is skipped;
// shorter sequences have too little interior for a 9-point window.
const minSmoothingHorizon = 20

// savitskyGolayFilter smooths each control axis with a 9-point quadratic FIR,
// using the last applied controls as the left boundary so the start of the
// horizon stays continuous with what the robot just executed.
func savitskyGolayFilter(cs models.ControlSequence, history *models.ControlHistory) {
	if cs.Horizon() < minSmoothingHorizon {
		return
	}
	filterAxis(cs.VX, history.At(0).VX, history.At(1).VX, history.At(2).VX, history.At(3).VX)
	filterAxis(cs.VY, history.At(0).VY, history.At(1).VY, history.At(2).VY, history.At(3).VY)
	filterAxis(cs.WZ, history.At(0).WZ, history.At(1).WZ, history.At(2).WZ, history.At(3).WZ)
}

func filterAxis(seq []float64, h0, h1, h2, h3 float64) {
	n := len(seq) - 1
	initial := append([]float64(nil), seq...)
	window := [9]float64{h0, h1, h2, h3, initial[0], initial[1], initial[2], initial[3], initial[4]}
	for idx := 0; idx != n; idx++ {
		var v float64
		for k, c := range sgCoefficients {
			v += window[k] * c
		}
		seq[idx] = v / 231.0
		copy(window[:8], window[1:])
		if idx+5 < n {
			window[8] = initial[idx+5]
		} else {
			window[8] = initial[n]
		}
	}
}

// shiftControlSequence advances the horizon by one step after the first command
// is applied: the executed step drops off the front and the final step carries
// the penultimate value forward.
func shiftControlSequence(cs models.ControlSequence) {
	shiftAxis(cs.VX)
	shiftAxis(cs.VY)
	shiftAxis(cs.WZ)
}

func shiftAxis(seq []float64) {
	if len(seq) < 2 {
		return
	}
	copy(seq, seq[1:])
	seq[len(seq)-1] = seq[len(seq)-2]
}
