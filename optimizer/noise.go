package optimizer

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"go.viam.com/mppi/models"
)

// noiseGenerator draws per-axis Gaussian perturbations around the current mean
// from a single seedable stream, so identical seeds produce identical batches.
type noiseGenerator struct {
	vx        distuv.Normal
	vy        distuv.Normal
	wz        distuv.Normal
	holonomic bool
}

func newNoiseGenerator(std models.SamplingStd, holonomic bool, seed uint64) *noiseGenerator {
	src := rand.NewSource(seed)
	return &noiseGenerator{
		vx:        distuv.Normal{Mu: 0, Sigma: std.VX, Src: src},
		vy:        distuv.Normal{Mu: 0, Sigma: std.VY, Src: src},
		wz:        distuv.Normal{Mu: 0, Sigma: std.WZ, Src: src},
		holonomic: holonomic,
	}
}

// sample fills the candidate batch with mean plus independent noise per axis
// per timestep. Row 0 is left noise-free so the batch always contains the
// unperturbed previous plan. Draws are sequential to keep batches reproducible.
func (g *noiseGenerator) sample(mean models.ControlSequence, cand *candidates) {
	steps := mean.Horizon()
	for t := 0; t < steps; t++ {
		cand.vx[0][t] = mean.VX[t]
		cand.vy[0][t] = mean.VY[t]
		cand.wz[0][t] = mean.WZ[t]
	}
	for i := 1; i < cand.batch; i++ {
		for t := 0; t < steps; t++ {
			cand.vx[i][t] = mean.VX[t] + g.vx.Rand()
			if g.holonomic {
				cand.vy[i][t] = mean.VY[t] + g.vy.Rand()
			} else {
				cand.vy[i][t] = 0
			}
			cand.wz[i][t] = mean.WZ[t] + g.wz.Rand()
		}
	}
}

// candidates holds the sampled control sequences for one iteration, one row per
// batch member.
type candidates struct {
	batch     int
	timeSteps int
	vx        [][]float64
	vy        [][]float64
	wz        [][]float64
}

func newCandidates(batch, timeSteps int) *candidates {
	c := &candidates{batch: batch, timeSteps: timeSteps}
	c.vx = make([][]float64, batch)
	c.vy = make([][]float64, batch)
	c.wz = make([][]float64, batch)
	for i := 0; i < batch; i++ {
		c.vx[i] = make([]float64, timeSteps)
		c.vy[i] = make([]float64, timeSteps)
		c.wz[i] = make([]float64, timeSteps)
	}
	return c
}
