package critics

import (
	"math"

	"go.viam.com/mppi/models"
	"go.viam.com/mppi/pathutil"
)

// constraintCritic charges rollouts for time spent outside the configured
// velocity bounds. Applied velocities are bounded during integration, so this
// mostly guards motion models whose applied velocities drift past the limits.
type constraintCritic struct {
	criticBase
	constraints models.Constraints
}

func (c *constraintCritic) EnforcesPathInversion() bool { return false }

func (c *constraintCritic) Score(d *Data) error {
	cons := c.constraints
	steps := d.Trajectories.TimeSteps()
	for i := range d.Costs {
		var sum float64
		for t := 0; t < steps; t++ {
			if vx := d.Trajectories.VX[i][t]; vx > cons.VXMax {
				sum += vx - cons.VXMax
			} else if vx < cons.VXMin {
				sum += cons.VXMin - vx
			}
			if vy := math.Abs(d.Trajectories.VY[i][t]); vy > cons.VYMax {
				sum += vy - cons.VYMax
			}
			if wz := math.Abs(d.Trajectories.WZ[i][t]); wz > cons.WZMax {
				sum += wz - cons.WZMax
			}
		}
		d.Costs[i] += c.scaled(sum * d.ModelDT)
	}
	return nil
}

// preferForwardCritic penalizes time spent reversing, except on final approach
// where backing onto the goal may be the only option.
type preferForwardCritic struct {
	criticBase
	threshold float64
}

func (c *preferForwardCritic) EnforcesPathInversion() bool { return true }

func (c *preferForwardCritic) Score(d *Data) error {
	if d.Path.Len() == 0 {
		return ErrInsufficientPath
	}
	if pathutil.WithinPositionGoalTolerance(c.threshold, d.State.Pose, d.EffectiveGoal(c.EnforcesPathInversion())) {
		return nil
	}
	steps := d.Trajectories.TimeSteps()
	for i := range d.Costs {
		var sum float64
		for t := 0; t < steps; t++ {
			if vx := d.Trajectories.VX[i][t]; vx < 0 {
				sum -= vx
			}
		}
		d.Costs[i] += c.scaled(sum * d.ModelDT)
	}
	return nil
}

// twirlingCritic damps gratuitous rotation on holonomic bases.
type twirlingCritic struct {
	criticBase
}

func (c *twirlingCritic) EnforcesPathInversion() bool { return false }

func (c *twirlingCritic) Score(d *Data) error {
	steps := d.Trajectories.TimeSteps()
	for i := range d.Costs {
		var sum float64
		for t := 0; t < steps; t++ {
			sum += math.Abs(d.Trajectories.WZ[i][t])
		}
		d.Costs[i] += c.scaled(sum / float64(steps))
	}
	return nil
}
