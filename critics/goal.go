package critics

import (
	"math"

	"go.viam.com/mppi/pathutil"
)

// goalCritic rewards trajectories that close remaining distance to the goal.
// It only activates once the robot is within its threshold of the goal so the
// path critics drive the approach.
type goalCritic struct {
	criticBase
	threshold float64
}

func (c *goalCritic) EnforcesPathInversion() bool { return false }

func (c *goalCritic) Score(d *Data) error {
	if d.Path.Len() == 0 {
		return ErrInsufficientPath
	}
	goal := d.EffectiveGoal(c.EnforcesPathInversion())
	if !pathutil.WithinPositionGoalTolerance(c.threshold, d.State.Pose, goal) {
		return nil
	}
	steps := d.Trajectories.TimeSteps()
	for i := range d.Costs {
		var sum float64
		for t := 0; t < steps; t++ {
			sum += math.Hypot(d.Trajectories.X[i][t]-goal.X, d.Trajectories.Y[i][t]-goal.Y)
		}
		d.Costs[i] += c.scaled(sum / float64(steps))
	}
	return nil
}

// goalAngleCritic aligns the final heading with the goal heading once the
// robot is near the goal.
type goalAngleCritic struct {
	criticBase
	threshold float64
}

func (c *goalAngleCritic) EnforcesPathInversion() bool { return false }

func (c *goalAngleCritic) Score(d *Data) error {
	if d.Path.Len() == 0 {
		return ErrInsufficientPath
	}
	goal := d.EffectiveGoal(c.EnforcesPathInversion())
	if !pathutil.WithinPositionGoalTolerance(c.threshold, d.State.Pose, goal) {
		return nil
	}
	steps := d.Trajectories.TimeSteps()
	for i := range d.Costs {
		var sum float64
		for t := 0; t < steps; t++ {
			sum += math.Abs(pathutil.ShortestAngularDistance(d.Trajectories.Yaws[i][t], goal.Theta))
		}
		d.Costs[i] += c.scaled(sum / float64(steps))
	}
	return nil
}
