package critics

import (
	"math"

	"go.viam.com/mppi/models"
	"go.viam.com/mppi/pathutil"
)

// pathAlignCritic penalizes lateral deviation between sampled rollout poses
// and the path, up to just past the furthest reached point. Poses whose
// nearest path segment is untraversable contribute nothing, so the batch is
// free to leave a blocked path.
type pathAlignCritic struct {
	criticBase
	threshold          float64
	offsetFromFurthest int
	stride             int
}

func (c *pathAlignCritic) EnforcesPathInversion() bool { return true }

func (c *pathAlignCritic) Score(d *Data) error {
	if d.Path.Len() < 2 {
		return ErrInsufficientPath
	}
	if pathutil.WithinPositionGoalTolerance(c.threshold, d.State.Pose, d.EffectiveGoal(c.EnforcesPathInversion())) {
		return nil
	}
	valid, err := d.ValidSegments()
	if err != nil {
		return err
	}
	upper := d.FurthestReachedPathPoint() + c.offsetFromFurthest
	if upper > len(valid) {
		upper = len(valid)
	}
	if upper < 2 {
		return nil
	}
	steps := d.Trajectories.TimeSteps()
	for i := range d.Costs {
		var sum float64
		count := 0
		cursor := 0
		for t := 0; t < steps; t += c.stride {
			px := d.Trajectories.X[i][t]
			py := d.Trajectories.Y[i][t]
			minID := cursor
			minDist := math.MaxFloat64
			for j := cursor; j < upper; j++ {
				dx := d.Path.X[j] - px
				dy := d.Path.Y[j] - py
				if dist := dx*dx + dy*dy; dist < minDist {
					minDist = dist
					minID = j
				}
			}
			cursor = minID
			if !valid[minID] {
				continue
			}
			sum += math.Sqrt(minDist)
			count++
		}
		if count > 0 {
			d.Costs[i] += c.scaled(sum / float64(count))
		}
	}
	return nil
}

// pathFollowCritic pulls each rollout's final pose toward a path point a fixed
// offset past the furthest reached point, rewarding progress along the path.
type pathFollowCritic struct {
	criticBase
	threshold          float64
	offsetFromFurthest int
}

func (c *pathFollowCritic) EnforcesPathInversion() bool { return true }

func (c *pathFollowCritic) Score(d *Data) error {
	if d.Path.Len() < 2 {
		return ErrInsufficientPath
	}
	if pathutil.WithinPositionGoalTolerance(c.threshold, d.State.Pose, d.EffectiveGoal(c.EnforcesPathInversion())) {
		return nil
	}
	valid, err := d.ValidSegments()
	if err != nil {
		return err
	}
	target := d.FurthestReachedPathPoint() + c.offsetFromFurthest
	if target > d.Path.Len()-1 {
		target = d.Path.Len() - 1
	}
	// Back off a blocked target onto traversable path.
	for target > 0 && target-1 < len(valid) && !valid[target-1] {
		target--
	}
	tx := d.Path.X[target]
	ty := d.Path.Y[target]
	last := d.Trajectories.TimeSteps() - 1
	for i := range d.Costs {
		d.Costs[i] += c.scaled(math.Hypot(d.Trajectories.X[i][last]-tx, d.Trajectories.Y[i][last]-ty))
	}
	return nil
}

// pathAngleCritic turns the batch toward the path when the robot is pointed
// well away from it; threshold is the activation heading error in radians.
type pathAngleCritic struct {
	criticBase
	threshold          float64
	offsetFromFurthest int
}

func (c *pathAngleCritic) EnforcesPathInversion() bool { return true }

func (c *pathAngleCritic) Score(d *Data) error {
	if d.Path.Len() == 0 {
		return ErrInsufficientPath
	}
	target := d.FurthestReachedPathPoint() + c.offsetFromFurthest
	if target > d.Path.Len()-1 {
		target = d.Path.Len() - 1
	}
	tx := d.Path.X[target]
	ty := d.Path.Y[target]
	if pathutil.PosePointAngle(d.State.Pose, tx, ty, true) < c.threshold {
		return nil
	}
	last := d.Trajectories.TimeSteps() - 1
	for i := range d.Costs {
		pose := models.Pose2D{
			X:     d.Trajectories.X[i][last],
			Y:     d.Trajectories.Y[i][last],
			Theta: d.Trajectories.Yaws[i][last],
		}
		d.Costs[i] += c.scaled(pathutil.PosePointAngle(pose, tx, ty, true))
	}
	return nil
}
