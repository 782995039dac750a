package critics

import (
	"go.viam.com/mppi/costmap"
)

// defaultCollisionCost dominates every other critic so colliding rollouts can
// never win the weighted average.
const defaultCollisionCost = 100000.0

// obstaclesCritic walks each rollout through the cost grid. Rows touching a
// lethal, inscribed, untracked-unknown, or off-grid cell are flagged infeasible
// and charged the collision cost; the rest accumulate normalized cell cost.
type obstaclesCritic struct {
	criticBase
	collisionCost float64
}

func (c *obstaclesCritic) EnforcesPathInversion() bool { return false }

func (c *obstaclesCritic) Score(d *Data) error {
	if d.Costmap == nil {
		return ErrNoCostmap
	}
	steps := d.Trajectories.TimeSteps()
	for i := range d.Costs {
		var sum float64
		collided := false
		for t := 0; t < steps; t++ {
			mx, my, ok := d.Costmap.WorldToMap(d.Trajectories.X[i][t], d.Trajectories.Y[i][t])
			if !ok {
				collided = true
				break
			}
			switch cost := d.Costmap.Cost(mx, my); cost {
			case costmap.LethalObstacle, costmap.InscribedObstacle:
				collided = true
			case costmap.NoInformation:
				collided = !d.Costmap.IsTrackingUnknown()
			default:
				sum += float64(cost) / float64(costmap.MaxNonObstacle)
			}
			if collided {
				break
			}
		}
		if collided {
			d.MarkInfeasible(i)
			d.Costs[i] += c.collisionCost
			continue
		}
		d.Costs[i] += c.scaled(sum / float64(steps))
	}
	return nil
}
