package critics

import (
	"go.viam.com/mppi/costmap"
	"go.viam.com/mppi/models"
	"go.viam.com/mppi/pathutil"
)

// Data is the per-pass critic context: the current trajectory batch, the
// working (possibly truncated) path, the goal, and the cost-grid handle, along
// with two lazily computed caches. A fresh Data is built for every scoring
// pass, which is what invalidates the caches.
type Data struct {
	Trajectories models.Trajectories
	Path         models.Path
	Goal         models.Pose2D
	State        models.State
	Costmap      costmap.Costmap

	// PositionTolerance is the goal checker's position tolerance for this tick.
	PositionTolerance float64
	// ModelDT is the rollout integration step.
	ModelDT float64

	// Costs is the additive per-trajectory accumulator, one entry per row.
	Costs []float64

	infeasible []bool

	furthestComputed bool
	furthestPoint    int

	segmentsComputed bool
	validSegments    []bool
}

// NewData builds the context for one scoring pass over the given batch.
func NewData(
	traj models.Trajectories,
	path models.Path,
	goal models.Pose2D,
	state models.State,
	cm costmap.Costmap,
	positionTolerance float64,
	modelDT float64,
) *Data {
	n := traj.BatchSize()
	return &Data{
		Trajectories:      traj,
		Path:              path,
		Goal:              goal,
		State:             state,
		Costmap:           cm,
		PositionTolerance: positionTolerance,
		ModelDT:           modelDT,
		Costs:             make([]float64, n),
		infeasible:        make([]bool, n),
	}
}

// EffectiveGoal returns the pose a critic drives toward: the truncated path's
// last pose when the critic enforces path inversion, the literal goal otherwise.
func (d *Data) EffectiveGoal(enforcePathInversion bool) models.Pose2D {
	if enforcePathInversion && d.Path.Len() > 0 {
		return d.Path.LastPose()
	}
	return d.Goal
}

// FurthestReachedPathPoint computes the furthest-point cache on first use.
func (d *Data) FurthestReachedPathPoint() int {
	if !d.furthestComputed {
		d.furthestPoint = pathutil.FurthestReachedPoint(d.Trajectories, d.Path)
		d.furthestComputed = true
	}
	return d.furthestPoint
}

// ValidSegments computes the per-segment traversal validity cache on first use.
func (d *Data) ValidSegments() ([]bool, error) {
	if !d.segmentsComputed {
		if d.Costmap == nil {
			return nil, ErrNoCostmap
		}
		d.validSegments = pathutil.ValidSegments(d.Path, d.Costmap)
		d.segmentsComputed = true
	}
	return d.validSegments, nil
}

// MarkInfeasible flags a row as colliding or otherwise unexecutable.
func (d *Data) MarkInfeasible(row int) {
	d.infeasible[row] = true
}

// Infeasible reports whether a row was flagged.
func (d *Data) Infeasible(row int) bool {
	return d.infeasible[row]
}

// AllInfeasible reports whether every sampled rollout was flagged.
func (d *Data) AllInfeasible() bool {
	if len(d.infeasible) == 0 {
		return false
	}
	for _, bad := range d.infeasible {
		if !bad {
			return false
		}
	}
	return true
}
