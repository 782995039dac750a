// Package pathutil implements the path geometry used during optimization: cusp
// detection and truncation, furthest-reached-point tracking, and per-segment
// traversal validity against the cost grid.
package pathutil

import (
	"math"

	"github.com/golang/geo/r2"

	"go.viam.com/mppi/costmap"
	"go.viam.com/mppi/models"
)

// NormalizeAngle wraps an angle in radians into [-pi, pi).
func NormalizeAngle(a float64) float64 {
	r := math.Mod(a+math.Pi, 2*math.Pi)
	if r < 0 {
		return r + math.Pi
	}
	return r - math.Pi
}

// ShortestAngularDistance returns the smallest signed rotation taking from to
// to. The result is always within [-pi, pi).
func ShortestAngularDistance(from, to float64) float64 {
	return NormalizeAngle(to - from)
}

// FirstInversionIndex scans consecutive point triples and returns the index of
// the first point past a cusp, where the dot product of the two successive
// direction vectors turns negative. Returns p.Len() when no inversion exists.
func FirstInversionIndex(p models.Path) int {
	if p.Len() < 3 {
		return p.Len()
	}
	for idx := 1; idx < p.Len()-1; idx++ {
		oa := r2.Point{X: p.X[idx] - p.X[idx-1], Y: p.Y[idx] - p.Y[idx-1]}
		ab := r2.Point{X: p.X[idx+1] - p.X[idx], Y: p.Y[idx+1] - p.Y[idx]}
		if oa.Dot(ab) < 0 {
			return idx + 1
		}
	}
	return p.Len()
}

// TruncateAtFirstInversion returns a working view of p up to and including the
// first cusp point, plus the index of the first removed point (0 when the path
// has no inversion). The original path is never mutated.
func TruncateAtFirstInversion(p models.Path) (models.Path, int) {
	idx := FirstInversionIndex(p)
	if idx == p.Len() {
		return p, 0
	}
	return p.Truncate(idx), idx
}

// FurthestReachedPoint returns the furthest path index reached by the final
// poses of the batch. Each row's nearest-point search is lower-bounded by the
// result of the rows before it, keeping the scan amortized linear in the path
// length rather than quadratic.
func FurthestReachedPoint(traj models.Trajectories, path models.Path) int {
	last := traj.TimeSteps() - 1
	if last < 0 || path.Len() == 0 {
		return 0
	}
	furthest := 0
	for i := 0; i < traj.BatchSize(); i++ {
		tx := traj.X[i][last]
		ty := traj.Y[i][last]
		minID := furthest
		minDist := math.MaxFloat64
		for j := furthest; j < path.Len(); j++ {
			dx := path.X[j] - tx
			dy := path.Y[j] - ty
			if d := dx*dx + dy*dy; d < minDist {
				minDist = d
				minID = j
			}
		}
		if minID > furthest {
			furthest = minID
		}
	}
	return furthest
}

// NearestPointIndex returns the path index closest to the pose, searching from
// the given lower bound onward.
func NearestPointIndex(path models.Path, pose models.Pose2D, from int) int {
	if from < 0 {
		from = 0
	}
	minID := from
	minDist := math.MaxFloat64
	for j := from; j < path.Len(); j++ {
		dx := path.X[j] - pose.X
		dy := path.Y[j] - pose.Y
		if d := dx*dx + dy*dy; d < minDist {
			minDist = d
			minID = j
		}
	}
	return minID
}

// ValidSegments reports, for each path segment, whether the cell under its
// starting point can be traversed: false for lethal, inflated-obstacle, and
// off-grid cells, and for unknown cells unless the grid tracks unknown space.
func ValidSegments(path models.Path, cm costmap.Costmap) []bool {
	n := path.Len() - 1
	if n < 0 {
		n = 0
	}
	valid := make([]bool, n)
	for idx := 0; idx < n; idx++ {
		mx, my, ok := cm.WorldToMap(path.X[idx], path.Y[idx])
		if !ok {
			continue
		}
		switch cm.Cost(mx, my) {
		case costmap.LethalObstacle, costmap.InscribedObstacle:
		case costmap.NoInformation:
			valid[idx] = cm.IsTrackingUnknown()
		default:
			valid[idx] = true
		}
	}
	return valid
}

// WithinPositionGoalTolerance reports whether the pose lies within tol meters
// of the goal position, compared in squared distance.
func WithinPositionGoalTolerance(tol float64, pose, goal models.Pose2D) bool {
	dx := goal.X - pose.X
	dy := goal.Y - pose.Y
	return dx*dx+dy*dy < tol*tol
}

// PosePointAngle returns the absolute heading error between the pose and the
// direction toward the given point. Without a forward preference the reversed
// heading is also considered and the smaller error wins.
func PosePointAngle(pose models.Pose2D, px, py float64, forwardPreference bool) float64 {
	yaw := math.Atan2(py-pose.Y, px-pose.X)
	d := math.Abs(ShortestAngularDistance(yaw, pose.Theta))
	if forwardPreference {
		return d
	}
	flipped := math.Abs(ShortestAngularDistance(yaw, NormalizeAngle(pose.Theta+math.Pi)))
	if flipped < d {
		return flipped
	}
	return d
}
