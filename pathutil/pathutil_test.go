package pathutil

import (
	"math"
	"math/rand"
	"testing"

	"go.viam.com/test"

	"go.viam.com/mppi/costmap"
	"go.viam.com/mppi/models"
)

func TestFirstInversionIndex(t *testing.T) {
	p := models.PathFromPoses([]models.Pose2D{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 0},
	})
	test.That(t, FirstInversionIndex(p), test.ShouldEqual, 3)

	straight := models.PathFromPoses([]models.Pose2D{
		{X: 0}, {X: 1}, {X: 2}, {X: 3},
	})
	test.That(t, FirstInversionIndex(straight), test.ShouldEqual, straight.Len())

	short := models.PathFromPoses([]models.Pose2D{{X: 0}, {X: 1}})
	test.That(t, FirstInversionIndex(short), test.ShouldEqual, 2)
}

func TestTruncateAtFirstInversion(t *testing.T) {
	p := models.PathFromPoses([]models.Pose2D{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 0},
	})
	working, idx := TruncateAtFirstInversion(p)
	test.That(t, idx, test.ShouldEqual, 3)
	test.That(t, working.Len(), test.ShouldEqual, 3)
	test.That(t, working.LastPose().X, test.ShouldEqual, 2)
	// The original is never mutated.
	test.That(t, p.Len(), test.ShouldEqual, 5)

	straight := models.PathFromPoses([]models.Pose2D{{X: 0}, {X: 1}, {X: 2}})
	same, idx := TruncateAtFirstInversion(straight)
	test.That(t, idx, test.ShouldEqual, 0)
	test.That(t, same.Len(), test.ShouldEqual, 3)
}

func randomBatch(rng *rand.Rand, rows, steps int) models.Trajectories {
	tr := models.NewTrajectories(rows, steps)
	for i := 0; i < rows; i++ {
		for t := 0; t < steps; t++ {
			tr.X[i][t] = rng.Float64() * 5
			tr.Y[i][t] = rng.Float64() * 5
		}
	}
	return tr
}

func subBatch(tr models.Trajectories, rows int) models.Trajectories {
	return models.Trajectories{
		X: tr.X[:rows], Y: tr.Y[:rows], Yaws: tr.Yaws[:rows],
		VX: tr.VX[:rows], VY: tr.VY[:rows], WZ: tr.WZ[:rows],
	}
}

func TestFurthestReachedPointMonotonic(t *testing.T) {
	rng := rand.New(rand.NewSource(17))
	poses := make([]models.Pose2D, 30)
	for trial := 0; trial < 20; trial++ {
		for i := range poses {
			poses[i] = models.Pose2D{X: rng.Float64() * 5, Y: rng.Float64() * 5}
		}
		path := models.PathFromPoses(poses)
		tr := randomBatch(rng, 12, 8)

		// The cursor never retreats as rows are added.
		prev := 0
		for rows := 1; rows <= tr.BatchSize(); rows++ {
			got := FurthestReachedPoint(subBatch(tr, rows), path)
			test.That(t, got, test.ShouldBeGreaterThanOrEqualTo, prev)
			test.That(t, got, test.ShouldBeLessThan, path.Len())
			prev = got
		}
	}
}

func TestFurthestReachedPointStraightLine(t *testing.T) {
	poses := make([]models.Pose2D, 11)
	for i := range poses {
		poses[i] = models.Pose2D{X: float64(i) * 0.5}
	}
	path := models.PathFromPoses(poses)

	tr := models.NewTrajectories(2, 3)
	// Row 0 ends at x=1.2 (nearest index 2), row 1 ends at x=3.1 (nearest 6).
	tr.X[0] = []float64{0, 0.6, 1.2}
	tr.Y[0] = []float64{0, 0, 0}
	tr.X[1] = []float64{0, 1.6, 3.1}
	tr.Y[1] = []float64{0, 0, 0}
	test.That(t, FurthestReachedPoint(tr, path), test.ShouldEqual, 6)
}

func TestValidSegments(t *testing.T) {
	g := costmap.NewGrid(10, 10, 1, 0, 0, false)
	g.SetCost(2, 0, costmap.LethalObstacle)
	g.SetCost(3, 0, costmap.InscribedObstacle)
	g.SetCost(4, 0, costmap.NoInformation)

	poses := make([]models.Pose2D, 7)
	for i := range poses {
		poses[i] = models.Pose2D{X: float64(i) + 0.5, Y: 0.5}
	}
	path := models.PathFromPoses(poses)

	valid := ValidSegments(path, g)
	test.That(t, valid, test.ShouldResemble, []bool{true, true, false, false, false, true})

	tracking := costmap.NewGrid(10, 10, 1, 0, 0, true)
	tracking.SetCost(4, 0, costmap.NoInformation)
	valid = ValidSegments(path, tracking)
	test.That(t, valid[4], test.ShouldBeTrue)
}

func TestWithinPositionGoalTolerance(t *testing.T) {
	goal := models.Pose2D{X: 1, Y: 1}
	test.That(t, WithinPositionGoalTolerance(0.5, models.Pose2D{X: 1.2, Y: 1.2}, goal), test.ShouldBeTrue)
	test.That(t, WithinPositionGoalTolerance(0.25, models.Pose2D{X: 1.2, Y: 1.2}, goal), test.ShouldBeFalse)
	test.That(t, WithinPositionGoalTolerance(0, models.Pose2D{X: 1, Y: 1}, goal), test.ShouldBeFalse)
}

func TestAngleHelpers(t *testing.T) {
	test.That(t, NormalizeAngle(3*math.Pi), test.ShouldAlmostEqual, -math.Pi)
	test.That(t, NormalizeAngle(-3*math.Pi), test.ShouldAlmostEqual, -math.Pi)
	test.That(t, NormalizeAngle(math.Pi/4), test.ShouldAlmostEqual, math.Pi/4)

	test.That(t, ShortestAngularDistance(0.1, -0.1), test.ShouldAlmostEqual, -0.2)
	test.That(t, ShortestAngularDistance(-math.Pi+0.1, math.Pi-0.1), test.ShouldAlmostEqual, -0.2)
}

func TestPosePointAngle(t *testing.T) {
	pose := models.Pose2D{X: 0, Y: 0, Theta: 0}
	test.That(t, PosePointAngle(pose, 1, 0, true), test.ShouldAlmostEqual, 0)
	test.That(t, PosePointAngle(pose, 0, 1, true), test.ShouldAlmostEqual, math.Pi/2)

	// A point behind the robot costs nothing when reversing is allowed.
	test.That(t, PosePointAngle(pose, -1, 0, false), test.ShouldAlmostEqual, 0)
	test.That(t, PosePointAngle(pose, -1, 0, true), test.ShouldAlmostEqual, math.Pi)
}

func TestNearestPointIndex(t *testing.T) {
	poses := make([]models.Pose2D, 6)
	for i := range poses {
		poses[i] = models.Pose2D{X: float64(i)}
	}
	path := models.PathFromPoses(poses)

	test.That(t, NearestPointIndex(path, models.Pose2D{X: 2.2}, 0), test.ShouldEqual, 2)
	// The lower bound is honored even when an earlier point is closer.
	test.That(t, NearestPointIndex(path, models.Pose2D{X: 0}, 3), test.ShouldEqual, 3)
}
