package optimizer

import (
	"testing"

	"go.viam.com/test"

	"go.viam.com/mppi/models"
)

func TestFilterPreservesConstantSequence(t *testing.T) {
	cs := models.NewControlSequence(24)
	cs.Fill(models.Control{VX: 0.4, WZ: -0.2})

	var history models.ControlHistory
	for i := 0; i < models.ControlHistorySize; i++ {
		history.Push(models.Control{VX: 0.4, WZ: -0.2})
	}

	savitskyGolayFilter(cs, &history)
	// The window coefficients sum to the normalizer, so a flat signal with a
	// matching boundary passes through untouched.
	for ts := 0; ts < cs.Horizon(); ts++ {
		test.That(t, cs.VX[ts], test.ShouldAlmostEqual, 0.4, 1e-12)
		test.That(t, cs.WZ[ts], test.ShouldAlmostEqual, -0.2, 1e-12)
	}
}

func TestFilterDampsSpike(t *testing.T) {
	cs := models.NewControlSequence(24)
	cs.Fill(models.Control{VX: 0.4})
	cs.VX[10] = 1.5

	var history models.ControlHistory
	for i := 0; i < models.ControlHistorySize; i++ {
		history.Push(models.Control{VX: 0.4})
	}

	savitskyGolayFilter(cs, &history)
	test.That(t, cs.VX[10], test.ShouldBeLessThan, 1.5)
	test.That(t, cs.VX[10], test.ShouldBeGreaterThan, 0.4)
}

func TestFilterSkipsShortHorizons(t *testing.T) {
	cs := models.NewControlSequence(minSmoothingHorizon - 1)
	cs.Fill(models.Control{VX: 0.3})
	cs.VX[5] = 2.0

	var history models.ControlHistory
	history.Push(models.Control{VX: 9})

	savitskyGolayFilter(cs, &history)
	test.That(t, cs.VX[5], test.ShouldEqual, 2.0)
}

func TestFilterUsesHistoryBoundary(t *testing.T) {
	cs := models.NewControlSequence(24)
	cs.Fill(models.Control{VX: 0.4})

	// A boundary that disagrees with the sequence pulls the first samples down.
	var history models.ControlHistory
	for i := 0; i < models.ControlHistorySize; i++ {
		history.Push(models.Control{VX: 0})
	}

	savitskyGolayFilter(cs, &history)
	test.That(t, cs.VX[0], test.ShouldBeLessThan, 0.4)
	// Far from the boundary the signal is flat again.
	test.That(t, cs.VX[15], test.ShouldAlmostEqual, 0.4, 1e-9)
}

func TestShiftControlSequence(t *testing.T) {
	cs := models.NewControlSequence(3)
	cs.VX[0], cs.VX[1], cs.VX[2] = 1, 2, 3
	cs.WZ[0], cs.WZ[1], cs.WZ[2] = 0.1, 0.2, 0.3

	shiftControlSequence(cs)
	test.That(t, cs.VX, test.ShouldResemble, []float64{2, 3, 3})
	test.That(t, cs.WZ, test.ShouldResemble, []float64{0.2, 0.3, 0.3})
}
