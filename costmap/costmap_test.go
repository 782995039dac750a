package costmap

import (
	"testing"

	"go.viam.com/test"
)

func TestGridWorldToMap(t *testing.T) {
	g := NewGrid(10, 10, 0.1, -0.5, -0.5, false)

	mx, my, ok := g.WorldToMap(0, 0)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, mx, test.ShouldEqual, 5)
	test.That(t, my, test.ShouldEqual, 5)

	_, _, ok = g.WorldToMap(-0.6, 0)
	test.That(t, ok, test.ShouldBeFalse)
	_, _, ok = g.WorldToMap(0.6, 0)
	test.That(t, ok, test.ShouldBeFalse)
}

func TestGridCosts(t *testing.T) {
	g := NewGrid(4, 4, 1.0, 0, 0, false)
	test.That(t, g.Cost(1, 1), test.ShouldEqual, FreeSpace)

	g.SetCost(1, 1, LethalObstacle)
	test.That(t, g.Cost(1, 1), test.ShouldEqual, LethalObstacle)

	// Off-grid lookups report unknown space.
	test.That(t, g.Cost(-1, 0), test.ShouldEqual, NoInformation)
	test.That(t, g.Cost(4, 0), test.ShouldEqual, NoInformation)

	test.That(t, g.SetWorldCost(2.5, 3.5, InscribedObstacle), test.ShouldBeTrue)
	test.That(t, g.Cost(2, 3), test.ShouldEqual, InscribedObstacle)
	test.That(t, g.SetWorldCost(9, 9, LethalObstacle), test.ShouldBeFalse)
}

func TestGridTrackingUnknown(t *testing.T) {
	test.That(t, NewGrid(2, 2, 1, 0, 0, true).IsTrackingUnknown(), test.ShouldBeTrue)
	test.That(t, NewGrid(2, 2, 1, 0, 0, false).IsTrackingUnknown(), test.ShouldBeFalse)
}
