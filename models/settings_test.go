package models

import (
	"testing"

	"github.com/edaniels/golog"
	"go.viam.com/test"
)

func TestValidateCorrectsMagnitudes(t *testing.T) {
	logger, logs := golog.NewObservedTestLogger(t)

	s := DefaultSettings()
	s.BatchSize = -5
	s.TimeSteps = 0
	s.ModelDT = -0.1
	s.Iterations = 0
	s.Temperature = 0
	s.Validate(logger)

	def := DefaultSettings()
	test.That(t, s.BatchSize, test.ShouldEqual, def.BatchSize)
	test.That(t, s.TimeSteps, test.ShouldEqual, def.TimeSteps)
	test.That(t, s.ModelDT, test.ShouldEqual, def.ModelDT)
	test.That(t, s.Iterations, test.ShouldEqual, 1)
	test.That(t, s.Temperature, test.ShouldEqual, def.Temperature)
	test.That(t, logs.Len(), test.ShouldBeGreaterThanOrEqualTo, 5)
}

func TestValidateCorrectsAccelerationSigns(t *testing.T) {
	logger, logs := golog.NewObservedTestLogger(t)

	s := DefaultSettings()
	s.Constraints.AXMin = 2.5
	s.Constraints.AXMax = -1.0
	s.Validate(logger)

	// Sign contradictions are corrected with a warning, never rejected.
	test.That(t, s.Constraints.AXMin, test.ShouldEqual, -2.5)
	test.That(t, s.Constraints.AXMax, test.ShouldEqual, 1.0)
	test.That(t, logs.FilterMessageSnippet("deceleration").Len(), test.ShouldEqual, 1)
}

func TestValidateUnknownMotionModel(t *testing.T) {
	logger, logs := golog.NewObservedTestLogger(t)

	s := DefaultSettings()
	s.MotionModel = "Ackermann"
	s.Validate(logger)

	test.That(t, s.MotionModel, test.ShouldEqual, DiffDriveModel)
	test.That(t, logs.FilterMessageSnippet("unknown motion model").Len(), test.ShouldEqual, 1)
}

func TestValidateLeavesGoodSettingsAlone(t *testing.T) {
	logger, logs := golog.NewObservedTestLogger(t)

	s := DefaultSettings()
	before := s
	s.Validate(logger)

	test.That(t, s, test.ShouldResemble, before)
	test.That(t, logs.Len(), test.ShouldEqual, 0)
}

func TestValidateSamplingStd(t *testing.T) {
	logger := golog.NewTestLogger(t)

	s := DefaultSettings()
	s.SamplingStd.WZ = 0
	s.Validate(logger)
	test.That(t, s.SamplingStd.WZ, test.ShouldEqual, DefaultSettings().SamplingStd.WZ)
}
