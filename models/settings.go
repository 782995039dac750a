package models

import (
	"math"

	"github.com/edaniels/golog"
)

// MotionModelName selects the kinematic model used for rollouts.
type MotionModelName string

// The built-in motion models.
const (
	DiffDriveModel MotionModelName = "DiffDrive"
	OmniModel      MotionModelName = "Omni"
)

// Constraints are the per-axis velocity and acceleration limits. Lateral and
// angular limits are symmetric about zero; AXMin is the deceleration limit and
// must be negative.
type Constraints struct {
	VXMax float64
	VXMin float64
	VYMax float64
	WZMax float64
	AXMax float64
	AXMin float64
	AYMax float64
	AZMax float64
}

// SamplingStd is the per-axis standard deviation of the control noise.
type SamplingStd struct {
	VX float64
	VY float64
	WZ float64
}

// OptimizerSettings configures one optimizer instance. Settings are read-only
// during a pass and replaced wholesale on reconfiguration.
type OptimizerSettings struct {
	BatchSize   int
	TimeSteps   int
	ModelDT     float64
	Iterations  int
	Temperature float64
	MotionModel MotionModelName
	Constraints Constraints
	SamplingStd SamplingStd

	EnableSmoothing      bool
	ShiftControlSequence bool

	// RetryAttemptLimit is the number of consecutive failed passes tolerated
	// before the warm start is discarded.
	RetryAttemptLimit int

	// Seed initializes the sampling noise stream so batches are reproducible.
	Seed uint64
}

// DefaultSettings returns a usable configuration for a small indoor base.
func DefaultSettings() OptimizerSettings {
	return OptimizerSettings{
		BatchSize:   1000,
		TimeSteps:   56,
		ModelDT:     0.05,
		Iterations:  1,
		Temperature: 0.3,
		MotionModel: DiffDriveModel,
		Constraints: Constraints{
			VXMax: 0.5,
			VXMin: -0.35,
			VYMax: 0.5,
			WZMax: 1.9,
			AXMax: 3.0,
			AXMin: -3.0,
			AYMax: 3.0,
			AZMax: 3.5,
		},
		SamplingStd:          SamplingStd{VX: 0.2, VY: 0.2, WZ: 0.4},
		EnableSmoothing:      true,
		ShiftControlSequence: true,
		RetryAttemptLimit:    1,
		Seed:                 1,
	}
}

// Validate corrects invalid values in place, warning for each correction.
// Configuration contradictions are clamped to the nearest valid magnitude,
// never surfaced as errors.
func (s *OptimizerSettings) Validate(logger golog.Logger) {
	def := DefaultSettings()
	if s.BatchSize <= 0 {
		logger.Warnf("batch size %d is not positive, using %d", s.BatchSize, def.BatchSize)
		s.BatchSize = def.BatchSize
	}
	if s.TimeSteps <= 0 {
		logger.Warnf("horizon length %d is not positive, using %d", s.TimeSteps, def.TimeSteps)
		s.TimeSteps = def.TimeSteps
	}
	if s.ModelDT <= 0 {
		logger.Warnf("integration step %f is not positive, using %f", s.ModelDT, def.ModelDT)
		s.ModelDT = def.ModelDT
	}
	if s.Iterations < 1 {
		logger.Warnf("iteration count %d is below 1, using 1", s.Iterations)
		s.Iterations = 1
	}
	if s.Temperature <= 0 {
		logger.Warnf("temperature %f is not positive, using %f", s.Temperature, def.Temperature)
		s.Temperature = def.Temperature
	}
	if s.RetryAttemptLimit < 1 {
		s.RetryAttemptLimit = 1
	}
	if s.MotionModel == "" {
		s.MotionModel = def.MotionModel
	}
	if s.MotionModel != DiffDriveModel && s.MotionModel != OmniModel {
		logger.Warnf("unknown motion model %q, using %q", s.MotionModel, def.MotionModel)
		s.MotionModel = def.MotionModel
	}
	s.Constraints.validate(logger, def.Constraints)
	s.SamplingStd.validate(logger, def.SamplingStd)
}

func (c *Constraints) validate(logger golog.Logger, def Constraints) {
	if c.VXMax <= 0 {
		logger.Warnf("max forward speed %f is not positive, using %f", c.VXMax, def.VXMax)
		c.VXMax = def.VXMax
	}
	if c.VXMin > 0 {
		logger.Warnf("min forward speed %f is positive, using %f", c.VXMin, -c.VXMin)
		c.VXMin = -c.VXMin
	}
	if c.VYMax < 0 {
		logger.Warnf("max lateral speed %f is negative, using %f", c.VYMax, -c.VYMax)
		c.VYMax = -c.VYMax
	}
	if c.WZMax <= 0 {
		logger.Warnf("max angular speed %f is not positive, using %f", c.WZMax, def.WZMax)
		c.WZMax = def.WZMax
	}
	if c.AXMax <= 0 {
		fixed := math.Abs(c.AXMax)
		if fixed == 0 {
			fixed = def.AXMax
		}
		logger.Warnf("max forward acceleration %f is not positive, using %f", c.AXMax, fixed)
		c.AXMax = fixed
	}
	if c.AXMin >= 0 {
		fixed := -math.Abs(c.AXMin)
		if fixed == 0 {
			fixed = def.AXMin
		}
		logger.Warnf("deceleration %f is not negative, using %f", c.AXMin, fixed)
		c.AXMin = fixed
	}
	if c.AYMax <= 0 {
		fixed := math.Abs(c.AYMax)
		if fixed == 0 {
			fixed = def.AYMax
		}
		logger.Warnf("max lateral acceleration %f is not positive, using %f", c.AYMax, fixed)
		c.AYMax = fixed
	}
	if c.AZMax <= 0 {
		fixed := math.Abs(c.AZMax)
		if fixed == 0 {
			fixed = def.AZMax
		}
		logger.Warnf("max angular acceleration %f is not positive, using %f", c.AZMax, fixed)
		c.AZMax = fixed
	}
}

func (s *SamplingStd) validate(logger golog.Logger, def SamplingStd) {
	if s.VX <= 0 {
		logger.Warnf("forward sampling std %f is not positive, using %f", s.VX, def.VX)
		s.VX = def.VX
	}
	if s.VY <= 0 {
		logger.Warnf("lateral sampling std %f is not positive, using %f", s.VY, def.VY)
		s.VY = def.VY
	}
	if s.WZ <= 0 {
		logger.Warnf("angular sampling std %f is not positive, using %f", s.WZ, def.WZ)
		s.WZ = def.WZ
	}
}
