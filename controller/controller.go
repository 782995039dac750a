// Package controller wires per-tick inputs into the optimizer and applies the
// degradation policy: malformed inputs and failed passes reuse the previous
// command, a fully blocked batch stops the robot, and no within-tick failure
// ever escapes the tick boundary.
package controller

import (
	"math"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"
	"github.com/pkg/errors"

	"go.viam.com/mppi/models"
	"go.viam.com/mppi/optimizer"
	"go.viam.com/mppi/pathutil"
)

// GoalChecker supplies the goal tolerances owned by an external collaborator.
type GoalChecker interface {
	// Tolerances returns the position tolerance in meters and the velocity
	// tolerance in meters per second.
	Tolerances() (position, velocity float64)
}

// SimpleGoalChecker is a fixed-tolerance GoalChecker.
type SimpleGoalChecker struct {
	Position float64
	Velocity float64
}

// Tolerances implements GoalChecker.
func (c SimpleGoalChecker) Tolerances() (float64, float64) {
	return c.Position, c.Velocity
}

// Config tunes the tick-level behavior.
type Config struct {
	// ControlPeriod is the tick budget. Passes that overrun it are logged so
	// deployments can shrink the batch or iteration count.
	ControlPeriod time.Duration
}

// Controller produces one velocity command per tick from the robot state, the
// global path, and the goal.
type Controller struct {
	logger      golog.Logger
	clock       clock.Clock
	cfg         Config
	opt         *optimizer.Optimizer
	goalChecker GoalChecker

	lastCommand   models.Control
	lastPathLen   int
	lastPathStart models.Pose2D
	lastPathEnd   models.Pose2D
	pruneCursor   int
	failures      int
}

// New returns a controller ticking against the wall clock.
func New(opt *optimizer.Optimizer, goalChecker GoalChecker, cfg Config, logger golog.Logger) *Controller {
	return NewWithClock(opt, goalChecker, cfg, logger, clock.New())
}

// NewWithClock is New with an injectable clock for tests.
func NewWithClock(
	opt *optimizer.Optimizer,
	goalChecker GoalChecker,
	cfg Config,
	logger golog.Logger,
	clk clock.Clock,
) *Controller {
	if cfg.ControlPeriod <= 0 {
		cfg.ControlPeriod = 50 * time.Millisecond
	}
	return &Controller{
		logger:      logger,
		clock:       clk,
		cfg:         cfg,
		opt:         opt,
		goalChecker: goalChecker,
	}
}

// ComputeVelocityCommand runs one control tick. Within-tick failures degrade to
// reusing the previous command or stopping; they are logged, never returned.
func (c *Controller) ComputeVelocityCommand(
	state models.State,
	path models.Path,
	goal models.Pose2D,
) models.Control {
	if err := validateInputs(state, path, goal); err != nil {
		c.logger.Warnw("invalid tick input; reusing previous command", "error", err)
		return c.lastCommand
	}
	working := c.preparePath(state, path)
	positionTol, _ := c.goalChecker.Tolerances()
	if pathutil.WithinPositionGoalTolerance(positionTol, state.Pose, goal) {
		c.lastCommand = models.Control{}
		return c.lastCommand
	}

	start := c.clock.Now()
	cmd, err := c.opt.EvalControl(state, working, goal, positionTol)
	if elapsed := c.clock.Now().Sub(start); elapsed > c.cfg.ControlPeriod {
		c.logger.Warnf(
			"optimization took %v against a %v control period; reduce the batch size or iteration count",
			elapsed, c.cfg.ControlPeriod,
		)
	}

	switch {
	case errors.Is(err, optimizer.ErrNoValidTrajectory):
		c.logger.Warn("every sampled trajectory collides; stopping")
		c.failures = 0
		c.lastCommand = models.Control{}
	case err != nil:
		c.failures++
		c.logger.Warnw("optimization failed; reusing previous command", "error", err, "attempt", c.failures)
		if c.failures > c.opt.Settings().RetryAttemptLimit {
			c.logger.Warn("persistent tracking failure; discarding warm start")
			c.opt.Reset()
			c.failures = 0
		}
	default:
		c.failures = 0
		c.lastCommand = cmd
	}
	return c.lastCommand
}

// GoalReached reports whether the robot satisfies the goal checker's position
// tolerance, and its velocity tolerance when one is configured.
func (c *Controller) GoalReached(state models.State, goal models.Pose2D) bool {
	positionTol, velocityTol := c.goalChecker.Tolerances()
	if !pathutil.WithinPositionGoalTolerance(positionTol, state.Pose, goal) {
		return false
	}
	if velocityTol <= 0 {
		return true
	}
	speed := math.Hypot(state.Speed.VX, state.Speed.VY)
	return speed < velocityTol
}

// PredictedTrajectory returns the latest optimized plan, pose and velocity per
// horizon step, for an external publisher. Nil until a pass succeeds.
func (c *Controller) PredictedTrajectory() []models.TrajectoryPoint {
	return c.opt.LastTrajectory()
}

// preparePath prunes points behind the robot with a cursor that only moves
// forward while the plan is unchanged, then truncates at the first direction
// reversal so a single pass never plans across a cusp.
func (c *Controller) preparePath(state models.State, path models.Path) models.Path {
	if c.isNewPlan(path) {
		c.pruneCursor = 0
		c.lastPathLen = path.Len()
		c.lastPathStart = path.PoseAt(0)
		c.lastPathEnd = path.LastPose()
	}
	c.pruneCursor = pathutil.NearestPointIndex(path, state.Pose, c.pruneCursor)
	working := path.From(c.pruneCursor)
	working, _ = pathutil.TruncateAtFirstInversion(working)
	return working
}

// isNewPlan detects a replanned path. Length alone is not enough: a replacement
// plan of identical length must still reset the prune cursor, so the endpoints
// are compared as well.
func (c *Controller) isNewPlan(path models.Path) bool {
	return path.Len() != c.lastPathLen ||
		path.PoseAt(0) != c.lastPathStart ||
		path.LastPose() != c.lastPathEnd
}

func validateInputs(state models.State, path models.Path, goal models.Pose2D) error {
	if !finitePose(state.Pose) {
		return errors.Errorf("robot pose is not finite: %+v", state.Pose)
	}
	if !finite(state.Speed.VX) || !finite(state.Speed.VY) || !finite(state.Speed.WZ) {
		return errors.Errorf("robot twist is not finite: %+v", state.Speed)
	}
	if !finitePose(goal) {
		return errors.Errorf("goal pose is not finite: %+v", goal)
	}
	if path.Len() == 0 {
		return errors.New("path is empty")
	}
	for i := 0; i < path.Len(); i++ {
		if !finite(path.X[i]) || !finite(path.Y[i]) || !finite(path.Yaws[i]) {
			return errors.Errorf("path point %d is not finite", i)
		}
	}
	return nil
}

func finitePose(p models.Pose2D) bool {
	return finite(p.X) && finite(p.Y) && finite(p.Theta)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
