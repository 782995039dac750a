// Package optimizer implements a sampling-based receding-horizon velocity
// optimizer: Gaussian perturbation of a mean control sequence, batch-parallel
// rollout through a kinematic model, additive critic scoring, and an
// exponentially weighted update of the mean. Each tick re-plans the full
// horizon but only the first command is emitted.
package optimizer

import (
	"math"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"go.viam.com/mppi/costmap"
	"go.viam.com/mppi/critics"
	"go.viam.com/mppi/models"
	"go.viam.com/mppi/pathutil"
	"go.viam.com/mppi/utils"
)

// ErrNoValidTrajectory reports that every sampled rollout collides; the caller
// should emit a stop command rather than treat the pass as failed.
var ErrNoValidTrajectory = errors.New("all sampled trajectories are infeasible")

// idleVXFraction biases the cold-start mean forward so the first batch
// explores motion along the path instead of hovering in place.
const idleVXFraction = 0.25

type optimizerState int

const (
	stateIdle optimizerState = iota
	stateWarm
)

// Optimizer owns the mean control sequence and refines it every tick. It is
// not safe for concurrent use; one instance serves one control loop.
type Optimizer struct {
	logger   golog.Logger
	settings models.OptimizerSettings
	pipeline *critics.Pipeline
	cm       costmap.Costmap
	model    MotionModel
	noise    *noiseGenerator

	controlSeq models.ControlSequence
	history    models.ControlHistory
	cand       *candidates
	traj       models.Trajectories
	weights    []float64
	state      optimizerState
	lastPlan   []models.TrajectoryPoint
}

// New validates the settings (correcting invalid values with a warning) and
// builds an optimizer with the given critic set.
func New(
	settings models.OptimizerSettings,
	criticCfgs []critics.Config,
	cm costmap.Costmap,
	logger golog.Logger,
) (*Optimizer, error) {
	settings.Validate(logger)
	model, err := newMotionModel(settings.MotionModel)
	if err != nil {
		return nil, err
	}
	pipeline, err := critics.NewPipeline(criticCfgs, settings, logger)
	if err != nil {
		return nil, err
	}
	o := &Optimizer{
		logger:   logger,
		settings: settings,
		pipeline: pipeline,
		cm:       cm,
		model:    model,
	}
	o.reset()
	return o, nil
}

// Reconfigure replaces the settings, discarding all warm-start state.
func (o *Optimizer) Reconfigure(settings models.OptimizerSettings) error {
	settings.Validate(o.logger)
	model, err := newMotionModel(settings.MotionModel)
	if err != nil {
		return err
	}
	o.settings = settings
	o.model = model
	o.reset()
	return nil
}

// Reset discards the warm start, returning the optimizer to its cold-start
// state. Used after persistent tracking failures.
func (o *Optimizer) Reset() {
	o.reset()
}

func (o *Optimizer) reset() {
	s := o.settings
	o.controlSeq = models.NewControlSequence(s.TimeSteps)
	o.controlSeq.Fill(models.Control{VX: idleVXFraction * s.Constraints.VXMax})
	o.cand = newCandidates(s.BatchSize, s.TimeSteps)
	o.traj = models.NewTrajectories(s.BatchSize, s.TimeSteps)
	o.weights = make([]float64, s.BatchSize)
	o.noise = newNoiseGenerator(s.SamplingStd, o.model.IsHolonomic(), s.Seed)
	o.history.Reset()
	o.lastPlan = nil
	o.state = stateIdle
}

// Settings returns the active configuration.
func (o *Optimizer) Settings() models.OptimizerSettings {
	return o.settings
}

// IsWarm reports whether a previous successful pass seeds the sampling mean.
func (o *Optimizer) IsWarm() bool {
	return o.state == stateWarm
}

// ControlSequence returns a copy of the current mean control sequence.
func (o *Optimizer) ControlSequence() models.ControlSequence {
	return o.controlSeq.Copy()
}

// LastTrajectory returns the predicted trajectory of the most recent emitted
// command, for diagnostic publication. Nil until a pass succeeds.
func (o *Optimizer) LastTrajectory() []models.TrajectoryPoint {
	return o.lastPlan
}

// EvalControl runs the configured number of sample-rollout-score-aggregate
// iterations around the warm-started mean and returns the first command of the
// post-processed sequence. On error the mean is left untouched so the previous
// plan survives for the next attempt.
func (o *Optimizer) EvalControl(
	state models.State,
	path models.Path,
	goal models.Pose2D,
	positionTolerance float64,
) (models.Control, error) {
	if path.Len() == 0 {
		return models.Control{}, errors.New("cannot optimize over an empty path")
	}
	var data *critics.Data
	for it := 0; it < o.settings.Iterations; it++ {
		o.noise.sample(o.controlSeq, o.cand)
		if err := o.rollout(state); err != nil {
			return models.Control{}, err
		}
		data = critics.NewData(o.traj, path, goal, state, o.cm, positionTolerance, o.settings.ModelDT)
		if err := o.pipeline.Score(data); err != nil {
			return models.Control{}, err
		}
		o.updateControlSequence(data.Costs)
	}
	if data != nil && data.AllInfeasible() {
		return models.Control{}, ErrNoValidTrajectory
	}
	cmd := o.emitCommand(state)
	o.state = stateWarm
	return cmd, nil
}

// rollout forward-integrates every candidate row from the current state,
// bounding each applied velocity by the configured limits and the configured
// accelerations. Candidates themselves stay unclamped: aggregation over the raw
// samples lets the mean settle on a velocity bound instead of being dragged off
// it by one-sided truncation of the noise. Rows are independent, so the batch
// is mapped across workers.
func (o *Optimizer) rollout(state models.State) error {
	s := o.settings
	if o.cand.batch != s.BatchSize || o.cand.timeSteps != s.TimeSteps {
		return errors.Errorf(
			"candidate batch is %dx%d, configured %dx%d",
			o.cand.batch, o.cand.timeSteps, s.BatchSize, s.TimeSteps,
		)
	}
	if o.traj.BatchSize() != s.BatchSize || o.traj.TimeSteps() != s.TimeSteps {
		return errors.Errorf(
			"trajectory batch is %dx%d, configured %dx%d",
			o.traj.BatchSize(), o.traj.TimeSteps(), s.BatchSize, s.TimeSteps,
		)
	}
	dt := s.ModelDT
	cons := s.Constraints
	holonomic := o.model.IsHolonomic()
	utils.ForEachRowParallel(s.BatchSize, func(i int) {
		x, y, yaw := state.Pose.X, state.Pose.Y, state.Pose.Theta
		vx, vy, wz := state.Speed.VX, state.Speed.VY, state.Speed.WZ
		for t := 0; t < s.TimeSteps; t++ {
			targetVX := utils.Clamp(cons.VXMin, cons.VXMax, o.cand.vx[i][t])
			targetWZ := utils.Clamp(-cons.WZMax, cons.WZMax, o.cand.wz[i][t])
			vx = utils.Clamp(vx+cons.AXMin*dt, vx+cons.AXMax*dt, targetVX)
			wz = utils.Clamp(wz-cons.AZMax*dt, wz+cons.AZMax*dt, targetWZ)
			if holonomic {
				targetVY := utils.Clamp(-cons.VYMax, cons.VYMax, o.cand.vy[i][t])
				vy = utils.Clamp(vy-cons.AYMax*dt, vy+cons.AYMax*dt, targetVY)
			} else {
				vy = 0
			}
			o.traj.X[i][t] = x
			o.traj.Y[i][t] = y
			o.traj.Yaws[i][t] = yaw
			o.traj.VX[i][t] = vx
			o.traj.VY[i][t] = vy
			o.traj.WZ[i][t] = wz
			x += (vx*math.Cos(yaw) - vy*math.Sin(yaw)) * dt
			y += (vx*math.Sin(yaw) + vy*math.Cos(yaw)) * dt
			yaw = pathutil.NormalizeAngle(yaw + wz*dt)
		}
	})
	return nil
}

// updateControlSequence folds the per-trajectory costs into normalized softmax
// weights and replaces the mean with the weighted average of the raw
// candidates. The result is a convex combination of the batch, every element
// inside the sampled min/max, and is only then clamped to the velocity bounds.
func (o *Optimizer) updateControlSequence(costs []float64) {
	minCost := floats.Min(costs)
	var total float64
	for i, c := range costs {
		w := math.Exp(-(c - minCost) / o.settings.Temperature)
		o.weights[i] = w
		total += w
	}
	inv := 1.0 / total
	for i := range o.weights {
		o.weights[i] *= inv
	}
	for t := 0; t < o.settings.TimeSteps; t++ {
		var vx, vy, wz float64
		for i := 0; i < o.settings.BatchSize; i++ {
			w := o.weights[i]
			vx += w * o.cand.vx[i][t]
			vy += w * o.cand.vy[i][t]
			wz += w * o.cand.wz[i][t]
		}
		o.controlSeq.VX[t] = vx
		o.controlSeq.VY[t] = vy
		o.controlSeq.WZ[t] = wz
	}
	o.clampControlSequence()
}

func (o *Optimizer) clampControlSequence() {
	cons := o.settings.Constraints
	for t := 0; t < o.controlSeq.Horizon(); t++ {
		o.controlSeq.VX[t] = utils.Clamp(cons.VXMin, cons.VXMax, o.controlSeq.VX[t])
		o.controlSeq.VY[t] = utils.Clamp(-cons.VYMax, cons.VYMax, o.controlSeq.VY[t])
		o.controlSeq.WZ[t] = utils.Clamp(-cons.WZMax, cons.WZMax, o.controlSeq.WZ[t])
	}
}

// emitCommand post-processes the converged mean: smooth, re-clamp, record the
// plan, take the first command, and shift the horizon for the next warm start.
func (o *Optimizer) emitCommand(state models.State) models.Control {
	if o.settings.EnableSmoothing {
		savitskyGolayFilter(o.controlSeq, &o.history)
	}
	o.clampControlSequence()
	o.lastPlan = o.planRecord(state)
	cmd := o.controlSeq.At(0)
	if !o.model.IsHolonomic() {
		cmd.VY = 0
	}
	o.history.Push(cmd)
	if o.settings.ShiftControlSequence {
		shiftControlSequence(o.controlSeq)
	}
	return cmd
}

// planRecord integrates the mean sequence once for the diagnostic record.
func (o *Optimizer) planRecord(state models.State) []models.TrajectoryPoint {
	s := o.settings
	record := make([]models.TrajectoryPoint, s.TimeSteps)
	x, y, yaw := state.Pose.X, state.Pose.Y, state.Pose.Theta
	for t := 0; t < s.TimeSteps; t++ {
		c := o.controlSeq.At(t)
		record[t] = models.TrajectoryPoint{
			Pose:          models.Pose2D{X: x, Y: y, Theta: yaw},
			Velocity:      c,
			TimeFromStart: float64(t) * s.ModelDT,
		}
		x += (c.VX*math.Cos(yaw) - c.VY*math.Sin(yaw)) * s.ModelDT
		y += (c.VX*math.Sin(yaw) + c.VY*math.Cos(yaw)) * s.ModelDT
		yaw = pathutil.NormalizeAngle(yaw + c.WZ*s.ModelDT)
	}
	return record
}
