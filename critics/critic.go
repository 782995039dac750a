// Package critics implements the additive trajectory scoring pipeline: a
// registry of independently selectable scoring functions that share one
// read-only per-pass context and accumulate weighted costs per rollout.
package critics

import (
	"math"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/mppi/models"
)

// Name identifies a built-in critic variant in the registry.
type Name string

// The built-in critics.
const (
	ConstraintCriticName    Name = "ConstraintCritic"
	GoalCriticName          Name = "GoalCritic"
	GoalAngleCriticName     Name = "GoalAngleCritic"
	ObstaclesCriticName     Name = "ObstaclesCritic"
	PathAlignCriticName     Name = "PathAlignCritic"
	PathAngleCriticName     Name = "PathAngleCritic"
	PathFollowCriticName    Name = "PathFollowCritic"
	PreferForwardCriticName Name = "PreferForwardCritic"
	TwirlingCriticName      Name = "TwirlingCritic"
)

// ErrInsufficientPath is returned by critics that need more path context than
// the current pass provides. Optional critics returning it contribute zero.
var ErrInsufficientPath = errors.New("path has too few points to score")

// ErrNoCostmap is returned when scoring needs a cost grid and none was supplied.
var ErrNoCostmap = errors.New("no costmap available")

// Config selects, weights, and tunes one critic.
type Config struct {
	Name    Name
	Enabled bool

	// Required marks a critic whose failure aborts the pass; optional critics
	// that cannot compute contribute zero cost instead.
	Required bool

	Weight float64
	// Power is the exponent applied to a critic's base cost before weighting.
	Power float64

	// Threshold is the activation bound: meters of distance to the effective
	// goal for the goal and path critics, radians of heading error for
	// PathAngleCritic.
	Threshold float64

	// OffsetFromFurthest is how many path points past the batch's furthest
	// reached point the path critics aim for.
	OffsetFromFurthest int

	// TrajectoryStride is the pose sampling stride used by PathAlignCritic.
	TrajectoryStride int
}

// DefaultConfigs returns the built-in critic set with its default weights.
// TwirlingCritic ships disabled; it only helps holonomic bases.
func DefaultConfigs() []Config {
	return []Config{
		{Name: ConstraintCriticName, Enabled: true, Weight: 4, Power: 1},
		{Name: GoalCriticName, Enabled: true, Weight: 5, Power: 1, Threshold: 1.4},
		{Name: GoalAngleCriticName, Enabled: true, Weight: 3, Power: 1, Threshold: 0.5},
		{Name: ObstaclesCriticName, Enabled: true, Required: true, Weight: 1.5, Power: 1},
		{Name: PathAlignCriticName, Enabled: true, Weight: 14, Power: 1, Threshold: 0.5, OffsetFromFurthest: 20, TrajectoryStride: 4},
		{Name: PathAngleCriticName, Enabled: true, Weight: 2, Power: 1, Threshold: 1.2, OffsetFromFurthest: 4},
		{Name: PathFollowCriticName, Enabled: true, Weight: 5, Power: 1, Threshold: 1.4, OffsetFromFurthest: 6},
		{Name: PreferForwardCriticName, Enabled: true, Weight: 5, Power: 1, Threshold: 0.5},
		{Name: TwirlingCriticName, Enabled: false, Weight: 10, Power: 1},
	}
}

// Critic scores every trajectory row of a pass, adding its weighted
// contribution to the shared cost accumulator. Contributions are strictly
// additive, so evaluation order only affects cache population.
type Critic interface {
	Name() Name
	// EnforcesPathInversion reports whether the critic drives toward the
	// truncated path's last pose (the cusp) instead of the literal goal.
	EnforcesPathInversion() bool
	Score(data *Data) error
}

// New builds the critic registered under cfg.Name.
func New(cfg Config, settings models.OptimizerSettings, logger golog.Logger) (Critic, error) {
	base := criticBase{name: cfg.Name, weight: cfg.Weight, power: cfg.Power, logger: logger}
	switch cfg.Name {
	case ConstraintCriticName:
		return &constraintCritic{criticBase: base, constraints: settings.Constraints}, nil
	case GoalCriticName:
		return &goalCritic{criticBase: base, threshold: cfg.Threshold}, nil
	case GoalAngleCriticName:
		return &goalAngleCritic{criticBase: base, threshold: cfg.Threshold}, nil
	case ObstaclesCriticName:
		return &obstaclesCritic{criticBase: base, collisionCost: defaultCollisionCost}, nil
	case PathAlignCriticName:
		return &pathAlignCritic{
			criticBase:         base,
			threshold:          cfg.Threshold,
			offsetFromFurthest: cfg.OffsetFromFurthest,
			stride:             max(cfg.TrajectoryStride, 1),
		}, nil
	case PathAngleCriticName:
		return &pathAngleCritic{criticBase: base, threshold: cfg.Threshold, offsetFromFurthest: cfg.OffsetFromFurthest}, nil
	case PathFollowCriticName:
		return &pathFollowCritic{criticBase: base, threshold: cfg.Threshold, offsetFromFurthest: cfg.OffsetFromFurthest}, nil
	case PreferForwardCriticName:
		return &preferForwardCritic{criticBase: base, threshold: cfg.Threshold}, nil
	case TwirlingCriticName:
		return &twirlingCritic{criticBase: base}, nil
	}
	return nil, errors.Errorf("unknown critic %q", cfg.Name)
}

// Pipeline evaluates the enabled critics over one pass context.
type Pipeline struct {
	critics  []Critic
	required map[Name]bool
	logger   golog.Logger
}

// NewPipeline builds the enabled critics from their configurations.
func NewPipeline(cfgs []Config, settings models.OptimizerSettings, logger golog.Logger) (*Pipeline, error) {
	p := &Pipeline{required: map[Name]bool{}, logger: logger}
	for _, cfg := range cfgs {
		if !cfg.Enabled {
			continue
		}
		c, err := New(cfg, settings, logger)
		if err != nil {
			return nil, err
		}
		p.critics = append(p.critics, c)
		p.required[cfg.Name] = cfg.Required
	}
	return p, nil
}

// Names returns the enabled critic names in evaluation order.
func (p *Pipeline) Names() []Name {
	names := make([]Name, 0, len(p.critics))
	for _, c := range p.critics {
		names = append(names, c.Name())
	}
	return names
}

// Score runs every enabled critic over the pass context. A required critic's
// failure aborts the pass; optional failures contribute zero cost.
func (p *Pipeline) Score(data *Data) error {
	var skipped error
	for _, c := range p.critics {
		err := c.Score(data)
		if err == nil {
			continue
		}
		if p.required[c.Name()] {
			return errors.Wrapf(err, "required critic %s failed", c.Name())
		}
		skipped = multierr.Append(skipped, errors.Wrapf(err, "%s", c.Name()))
	}
	if skipped != nil {
		p.logger.Debugw("optional critics contributed no cost", "reason", skipped)
	}
	return nil
}

type criticBase struct {
	name   Name
	weight float64
	power  float64
	logger golog.Logger
}

func (b *criticBase) Name() Name {
	return b.name
}

// scaled applies the configured power and weight to a base cost.
func (b *criticBase) scaled(base float64) float64 {
	if b.power != 1 {
		base = math.Pow(base, b.power)
	}
	return b.weight * base
}
