package optimizer

import (
	"github.com/pkg/errors"

	"go.viam.com/mppi/models"
)

// MotionModel describes the kinematics a rollout integrates under.
type MotionModel interface {
	Name() models.MotionModelName
	// IsHolonomic reports whether the lateral axis is actuated. Non-holonomic
	// models have their lateral samples zeroed before integration.
	IsHolonomic() bool
}

type diffDriveModel struct{}

func (diffDriveModel) Name() models.MotionModelName { return models.DiffDriveModel }
func (diffDriveModel) IsHolonomic() bool            { return false }

type omniModel struct{}

func (omniModel) Name() models.MotionModelName { return models.OmniModel }
func (omniModel) IsHolonomic() bool            { return true }

func newMotionModel(name models.MotionModelName) (MotionModel, error) {
	switch name {
	case models.DiffDriveModel:
		return diffDriveModel{}, nil
	case models.OmniModel:
		return omniModel{}, nil
	}
	return nil, errors.Errorf("unsupported motion model %q", name)
}
