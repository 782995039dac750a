package models

// Pose2D is a planar pose.
type Pose2D struct {
	X     float64
	Y     float64
	Theta float64
}

// State is the robot pose and measured twist at the start of a tick.
type State struct {
	Pose  Pose2D
	Speed Control
}

// TrajectoryPoint is one step of the predicted-trajectory diagnostic record
// exposed for external publishers.
type TrajectoryPoint struct {
	Pose          Pose2D
	Velocity      Control
	TimeFromStart float64
}

// Trajectories is the batch of simulated rollouts produced during one
// optimization iteration: one row of poses and velocities per sampled control
// sequence. It is rebuilt every iteration and discarded after scoring.
type Trajectories struct {
	X    [][]float64
	Y    [][]float64
	Yaws [][]float64
	VX   [][]float64
	VY   [][]float64
	WZ   [][]float64
}

// NewTrajectories allocates a zeroed batch of the given shape.
func NewTrajectories(batch, timeSteps int) Trajectories {
	return Trajectories{
		X:    makeGrid(batch, timeSteps),
		Y:    makeGrid(batch, timeSteps),
		Yaws: makeGrid(batch, timeSteps),
		VX:   makeGrid(batch, timeSteps),
		VY:   makeGrid(batch, timeSteps),
		WZ:   makeGrid(batch, timeSteps),
	}
}

// BatchSize returns the number of rollout rows.
func (tr Trajectories) BatchSize() int {
	return len(tr.X)
}

// TimeSteps returns the horizon length of each rollout.
func (tr Trajectories) TimeSteps() int {
	if len(tr.X) == 0 {
		return 0
	}
	return len(tr.X[0])
}

func makeGrid(rows, cols int) [][]float64 {
	backing := make([]float64, rows*cols)
	grid := make([][]float64, rows)
	for i := range grid {
		grid[i] = backing[i*cols : (i+1)*cols : (i+1)*cols]
	}
	return grid
}
