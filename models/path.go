package models

// Path is an ordered sequence of planar points with heading, supplied fresh each
// tick by an external planner. Views returned by Truncate and From share backing
// slices with the original; consumers treat a Path as read-only.
type Path struct {
	X    []float64
	Y    []float64
	Yaws []float64
}

// PathFromPoses builds a Path from a pose slice.
func PathFromPoses(poses []Pose2D) Path {
	p := Path{
		X:    make([]float64, len(poses)),
		Y:    make([]float64, len(poses)),
		Yaws: make([]float64, len(poses)),
	}
	for i, pose := range poses {
		p.X[i] = pose.X
		p.Y[i] = pose.Y
		p.Yaws[i] = pose.Theta
	}
	return p
}

// Len returns the number of points.
func (p Path) Len() int {
	return len(p.X)
}

// PoseAt returns the point at index i as a pose.
func (p Path) PoseAt(i int) Pose2D {
	return Pose2D{X: p.X[i], Y: p.Y[i], Theta: p.Yaws[i]}
}

// LastPose returns the final point as a pose.
func (p Path) LastPose() Pose2D {
	return p.PoseAt(p.Len() - 1)
}

// Truncate returns a view of the first n points.
func (p Path) Truncate(n int) Path {
	return Path{X: p.X[:n], Y: p.Y[:n], Yaws: p.Yaws[:n]}
}

// From returns a view starting at index i.
func (p Path) From(i int) Path {
	return Path{X: p.X[i:], Y: p.Y[i:], Yaws: p.Yaws[i:]}
}
