// Package costmap defines the read-only query surface of the external cost grid
// consumed during trajectory scoring, plus an in-memory grid used by tests and
// simulations.
package costmap

// Named cost values, following the conventional occupancy grid encoding.
const (
	FreeSpace         uint8 = 0
	MaxNonObstacle    uint8 = 252
	InscribedObstacle uint8 = 253
	LethalObstacle    uint8 = 254
	NoInformation     uint8 = 255
)

// Costmap is the query interface the optimizer consumes. Implementations must be
// safe for concurrent reads; the optimizer never writes through it.
type Costmap interface {
	// WorldToMap converts a world coordinate to grid indices, reporting whether
	// the point lies on the grid.
	WorldToMap(wx, wy float64) (int, int, bool)
	// Cost returns the cell cost at the given grid indices.
	Cost(mx, my int) uint8
	// IsTrackingUnknown reports whether unknown cells are traversable.
	IsTrackingUnknown() bool
}

// Grid is a dense in-memory Costmap.
type Grid struct {
	originX      float64
	originY      float64
	resolution   float64
	width        int
	height       int
	cells        []uint8
	trackUnknown bool
}

// NewGrid returns a width by height grid of free cells with the given cell
// resolution in meters and world origin at the grid's lower-left corner.
func NewGrid(width, height int, resolution, originX, originY float64, trackUnknown bool) *Grid {
	return &Grid{
		originX:      originX,
		originY:      originY,
		resolution:   resolution,
		width:        width,
		height:       height,
		cells:        make([]uint8, width*height),
		trackUnknown: trackUnknown,
	}
}

// WorldToMap converts a world coordinate to grid indices.
func (g *Grid) WorldToMap(wx, wy float64) (int, int, bool) {
	if wx < g.originX || wy < g.originY {
		return 0, 0, false
	}
	mx := int((wx - g.originX) / g.resolution)
	my := int((wy - g.originY) / g.resolution)
	if mx >= g.width || my >= g.height {
		return 0, 0, false
	}
	return mx, my, true
}

// Cost returns the cell cost at the given indices; off-grid lookups report
// NoInformation.
func (g *Grid) Cost(mx, my int) uint8 {
	if mx < 0 || my < 0 || mx >= g.width || my >= g.height {
		return NoInformation
	}
	return g.cells[my*g.width+mx]
}

// IsTrackingUnknown reports whether unknown cells are traversable.
func (g *Grid) IsTrackingUnknown() bool {
	return g.trackUnknown
}

// SetCost writes the cell cost at the given indices. Out-of-range writes are
// dropped.
func (g *Grid) SetCost(mx, my int, cost uint8) {
	if mx < 0 || my < 0 || mx >= g.width || my >= g.height {
		return
	}
	g.cells[my*g.width+mx] = cost
}

// SetWorldCost writes the cell cost containing the given world coordinate,
// reporting whether the point was on the grid.
func (g *Grid) SetWorldCost(wx, wy float64, cost uint8) bool {
	mx, my, ok := g.WorldToMap(wx, wy)
	if !ok {
		return false
	}
	g.SetCost(mx, my, cost)
	return true
}

// Resolution returns the cell size in meters.
func (g *Grid) Resolution() float64 {
	return g.resolution
}

// Width returns the grid width in cells.
func (g *Grid) Width() int {
	return g.width
}

// Height returns the grid height in cells.
func (g *Grid) Height() int {
	return g.height
}
