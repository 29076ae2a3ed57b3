package core

import "fmt"

// Coord addresses a hexagonal cell in axial coordinates.
type Coord struct {
	Q int
	R int
}

// Boundary selects how the lattice treats neighbours beyond its edges.
type Boundary uint8

const (
	// BoundaryPeriodic wraps the lattice into a torus.
	BoundaryPeriodic Boundary = iota
	// BoundaryOpen drops neighbours outside the lattice; simulations treat
	// them as a reservoir at the ambient value.
	BoundaryOpen
)

func (b Boundary) String() string {
	switch b {
	case BoundaryPeriodic:
		return "periodic"
	case BoundaryOpen:
		return "open"
	default:
		return fmt.Sprintf("boundary(%d)", uint8(b))
	}
}

// ParseBoundary converts a flag value into a Boundary.
func ParseBoundary(s string) (Boundary, error) {
	switch s {
	case "periodic", "torus", "wrap":
		return BoundaryPeriodic, nil
	case "open":
		return BoundaryOpen, nil
	}
	return 0, fmt.Errorf("unknown boundary %q", s)
}

// HexDirections lists the six axial neighbour offsets in the order used by
// every neighbour table.
var HexDirections = [6]Coord{
	{Q: 1, R: 0},
	{Q: -1, R: 0},
	{Q: 0, R: 1},
	{Q: 0, R: -1},
	{Q: -1, R: 1},
	{Q: 1, R: -1},
}

// HexGrid describes a W x H rhombic patch of the hexagonal lattice stored in
// row-major order (index = r*W + q).
type HexGrid struct {
	W, H     int
	Boundary Boundary
}

// NewHexGrid returns a grid with at least one cell in each direction.
func NewHexGrid(w, h int, b Boundary) HexGrid {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return HexGrid{W: w, H: h, Boundary: b}
}

// Len is the number of cells.
func (g HexGrid) Len() int { return g.W * g.H }

// Size returns the grid dimensions.
func (g HexGrid) Size() Size { return Size{W: g.W, H: g.H} }

// Index returns the linear slice index for c. c must be inside the grid.
func (g HexGrid) Index(c Coord) int { return c.R*g.W + c.Q }

// Coord is the inverse of Index.
func (g HexGrid) Coord(i int) Coord { return Coord{Q: i % g.W, R: i / g.W} }

// Contains reports whether c lies inside the patch.
func (g HexGrid) Contains(c Coord) bool {
	return c.Q >= 0 && c.Q < g.W && c.R >= 0 && c.R < g.H
}

// Wrap applies toroidal wrapping to c.
func (g HexGrid) Wrap(c Coord) Coord {
	return Coord{Q: (c.Q%g.W + g.W) % g.W, R: (c.R%g.H + g.H) % g.H}
}

// Locate resolves c to a slice index. A periodic grid wraps any coordinate;
// an open grid reports false for coordinates outside the patch.
func (g HexGrid) Locate(c Coord) (int, bool) {
	if g.Boundary == BoundaryPeriodic {
		return g.Index(g.Wrap(c)), true
	}
	if !g.Contains(c) {
		return -1, false
	}
	return g.Index(c), true
}

// Neighbor returns the neighbour of c in direction dir. Under an open
// boundary the second result is false for positions outside the patch.
func (g HexGrid) Neighbor(c Coord, dir int) (Coord, bool) {
	d := HexDirections[dir]
	n := Coord{Q: c.Q + d.Q, R: c.R + d.R}
	if g.Boundary == BoundaryPeriodic {
		return g.Wrap(n), true
	}
	return n, g.Contains(n)
}

// Neighbors returns the present neighbours of c in direction order.
func (g HexGrid) Neighbors(c Coord) []Coord {
	out := make([]Coord, 0, len(HexDirections))
	for dir := range HexDirections {
		if n, ok := g.Neighbor(c, dir); ok {
			out = append(out, n)
		}
	}
	return out
}

// NeighborTable precomputes six neighbour indices per cell, -1 marking a
// neighbour outside an open boundary.
func (g HexGrid) NeighborTable() []int32 {
	table := make([]int32, 6*g.Len())
	for i := 0; i < g.Len(); i++ {
		c := g.Coord(i)
		for dir := range HexDirections {
			n, ok := g.Neighbor(c, dir)
			if !ok {
				table[6*i+dir] = -1
				continue
			}
			table[6*i+dir] = int32(g.Index(n))
		}
	}
	return table
}

// Distance is the hexagonal step distance between a and b, taking the
// shortest wrap under a periodic boundary.
func (g HexGrid) Distance(a, b Coord) int {
	dq := b.Q - a.Q
	dr := b.R - a.R
	if g.Boundary != BoundaryPeriodic {
		return hexLen(dq, dr)
	}
	best := -1
	for _, wq := range [3]int{0, g.W, -g.W} {
		for _, wr := range [3]int{0, g.H, -g.H} {
			d := hexLen(dq+wq, dr+wr)
			if best < 0 || d < best {
				best = d
			}
		}
	}
	return best
}

func hexLen(dq, dr int) int {
	return (abs(dq) + abs(dr) + abs(dq+dr)) / 2
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
