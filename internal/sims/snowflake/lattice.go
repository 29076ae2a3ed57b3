package snowflake

import "snow-ca/internal/core"

// buffer holds one generation of per-cell fields.
type buffer struct {
	diffusive []float64
	boundary  []float64
	ice       []float64
	frozen    []bool
	state     []CellState
}

func newBuffer(n int) *buffer {
	return &buffer{
		diffusive: make([]float64, n),
		boundary:  make([]float64, n),
		ice:       make([]float64, n),
		frozen:    make([]bool, n),
		state:     make([]CellState, n),
	}
}

// Lattice owns the hexagonal geometry and the two generation buffers. During
// a tick the current buffer is read-only and the next buffer is written one
// cell per kernel invocation.
type Lattice struct {
	grid core.HexGrid
	nbr  []int32

	bufs [2]*buffer
	cur  int

	// scratch is a per-tick intermediate field written and read by
	// successive passes of a single tick.
	scratch []float64

	seed    core.Coord
	ambient float64
}

// NewLattice allocates a w x h lattice with the given boundary policy.
func NewLattice(w, h int, b core.Boundary) *Lattice {
	grid := core.NewHexGrid(w, h, b)
	n := grid.Len()
	return &Lattice{
		grid:    grid,
		nbr:     grid.NeighborTable(),
		bufs:    [2]*buffer{newBuffer(n), newBuffer(n)},
		scratch: make([]float64, n),
		seed:    Center(grid),
	}
}

// Center returns the middle cell of grid, the default nucleation site.
func Center(grid core.HexGrid) core.Coord {
	return core.Coord{Q: grid.W / 2, R: grid.H / 2}
}

// Grid returns the lattice geometry.
func (l *Lattice) Grid() core.HexGrid { return l.grid }

// Size returns the lattice dimensions.
func (l *Lattice) Size() core.Size { return l.grid.Size() }

// Len is the number of cells.
func (l *Lattice) Len() int { return l.grid.Len() }

// Seed returns the nucleation site used by the last reset.
func (l *Lattice) Seed() core.Coord { return l.seed }

// Ambient returns the vapour density used by the last reset. Open boundaries
// read it for neighbours outside the lattice.
func (l *Lattice) Ambient() float64 { return l.ambient }

// Neighbors returns the present neighbours of c in direction order.
func (l *Lattice) Neighbors(c core.Coord) []core.Coord { return l.grid.Neighbors(c) }

// Get returns the cell at c from the current generation. Periodic lattices
// wrap c; open lattices report false outside the patch.
func (l *Lattice) Get(c core.Coord) (Cell, bool) {
	i, ok := l.grid.Locate(c)
	if !ok {
		return Cell{Coord: c}, false
	}
	return l.cell(l.current(), i), true
}

func (l *Lattice) cell(b *buffer, i int) Cell {
	return Cell{
		Coord:     l.grid.Coord(i),
		Diffusive: b.diffusive[i],
		Boundary:  b.boundary[i],
		Ice:       b.ice[i],
		State:     b.state[i],
	}
}

func (l *Lattice) current() *buffer { return l.bufs[l.cur] }
func (l *Lattice) next() *buffer    { return l.bufs[1-l.cur] }

// Swap exchanges the current and next roles without copying.
func (l *Lattice) Swap() { l.cur = 1 - l.cur }

// neighbors returns the six neighbour indices of cell i (-1 when absent).
func (l *Lattice) neighbors(i int) []int32 { return l.nbr[6*i : 6*i+6] }

// frozenNeighbors counts frozen neighbours of i in b.
func (l *Lattice) frozenNeighbors(b *buffer, i int) int {
	n := 0
	for _, j := range l.neighbors(i) {
		if j >= 0 && b.frozen[j] {
			n++
		}
	}
	return n
}

// Reset fills every cell with vapour at ambient density (plus perturb(i)
// when perturb is non-nil), clears boundary and ice mass and freezes seed
// with unit ice mass. Both buffers are reinitialised.
func (l *Lattice) Reset(seed core.Coord, ambient float64, perturb func(i int) float64) {
	if !l.grid.Contains(seed) {
		seed = Center(l.grid)
	}
	l.seed = seed
	l.ambient = ambient
	l.cur = 0
	b := l.current()
	for i := 0; i < l.Len(); i++ {
		d := ambient
		if perturb != nil {
			d = clamp0(d + perturb(i))
		}
		b.diffusive[i] = d
		b.boundary[i] = 0
		b.ice[i] = 0
		b.frozen[i] = false
		l.scratch[i] = 0
	}
	s := l.grid.Index(seed)
	b.diffusive[s] = 0
	b.ice[s] = 1
	b.frozen[s] = true
	for i := 0; i < l.Len(); i++ {
		b.state[i] = classify(b.frozen[i], l.frozenNeighbors(b, i))
	}

	nb := l.next()
	copy(nb.diffusive, b.diffusive)
	copy(nb.boundary, b.boundary)
	copy(nb.ice, b.ice)
	copy(nb.frozen, b.frozen)
	copy(nb.state, b.state)
}
