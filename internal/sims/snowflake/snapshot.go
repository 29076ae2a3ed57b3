package snowflake

import (
	"gonum.org/v1/gonum/floats"

	"snow-ca/internal/core"
)

// Snapshot is an immutable copy of one published generation. It never shares
// memory with the live lattice.
type Snapshot struct {
	Tick   uint64
	Model  Model
	Status core.Status
	Grid   core.HexGrid
	Seed   core.Coord

	Diffusive []float64
	Boundary  []float64
	Ice       []float64
	States    []CellState

	cells []uint8
}

func newSnapshot(l *Lattice, m Model, status core.Status, tick uint64) *Snapshot {
	b := l.current()
	n := l.Len()
	s := &Snapshot{
		Tick:      tick,
		Model:     m,
		Status:    status,
		Grid:      l.grid,
		Seed:      l.Seed(),
		Diffusive: append([]float64(nil), b.diffusive...),
		Boundary:  append([]float64(nil), b.boundary...),
		Ice:       append([]float64(nil), b.ice...),
		States:    append([]CellState(nil), b.state...),
		cells:     make([]uint8, n),
	}
	for i, st := range s.States {
		s.cells[i] = uint8(st)
	}
	return s
}

// withStatus returns a shallow copy reporting a different lifecycle status.
func (s *Snapshot) withStatus(st core.Status) *Snapshot {
	c := *s
	c.Status = st
	return &c
}

// Size returns the lattice dimensions.
func (s *Snapshot) Size() core.Size { return s.Grid.Size() }

// Len is the number of cells.
func (s *Snapshot) Len() int { return len(s.States) }

// At returns the cell at c. Periodic grids wrap c; open grids report false
// outside the patch.
func (s *Snapshot) At(c core.Coord) (Cell, bool) {
	i, ok := s.Grid.Locate(c)
	if !ok {
		return Cell{Coord: c}, false
	}
	return Cell{
		Coord:     s.Grid.Coord(i),
		Diffusive: s.Diffusive[i],
		Boundary:  s.Boundary[i],
		Ice:       s.Ice[i],
		State:     s.States[i],
	}, true
}

// Cells returns one CellState byte per cell. The slice must not be modified.
func (s *Snapshot) Cells() []uint8 { return s.cells }

// Count returns the number of cells in state st.
func (s *Snapshot) Count(st CellState) int {
	n := 0
	for _, v := range s.States {
		if v == st {
			n++
		}
	}
	return n
}

// IceCount is the number of frozen cells.
func (s *Snapshot) IceCount() int { return s.Count(StateIce) }

// TotalMass sums diffusive, boundary and ice mass over the lattice.
func (s *Snapshot) TotalMass() float64 {
	return floats.Sum(s.Diffusive) + floats.Sum(s.Boundary) + floats.Sum(s.Ice)
}

// CrystalRadius is the largest hexagonal distance from the seed to an ice cell.
func (s *Snapshot) CrystalRadius() int {
	r := 0
	for i, st := range s.States {
		if st != StateIce {
			continue
		}
		if d := s.Grid.Distance(s.Seed, s.Grid.Coord(i)); d > r {
			r = d
		}
	}
	return r
}
