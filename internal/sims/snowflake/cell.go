package snowflake

import (
	"fmt"

	"snow-ca/internal/core"
)

// CellState classifies a cell for the growth rules. Ice is terminal.
type CellState uint8

const (
	StateVapor CellState = iota
	StateBoundary
	StateIce
)

func (s CellState) String() string {
	switch s {
	case StateVapor:
		return "vapor"
	case StateBoundary:
		return "boundary"
	case StateIce:
		return "ice"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// Cell is a read-only view of one lattice site.
type Cell struct {
	Coord core.Coord

	Diffusive float64
	Boundary  float64
	Ice       float64

	State CellState
}

// Mass is the total mass held by the cell.
func (c Cell) Mass() float64 { return c.Diffusive + c.Boundary + c.Ice }

// classify is the adjacency rule shared by both models: a frozen cell is
// Ice, a non-frozen cell touching the crystal is Boundary.
func classify(frozen bool, frozenNeighbors int) CellState {
	switch {
	case frozen:
		return StateIce
	case frozenNeighbors > 0:
		return StateBoundary
	default:
		return StateVapor
	}
}

func clamp0(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
