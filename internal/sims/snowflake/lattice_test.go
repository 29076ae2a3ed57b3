package snowflake

import (
	"slices"
	"testing"

	"snow-ca/internal/core"
)

func TestResetSeedsSingleCrystal(t *testing.T) {
	l := NewLattice(9, 9, core.BoundaryPeriodic)
	seed := core.Coord{Q: 4, R: 4}
	l.Reset(seed, 0.5, nil)

	c, _ := l.Get(seed)
	if c.State != StateIce || c.Ice != 1 || c.Diffusive != 0 || c.Boundary != 0 {
		t.Fatalf("seed cell = %+v, want ice with unit ice mass", c)
	}

	ring := map[core.Coord]bool{}
	for _, n := range l.Neighbors(seed) {
		ring[n] = true
	}
	if len(ring) != 6 {
		t.Fatalf("seed has %d distinct neighbours, want 6", len(ring))
	}

	counts := map[CellState]int{}
	for i := 0; i < l.Len(); i++ {
		p := l.Grid().Coord(i)
		cell, _ := l.Get(p)
		counts[cell.State]++
		if p == seed {
			continue
		}
		if cell.Diffusive != 0.5 || cell.Boundary != 0 || cell.Ice != 0 {
			t.Fatalf("cell %v = %+v, want ambient vapour only", p, cell)
		}
		want := StateVapor
		if ring[p] {
			want = StateBoundary
		}
		if cell.State != want {
			t.Fatalf("cell %v state %v, want %v", p, cell.State, want)
		}
	}
	if counts[StateIce] != 1 || counts[StateBoundary] != 6 || counts[StateVapor] != 81-7 {
		t.Fatalf("state counts = %v", counts)
	}
}

func TestNeighborsFollowBoundaryPolicy(t *testing.T) {
	periodic := NewLattice(5, 5, core.BoundaryPeriodic)
	got := periodic.Neighbors(core.Coord{Q: 0, R: 0})
	want := []core.Coord{{Q: 1, R: 0}, {Q: 4, R: 0}, {Q: 0, R: 1}, {Q: 0, R: 4}, {Q: 4, R: 1}, {Q: 1, R: 4}}
	if !slices.Equal(got, want) {
		t.Fatalf("periodic neighbours = %v, want %v", got, want)
	}

	open := NewLattice(5, 5, core.BoundaryOpen)
	got = open.Neighbors(core.Coord{Q: 0, R: 0})
	want = []core.Coord{{Q: 1, R: 0}, {Q: 0, R: 1}}
	if !slices.Equal(got, want) {
		t.Fatalf("open neighbours = %v, want %v", got, want)
	}

	i := open.Grid().Index(core.Coord{Q: 0, R: 0})
	absent := 0
	for _, j := range open.neighbors(i) {
		if j < 0 {
			absent++
		}
	}
	if absent != 4 {
		t.Fatalf("corner cell has %d absent neighbours, want 4", absent)
	}
}

func TestSwapExchangesBuffers(t *testing.T) {
	l := NewLattice(4, 4, core.BoundaryPeriodic)
	cur, nxt := l.current(), l.next()
	l.Swap()
	if l.current() != nxt || l.next() != cur {
		t.Fatal("swap must exchange buffer roles")
	}
	l.Swap()
	if l.current() != cur {
		t.Fatal("double swap must restore the original roles")
	}
}

func TestResetPerturbationIsClamped(t *testing.T) {
	l := NewLattice(6, 6, core.BoundaryOpen)
	l.Reset(core.Coord{Q: 3, R: 3}, 0.2, func(i int) float64 {
		if i%2 == 0 {
			return -1
		}
		return 0.1
	})
	for i := 0; i < l.Len(); i++ {
		if d := l.current().diffusive[i]; d < 0 {
			t.Fatalf("cell %d diffusive mass %f below zero", i, d)
		}
	}
}

func TestGetResolvesCoordinatesByBoundary(t *testing.T) {
	seed := core.Coord{Q: 2, R: 2}
	periodic := NewLattice(5, 5, core.BoundaryPeriodic)
	periodic.Reset(seed, 0.5, nil)
	c, ok := periodic.Get(core.Coord{Q: 7, R: -3})
	if !ok || c.Coord != seed || c.State != StateIce {
		t.Fatalf("wrapped lookup = %+v, %v, want the seed cell", c, ok)
	}

	open := NewLattice(5, 5, core.BoundaryOpen)
	open.Reset(seed, 0.5, nil)
	for _, p := range []core.Coord{{Q: 5, R: 0}, {Q: -1, R: 0}, {Q: 0, R: 5}} {
		if _, ok := open.Get(p); ok {
			t.Fatalf("open lattice resolved %v outside the patch", p)
		}
	}
}
