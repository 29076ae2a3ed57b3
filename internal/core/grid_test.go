package core

import (
	"slices"
	"testing"
)

func TestDistance(t *testing.T) {
	open := NewHexGrid(20, 20, BoundaryOpen)
	torus := NewHexGrid(20, 20, BoundaryPeriodic)
	cases := []struct {
		name string
		g    HexGrid
		a, b Coord
		want int
	}{
		{"same cell", open, Coord{5, 5}, Coord{5, 5}, 0},
		{"east", open, Coord{5, 5}, Coord{6, 5}, 1},
		{"diagonal neighbour", open, Coord{5, 5}, Coord{4, 6}, 1},
		{"non-neighbour diagonal", open, Coord{5, 5}, Coord{6, 6}, 2},
		{"straight line", open, Coord{0, 0}, Coord{0, 7}, 7},
		{"open edges", open, Coord{0, 0}, Coord{19, 0}, 19},
		{"wrapped edges", torus, Coord{0, 0}, Coord{19, 0}, 1},
		{"wrapped anti-diagonal", torus, Coord{0, 19}, Coord{19, 0}, 1},
	}
	for _, tc := range cases {
		if got := tc.g.Distance(tc.a, tc.b); got != tc.want {
			t.Fatalf("%s: Distance(%v, %v) = %d, want %d", tc.name, tc.a, tc.b, got, tc.want)
		}
	}
}

func TestNeighborTable(t *testing.T) {
	g := NewHexGrid(4, 3, BoundaryOpen)
	table := g.NeighborTable()
	if len(table) != 6*g.Len() {
		t.Fatalf("table length %d, want %d", len(table), 6*g.Len())
	}
	corner := table[0:6]
	want := []int32{1, -1, int32(g.Index(Coord{0, 1})), -1, -1, -1}
	if !slices.Equal(corner, want) {
		t.Fatalf("corner neighbours = %v, want %v", corner, want)
	}
	if got := len(g.Neighbors(Coord{0, 0})); got != 2 {
		t.Fatalf("open corner has %d neighbours, want 2", got)
	}

	torus := NewHexGrid(4, 3, BoundaryPeriodic)
	for i, n := range torus.NeighborTable() {
		if n < 0 || int(n) >= torus.Len() {
			t.Fatalf("entry %d = %d out of range", i, n)
		}
	}
	for i := 0; i < torus.Len(); i++ {
		c := torus.Coord(i)
		for _, n := range torus.Neighbors(c) {
			if torus.Distance(c, n) != 1 {
				t.Fatalf("%v -> %v not adjacent", c, n)
			}
		}
	}
}

func TestParseBoundary(t *testing.T) {
	for in, want := range map[string]Boundary{
		"periodic": BoundaryPeriodic,
		"torus":    BoundaryPeriodic,
		"wrap":     BoundaryPeriodic,
		"open":     BoundaryOpen,
	} {
		got, err := ParseBoundary(in)
		if err != nil || got != want {
			t.Fatalf("ParseBoundary(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseBoundary("mirror"); err == nil {
		t.Fatal("expected error for unknown boundary")
	}
}

func TestLocate(t *testing.T) {
	torus := NewHexGrid(24, 10, BoundaryPeriodic)
	open := NewHexGrid(24, 10, BoundaryOpen)
	cases := []struct {
		name string
		g    HexGrid
		c    Coord
		want int
		ok   bool
	}{
		{"inside", torus, Coord{3, 2}, 2*24 + 3, true},
		{"wrapped east", torus, Coord{24, 0}, 0, true},
		{"wrapped west", torus, Coord{-1, 0}, 23, true},
		{"wrapped north", torus, Coord{0, -1}, 9 * 24, true},
		{"open inside", open, Coord{23, 9}, 9*24 + 23, true},
		{"open east", open, Coord{24, 0}, -1, false},
		{"open west", open, Coord{-1, 0}, -1, false},
	}
	for _, tc := range cases {
		got, ok := tc.g.Locate(tc.c)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("%s: Locate(%v) = %d, %v, want %d, %v", tc.name, tc.c, got, ok, tc.want, tc.ok)
		}
	}
}
