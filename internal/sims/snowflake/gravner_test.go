package snowflake

import (
	"math"
	"testing"

	"snow-ca/internal/core"
)

func TestGravnerConservesTotalMass(t *testing.T) {
	cfg := testConfig(ModelGravner, 3)
	cfg.Width, cfg.Height = 33, 33
	cfg.Params.Gravner.Sigma = 0
	c := newTestController(t, cfg)
	if err := c.Start(); err != nil {
		t.Fatal(err)
	}
	initial := c.Snapshot().TotalMass()
	for tick := 1; tick <= 80; tick++ {
		mustTick(t, c, 1)
		if got := c.Snapshot().TotalMass(); math.Abs(got-initial) > 1e-9*initial {
			t.Fatalf("tick %d: total mass %.12f, want %.12f", tick, got, initial)
		}
	}
}

func TestGrowthKeepsIceTerminal(t *testing.T) {
	for _, m := range Models() {
		t.Run(string(m), func(t *testing.T) {
			cfg := testConfig(m, 4)
			cfg.Width, cfg.Height = 41, 41
			cfg.Params.Gravner.Beta = 1.1
			cfg.Params.Gravner.Mu = 0.02
			c := newTestController(t, cfg)
			if err := c.Start(); err != nil {
				t.Fatal(err)
			}
			prev := c.Snapshot()
			for tick := 1; tick <= 120; tick++ {
				mustTick(t, c, 1)
				cur := c.Snapshot()
				for i, st := range prev.States {
					if st == StateIce && cur.States[i] != StateIce {
						t.Fatalf("tick %d: cell %v left ice for %v", tick, cur.Grid.Coord(i), cur.States[i])
					}
					if st == StateIce && cur.Ice[i] < 0 {
						t.Fatalf("tick %d: negative ice mass at %d", tick, i)
					}
				}
				if cur.IceCount() < prev.IceCount() {
					t.Fatalf("tick %d: ice count fell %d -> %d", tick, prev.IceCount(), cur.IceCount())
				}
				prev = cur
			}
			if prev.IceCount() < 2 {
				t.Fatalf("crystal did not grow in 120 ticks (ice=%d)", prev.IceCount())
			}
		})
	}
}

func TestGravnerAttachmentThresholds(t *testing.T) {
	l := NewLattice(7, 7, core.BoundaryPeriodic)
	l.Reset(core.Coord{Q: 3, R: 3}, 0.5, nil)
	dst := l.next()
	p := DefaultParams().Gravner
	i := l.Grid().Index(core.Coord{Q: 1, R: 1})
	setNeighbourVapour := func(v float64) {
		for _, j := range l.neighbors(i) {
			dst.diffusive[j] = v
		}
	}

	tests := []struct {
		name      string
		b         float64
		frozen    int
		neighbour float64
		want      bool
	}{
		{name: "tip tie attaches", b: p.Beta, frozen: 1, want: true},
		{name: "tip below beta", b: p.Beta - 1e-9, frozen: 2, want: false},
		{name: "concave full", b: 1, frozen: 3, neighbour: 1, want: true},
		{name: "concave starved", b: p.Alpha, frozen: 3, neighbour: 0, want: true},
		{name: "concave vapour rich", b: p.Alpha, frozen: 3, neighbour: p.Theta, want: false},
		{name: "concave low b", b: p.Alpha / 2, frozen: 3, neighbour: 0, want: false},
		{name: "surrounded", b: 0, frozen: 4, want: true},
		{name: "detached", b: 10, frozen: 0, want: false},
	}
	for _, tc := range tests {
		dst.boundary[i] = tc.b
		setNeighbourVapour(tc.neighbour)
		got := Gravner{}.attaches(l, dst, i, tc.frozen, p, l.Ambient())
		if got != tc.want {
			t.Fatalf("%s: attaches = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestGravnerMeltingReturnsMassToVapour(t *testing.T) {
	cfg := testConfig(ModelGravner, 1)
	cfg.Params.Gravner.Kappa = 0
	cfg.Params.Gravner.Beta = 4
	c := newTestController(t, cfg)
	if err := c.Start(); err != nil {
		t.Fatal(err)
	}
	mustTick(t, c, 3)
	p := ring(c.Snapshot(), 1)[0]
	cell := cellAt(t, c.Snapshot(), p)
	if cell.State != StateBoundary {
		t.Fatalf("first ring cell is %v, want boundary", cell.State)
	}
	if cell.Diffusive <= 0 {
		t.Fatalf("boundary cell %+v should regain vapour through melting", cell)
	}
	if cell.Boundary <= 0 {
		t.Fatalf("boundary cell %+v should hold quasi-liquid mass", cell)
	}
}
