package snowflake

import (
	"math"
	"testing"

	"snow-ca/internal/core"
)

func TestOpenBoundaryGrowthIsDeterministic(t *testing.T) {
	for _, m := range Models() {
		t.Run(string(m), func(t *testing.T) {
			run := func(workers int) *Snapshot {
				cfg := testConfig(m, workers)
				cfg.Width, cfg.Height = 21, 21
				cfg.Boundary = core.BoundaryOpen
				cfg.Params.Gravner.Beta = 1.2
				c := newTestController(t, cfg)
				if err := c.Start(); err != nil {
					t.Fatal(err)
				}
				mustTick(t, c, 200)
				return c.Snapshot()
			}
			serial, parallel := run(1), run(5)
			if !sameFields(serial, parallel) {
				t.Fatal("open lattice diverged between 1 and 5 workers")
			}

			s := serial
			if s.IceCount() < 2 {
				t.Fatalf("crystal did not grow (ice=%d)", s.IceCount())
			}
			for i := 0; i < s.Len(); i++ {
				for _, v := range [3]float64{s.Diffusive[i], s.Boundary[i], s.Ice[i]} {
					if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
						t.Fatalf("cell %v holds invalid mass %v", s.Grid.Coord(i), v)
					}
				}
			}

			rule, err := NewRule(m)
			if err != nil {
				t.Fatal(err)
			}
			ambient := rule.Ambient(DefaultParams())
			corner := cellAt(t, s, core.Coord{Q: 0, R: 0})
			if corner.State != StateVapor {
				t.Fatalf("corner cell is %v, want vapor", corner.State)
			}
			if math.Abs(corner.Diffusive-ambient) > 0.2*ambient {
				t.Fatalf("corner vapour %f drifted away from ambient %f", corner.Diffusive, ambient)
			}
		})
	}
}

func TestGravnerConcaveAttachmentReadsReservoir(t *testing.T) {
	l := NewLattice(7, 7, core.BoundaryOpen)
	l.Reset(core.Coord{Q: 3, R: 3}, 0.5, nil)
	dst := l.next()
	p := DefaultParams().Gravner
	i := l.Grid().Index(core.Coord{Q: 0, R: 0})
	for _, j := range l.neighbors(i) {
		if j >= 0 {
			dst.diffusive[j] = 0
		}
	}
	dst.boundary[i] = p.Alpha

	if Gravner{}.attaches(l, dst, i, 3, p, 0.5) {
		t.Fatal("corner cell attached although the reservoir supplies vapour above theta")
	}
	if !Gravner{}.attaches(l, dst, i, 3, p, 0) {
		t.Fatal("corner cell did not attach next to an empty reservoir")
	}
}
