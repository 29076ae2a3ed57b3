package snowflake

import (
	"testing"
)

func TestReiterFirstRingFreezesBeforeSecondRing(t *testing.T) {
	cfg := testConfig(ModelReiter, 4)
	cfg.Width, cfg.Height = 31, 31
	cfg.Params.Reiter.Beta = 0.5
	c := newTestController(t, cfg)
	if err := c.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}

	first := ring(c.Snapshot(), 1)
	second := ring(c.Snapshot(), 2)
	if len(first) != 6 || len(second) != 12 {
		t.Fatalf("ring sizes %d/%d, want 6/12", len(first), len(second))
	}

	mustTick(t, c, 1)
	s := c.Snapshot()
	for _, p := range first {
		if st := cellAt(t, s, p).State; st != StateBoundary {
			t.Fatalf("first ring cell %v is %v after one tick, want boundary", p, st)
		}
	}
	for _, p := range second {
		if st := cellAt(t, s, p).State; st != StateVapor {
			t.Fatalf("second ring cell %v is %v after one tick, want vapor", p, st)
		}
	}

	reached := false
	for tick := 2; tick <= 200 && !reached; tick++ {
		mustTick(t, c, 1)
		s = c.Snapshot()
		for _, p := range second {
			if cellAt(t, s, p).State != StateVapor {
				reached = true
			}
		}
		if !reached {
			continue
		}
		frozen := 0
		for _, p := range first {
			switch cellAt(t, s, p).State {
			case StateVapor:
				t.Fatalf("tick %d: second ring joined while first ring cell %v is vapor", tick, p)
			case StateIce:
				frozen++
			}
		}
		if frozen == 0 {
			t.Fatalf("tick %d: second ring became receptive before any first ring cell froze", tick)
		}
	}
	if !reached {
		t.Fatal("crystal never reached the second ring")
	}
}

func TestReiterReceptiveCellsAccumulate(t *testing.T) {
	cfg := testConfig(ModelReiter, 2)
	c := newTestController(t, cfg)
	if err := c.Start(); err != nil {
		t.Fatal(err)
	}
	p := ring(c.Snapshot(), 1)[0]
	before := cellAt(t, c.Snapshot(), p).Mass()
	mustTick(t, c, 1)
	after := cellAt(t, c.Snapshot(), p).Mass()
	if after < before+cfg.Params.Reiter.Gamma {
		t.Fatalf("receptive cell mass %f -> %f, want at least +gamma", before, after)
	}
	if cell := cellAt(t, c.Snapshot(), p); cell.Boundary <= 0 {
		t.Fatalf("receptive cell %+v holds no boundary mass", cell)
	}
}
