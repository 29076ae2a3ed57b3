package snowflake

import (
	"io"
	"log/slog"
	"slices"
	"testing"

	"snow-ca/internal/core"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(m Model, workers int) Config {
	cfg := DefaultConfig()
	cfg.Width = 24
	cfg.Height = 24
	cfg.Workers = workers
	cfg.Seed = 7
	cfg.Model = m
	return cfg
}

func newTestController(t *testing.T, cfg Config) *Controller {
	t.Helper()
	c, err := NewController(cfg, quietLogger())
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	return c
}

func mustTick(t *testing.T, c *Controller, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		advanced, err := c.Tick()
		if err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
		if !advanced {
			t.Fatalf("tick %d did not advance (status %v)", i, c.Status())
		}
	}
}

// ring returns the cells at exactly distance d from the seed.
func ring(s *Snapshot, d int) []core.Coord {
	var out []core.Coord
	for i := 0; i < s.Len(); i++ {
		p := s.Grid.Coord(i)
		if s.Grid.Distance(s.Seed, p) == d {
			out = append(out, p)
		}
	}
	return out
}

func sameFields(a, b *Snapshot) bool {
	return slices.Equal(a.Diffusive, b.Diffusive) &&
		slices.Equal(a.Boundary, b.Boundary) &&
		slices.Equal(a.Ice, b.Ice) &&
		slices.Equal(a.States, b.States)
}

func cellAt(t *testing.T, s *Snapshot, p core.Coord) Cell {
	t.Helper()
	cell, ok := s.At(p)
	if !ok {
		t.Fatalf("%v is outside the %dx%d grid", p, s.Grid.W, s.Grid.H)
	}
	return cell
}
