package core

import (
	"fmt"
	"sort"
)

// Size describes the dimensions of a simulation grid.
type Size struct {
	W int
	H int
}

// Status is the lifecycle state of a simulation.
type Status uint8

const (
	StatusIdle Status = iota
	StatusRunning
	StatusPaused
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusRunning:
		return "running"
	case StatusPaused:
		return "paused"
	default:
		return fmt.Sprintf("status(%d)", uint8(s))
	}
}

// Sim defines the contract between a lattice simulation and the viewer or
// server driving it. Lifecycle commands return an error when issued in a
// state that does not accept them.
type Sim interface {
	Name() string
	Size() Size
	Status() Status

	Start() error
	Pause() error
	Resume() error
	Step() error
	Reset() error

	// Tick advances one generation if the simulation is running and reports
	// whether it did.
	Tick() (bool, error)

	// Cells returns one classification byte per cell from the latest
	// published generation.
	Cells() []uint8
}

// Factory constructs a Sim using an optional configuration map.
type Factory func(cfg map[string]string) (Sim, error)

var sims = map[string]Factory{}

// Register adds a simulation factory under the provided name.
func Register(name string, f Factory) {
	if name == "" || f == nil {
		return
	}
	sims[name] = f
}

// Sims exposes the registry of available simulation factories.
func Sims() map[string]Factory {
	return sims
}

// SimNames lists the registered factories in lexical order.
func SimNames() []string {
	names := make([]string, 0, len(sims))
	for name := range sims {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
