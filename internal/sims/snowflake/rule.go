package snowflake

import "fmt"

// Model names a growth model variant.
type Model string

const (
	// ModelReiter is Reiter's local cellular automaton.
	ModelReiter Model = "reiter"
	// ModelGravner is the Gravner-Griffeath mesoscopic model.
	ModelGravner Model = "gravner-griffeath"
)

// Models lists the supported variants.
func Models() []Model { return []Model{ModelReiter, ModelGravner} }

// GrowthRule is the attachment, freezing and melting logic of one model.
// A rule is chosen when the controller is built and never swapped.
type GrowthRule interface {
	Model() Model

	// Ambient returns the vapour density a reset fills the lattice with.
	Ambient(p Params) float64

	// Classify derives a cell's state from its frozen flag and the number
	// of frozen neighbours.
	Classify(frozen bool, frozenNeighbors int) CellState

	// Passes returns the ordered kernels of one tick. They read the
	// lattice's current buffer and write its next buffer.
	Passes(l *Lattice, p Params, seed int64, tick uint64) []Pass

	parameters() []paramSpec
}

// NewRule returns the growth rule for m.
func NewRule(m Model) (GrowthRule, error) {
	switch m {
	case ModelReiter:
		return Reiter{}, nil
	case ModelGravner:
		return Gravner{}, nil
	}
	return nil, fmt.Errorf("unknown model %q", m)
}

// ParseModel accepts the registry names and a few short aliases.
func ParseModel(s string) (Model, error) {
	switch s {
	case "reiter", "b":
		return ModelReiter, nil
	case "gravner-griffeath", "gravner", "gg", "a":
		return ModelGravner, nil
	}
	return "", fmt.Errorf("unknown model %q", s)
}

// classifyPass recomputes the state of every cell in the next buffer from
// its freshly written frozen flags.
func classifyPass(l *Lattice, r GrowthRule) Pass {
	dst := l.next()
	return Pass{Name: "classify", Kernel: func(lo, hi int) {
		for i := lo; i < hi; i++ {
			dst.state[i] = r.Classify(dst.frozen[i], l.frozenNeighbors(dst, i))
		}
	}}
}
