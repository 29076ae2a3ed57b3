package snowflake

// Reiter implements Reiter's local model. Every cell carries a single level
// s; cells that are frozen (s >= 1) or touch a frozen cell are receptive and
// keep their whole level, gaining Gamma each tick, while the rest diffuse.
// Receptive non-ice cells report their kept level as boundary mass.
type Reiter struct{}

// Model identifies the variant.
func (Reiter) Model() Model { return ModelReiter }

// Ambient is the background level Beta.
func (Reiter) Ambient(p Params) float64 { return p.Reiter.Beta }

// Classify applies the shared adjacency rule: receptivity needs nothing
// beyond touching the crystal.
func (Reiter) Classify(frozen bool, frozenNeighbors int) CellState {
	return classify(frozen, frozenNeighbors)
}

func (Reiter) parameters() []paramSpec { return reiterSpecs }

// Passes splits the level into its diffusing and receptive parts, diffuses,
// adds Gamma and freezes, then reclassifies.
func (r Reiter) Passes(l *Lattice, p Params, _ int64, _ uint64) []Pass {
	src, dst := l.current(), l.next()
	u := l.scratch
	params := p.Reiter
	split := Pass{Name: "split", Kernel: func(lo, hi int) {
		for i := lo; i < hi; i++ {
			if src.state[i] == StateVapor {
				u[i] = src.diffusive[i] + src.boundary[i] + src.ice[i]
				continue
			}
			u[i] = 0
		}
	}}
	grow := Pass{Name: "grow", Kernel: func(lo, hi int) {
		for i := lo; i < hi; i++ {
			receptive := src.state[i] != StateVapor
			v := 0.0
			if receptive {
				v = src.diffusive[i] + src.boundary[i] + src.ice[i] + params.Gamma
			}
			diffused := dst.diffusive[i]
			level := diffused + v
			if src.frozen[i] || level >= 1 {
				dst.frozen[i] = true
				dst.ice[i] = level
				dst.boundary[i] = 0
				dst.diffusive[i] = 0
				continue
			}
			dst.frozen[i] = false
			dst.ice[i] = 0
			dst.boundary[i] = v
			dst.diffusive[i] = diffused
		}
	}}
	return []Pass{
		split,
		Diffusion{Kind: DiffusionAbsorbing, Rate: params.Alpha}.Pass(l),
		grow,
		classifyPass(l, r),
	}
}
