package snowflake

import "snow-ca/internal/core"

// Gravner implements the Gravner-Griffeath mesoscopic model with separate
// diffusive (d), boundary (b) and ice (c) masses. Each tick runs diffusion,
// freezing, attachment, melting and optional noise.
type Gravner struct{}

// Model identifies the variant.
func (Gravner) Model() Model { return ModelGravner }

// Ambient is the vapour density Rho.
func (Gravner) Ambient(p Params) float64 { return p.Gravner.Rho }

// Classify applies the shared adjacency rule.
func (Gravner) Classify(frozen bool, frozenNeighbors int) CellState {
	return classify(frozen, frozenNeighbors)
}

func (Gravner) parameters() []paramSpec { return gravnerSpecs }

// Passes returns diffusion, freezing, attachment and a final pass combining
// melting, noise and reclassification.
func (g Gravner) Passes(l *Lattice, p Params, seed int64, tick uint64) []Pass {
	src, dst := l.current(), l.next()
	params := p.Gravner
	ambient := l.ambient

	freeze := Pass{Name: "freeze", Kernel: func(lo, hi int) {
		for i := lo; i < hi; i++ {
			b, c, d := src.boundary[i], src.ice[i], dst.diffusive[i]
			if src.state[i] == StateBoundary {
				b += (1 - params.Kappa) * d
				c += params.Kappa * d
				d = 0
			}
			dst.boundary[i] = b
			dst.ice[i] = c
			dst.diffusive[i] = d
		}
	}}

	attach := Pass{Name: "attach", Kernel: func(lo, hi int) {
		for i := lo; i < hi; i++ {
			frozen := src.frozen[i]
			if src.state[i] == StateBoundary && g.attaches(l, dst, i, l.frozenNeighbors(src, i), params, ambient) {
				dst.ice[i] += dst.boundary[i]
				dst.boundary[i] = 0
				frozen = true
			}
			dst.frozen[i] = frozen
		}
	}}

	melt := Pass{Name: "melt", Kernel: func(lo, hi int) {
		for i := lo; i < hi; i++ {
			state := g.Classify(dst.frozen[i], l.frozenNeighbors(dst, i))
			b, c, d := dst.boundary[i], dst.ice[i], dst.diffusive[i]
			if state == StateBoundary {
				mb := params.Mu * b
				gc := params.Gamma * c
				b -= mb
				c -= gc
				d += mb + gc
			}
			if params.Sigma > 0 {
				if core.CellCoin(seed, tick, i) {
					d *= 1 + params.Sigma
				} else {
					d *= 1 - params.Sigma
				}
			}
			dst.boundary[i] = clamp0(b)
			dst.ice[i] = clamp0(c)
			dst.diffusive[i] = clamp0(d)
			dst.state[i] = state
		}
	}}

	return []Pass{
		Diffusion{Kind: DiffusionReflecting}.Pass(l),
		freeze,
		attach,
		melt,
	}
}

// attaches decides whether boundary cell i joins the crystal given n frozen
// neighbours in the current generation. Comparisons use >= so ties attach.
func (Gravner) attaches(l *Lattice, dst *buffer, i, n int, p GravnerParams, ambient float64) bool {
	b := dst.boundary[i]
	switch {
	case n <= 0:
		return false
	case n <= 2:
		return b >= p.Beta
	case n == 3:
		if b >= 1 {
			return true
		}
		if b < p.Alpha {
			return false
		}
		sum := 0.0
		for _, j := range l.neighbors(i) {
			if j < 0 {
				sum += ambient
				continue
			}
			sum += dst.diffusive[j]
		}
		return sum < p.Theta
	default:
		return true
	}
}
