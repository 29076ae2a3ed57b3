package snowflake

// DiffusionKind selects how crystal cells take part in vapour diffusion.
type DiffusionKind uint8

const (
	// DiffusionAbsorbing treats receptive cells as holding no diffusive
	// mass: they drain their vapour neighbours and never feed them.
	DiffusionAbsorbing DiffusionKind = iota
	// DiffusionReflecting excludes ice cells from the average; each ice
	// neighbour contributes the averaging cell's own value instead.
	DiffusionReflecting
)

// Diffusion is the discrete local-averaging operator over the six hexagonal
// neighbours. Neighbours beyond an open boundary read as the lattice's
// ambient density.
type Diffusion struct {
	Kind DiffusionKind
	// Rate weights the absorbing update u + Rate/2*(mean(u)-u). It is
	// ignored by the reflecting operator, which takes the plain 7-cell mean.
	Rate float64
}

// Pass returns the kernel computing the next generation's diffusive mass.
// The absorbing operator reads the lattice scratch field, which the caller
// must have filled with the per-cell diffusive mass beforehand.
func (d Diffusion) Pass(l *Lattice) Pass {
	dst := l.next()
	if d.Kind == DiffusionAbsorbing {
		src := l.scratch
		return Pass{Name: "diffuse", Kernel: func(lo, hi int) {
			d.absorb(l, src, dst.diffusive, lo, hi)
		}}
	}
	src := l.current()
	return Pass{Name: "diffuse", Kernel: func(lo, hi int) {
		d.reflect(l, src, dst.diffusive, lo, hi)
	}}
}

func (d Diffusion) absorb(l *Lattice, u, out []float64, lo, hi int) {
	ambient := l.ambient
	half := d.Rate / 2
	for i := lo; i < hi; i++ {
		sum := 0.0
		for _, j := range l.neighbors(i) {
			if j < 0 {
				sum += ambient
				continue
			}
			sum += u[j]
		}
		out[i] = clamp0(u[i] + half*(sum/6-u[i]))
	}
}

func (d Diffusion) reflect(l *Lattice, src *buffer, out []float64, lo, hi int) {
	ambient := l.ambient
	for i := lo; i < hi; i++ {
		if src.frozen[i] {
			out[i] = 0
			continue
		}
		own := src.diffusive[i]
		sum := own
		for _, j := range l.neighbors(i) {
			switch {
			case j < 0:
				sum += ambient
			case src.frozen[j]:
				sum += own
			default:
				sum += src.diffusive[j]
			}
		}
		out[i] = sum / 7
	}
}
