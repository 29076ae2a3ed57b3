package core

import "math/rand/v2"

// CellCoin returns a pseudo-random bit for one cell of one generation. The
// result depends only on its arguments, so it is identical no matter which
// goroutine evaluates the cell or in which order.
func CellCoin(seed int64, tick uint64, idx int) bool {
	var p rand.PCG
	p.Seed(uint64(seed)^(tick*0x9e3779b97f4a7c15), uint64(idx))
	return p.Uint64()>>63 == 1
}
