//go:build ebiten

package render

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"

	"snow-ca/internal/sims/snowflake"
)

// Painter uploads snapshots into a single image and draws it on the
// hexagonal plane.
type Painter struct {
	w, h int
	img  *ebiten.Image
	buf  []byte

	Palette Palette
}

// NewPainter allocates a painter for a w*h lattice.
func NewPainter(w, h int) *Painter {
	return &Painter{
		w:       w,
		h:       h,
		img:     ebiten.NewImage(w, h),
		buf:     make([]byte, 4*w*h),
		Palette: DefaultPalette(),
	}
}

// Draw shades s and draws it skewed so each row sits half a cell right of
// the one above, then squashed to hexagonal row spacing.
func (p *Painter) Draw(dst *ebiten.Image, s *snowflake.Snapshot, mode Mode, scale int) {
	if s == nil || s.Len() != p.w*p.h {
		return
	}
	FillRGBA(p.buf, s, mode, p.Palette)
	p.img.WritePixels(p.buf)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Skew(math.Atan(0.5), 0)
	op.GeoM.Scale(float64(scale), float64(scale)*math.Sqrt(3)/2)
	dst.DrawImage(p.img, op)
}
