package render

import (
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/imgio"
	"github.com/anthonynsimon/bild/transform"

	"snow-ca/internal/sims/snowflake"
)

// hexShear is the horizontal shear, in degrees, that moves each row half a
// cell to the right of the row above it.
var hexShear = -math.Atan(0.5) * 180 / math.Pi

// PNGOptions controls ExportPNG.
type PNGOptions struct {
	// Scale is the edge length of one cell in pixels before shearing.
	Scale   int
	Mode    Mode
	Palette Palette
}

// DefaultPNGOptions renders mass shading at four pixels per cell.
func DefaultPNGOptions() PNGOptions {
	return PNGOptions{Scale: 4, Mode: ModeMass, Palette: DefaultPalette()}
}

// HexImage renders the snapshot with the rhombic patch sheared and squashed
// so the cells sit on a regular hexagonal lattice.
func HexImage(s *snowflake.Snapshot, opts PNGOptions) image.Image {
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	src := Image(s, opts.Mode, opts.Palette)
	size := s.Size()
	img := transform.Resize(src, size.W*opts.Scale, size.H*opts.Scale, transform.NearestNeighbor)
	img = transform.ShearH(img, hexShear)

	b := img.Bounds()
	h := int(math.Round(float64(b.Dy()) * math.Sqrt(3) / 2))
	if h < 1 {
		h = 1
	}
	img = transform.Resize(img, b.Dx(), h, transform.Linear)

	bg := opts.Palette.Background
	return adjust.Apply(img, func(c color.RGBA) color.RGBA {
		if c.A == 0 {
			return bg
		}
		c.A = 255
		return c
	})
}

// ExportPNG writes the hexagonal rendering of s to path.
func ExportPNG(path string, s *snowflake.Snapshot, opts PNGOptions) error {
	return imgio.Save(path, HexImage(s, opts), imgio.PNGEncoder())
}

// ViewSize returns the on-screen size of a w*h lattice drawn on the
// hexagonal plane at scale pixels per cell.
func ViewSize(w, h, scale int) (int, int) {
	vw := float64(w) + float64(h)/2
	vh := float64(h) * math.Sqrt(3) / 2
	return int(math.Ceil(vw * float64(scale))), int(math.Ceil(vh * float64(scale)))
}
