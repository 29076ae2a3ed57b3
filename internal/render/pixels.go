package render

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"snow-ca/internal/sims/snowflake"
)

// Mode selects how a snapshot is turned into pixels.
type Mode uint8

const (
	// ModeMass shades vapour by diffusive mass and ice by ice mass.
	ModeMass Mode = iota
	// ModeStates paints one palette colour per cell state.
	ModeStates
	// ModeIce paints the frozen region only.
	ModeIce
)

func (m Mode) String() string {
	switch m {
	case ModeMass:
		return "mass"
	case ModeStates:
		return "states"
	case ModeIce:
		return "ice"
	}
	return "unknown"
}

// ParseMode is the inverse of Mode.String.
func ParseMode(s string) (Mode, error) {
	for _, m := range []Mode{ModeMass, ModeStates, ModeIce} {
		if m.String() == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown render mode %q", s)
}

// Next cycles through the modes.
func (m Mode) Next() Mode { return (m + 1) % 3 }

// Palette holds one colour per cell state plus the background.
type Palette struct {
	Background color.RGBA
	Vapor      color.RGBA
	Boundary   color.RGBA
	Ice        color.RGBA
}

// DefaultPalette is a dark sky with pale ice.
func DefaultPalette() Palette {
	return Palette{
		Background: color.RGBA{R: 6, G: 10, B: 24, A: 255},
		Vapor:      color.RGBA{R: 40, G: 70, B: 140, A: 255},
		Boundary:   color.RGBA{R: 120, G: 200, B: 230, A: 255},
		Ice:        color.RGBA{R: 235, G: 245, B: 255, A: 255},
	}
}

func (p Palette) states() []color.RGBA {
	return []color.RGBA{
		snowflake.StateVapor:    p.Vapor,
		snowflake.StateBoundary: p.Boundary,
		snowflake.StateIce:      p.Ice,
	}
}

// FillRGBA writes the snapshot into buf, 4 bytes per cell in storage order.
// buf must hold at least 4*s.Len() bytes.
func FillRGBA(buf []byte, s *snowflake.Snapshot, mode Mode, pal Palette) {
	switch mode {
	case ModeStates:
		fillPaletteRGBA(buf, s.Cells(), pal.states())
	case ModeIce:
		fillBinaryRGBA(buf, s.Cells(), uint8(snowflake.StateIce), pal.Ice, pal.Background)
	default:
		fillMassRGBA(buf, s, pal)
	}
}

// Image renders the snapshot unsheared, one pixel per cell.
func Image(s *snowflake.Snapshot, mode Mode, pal Palette) *image.RGBA {
	size := s.Size()
	img := image.NewRGBA(image.Rect(0, 0, size.W, size.H))
	FillRGBA(img.Pix, s, mode, pal)
	return img
}

// fillBinaryRGBA paints cells equal to match with on and the rest with off.
func fillBinaryRGBA(buf []byte, cells []uint8, match uint8, on, off color.Color) {
	rOn, gOn, bOn, aOn := on.RGBA()
	rOff, gOff, bOff, aOff := off.RGBA()
	for i, c := range cells {
		base := i * 4
		if c == match {
			buf[base+0] = uint8(rOn >> 8)
			buf[base+1] = uint8(gOn >> 8)
			buf[base+2] = uint8(bOn >> 8)
			buf[base+3] = uint8(aOn >> 8)
			continue
		}
		buf[base+0] = uint8(rOff >> 8)
		buf[base+1] = uint8(gOff >> 8)
		buf[base+2] = uint8(bOff >> 8)
		buf[base+3] = uint8(aOff >> 8)
	}
}

// fillPaletteRGBA converts cell values into RGBA pixels using a palette. When
// the palette is empty the buffer is cleared to transparent black.
func fillPaletteRGBA(buf []byte, cells []uint8, palette []color.RGBA) {
	if len(palette) == 0 {
		clear(buf[:4*len(cells)])
		return
	}

	last := len(palette) - 1
	for i, c := range cells {
		idx := int(c)
		if idx > last {
			idx = last
		}
		setRGBA(buf, i, palette[idx])
	}
}

// fillMassRGBA blends from the background towards the vapour colour by
// diffusive mass relative to the ambient peak, and from the boundary colour
// towards the ice colour by ice mass.
func fillMassRGBA(buf []byte, s *snowflake.Snapshot, pal Palette) {
	peak := 0.0
	for i, st := range s.States {
		if st != snowflake.StateIce && s.Diffusive[i] > peak {
			peak = s.Diffusive[i]
		}
	}
	for i, st := range s.States {
		switch st {
		case snowflake.StateIce:
			setRGBA(buf, i, mix(pal.Boundary, pal.Ice, s.Ice[i]))
		case snowflake.StateBoundary:
			setRGBA(buf, i, mix(pal.Vapor, pal.Boundary, s.Boundary[i]+s.Ice[i]))
		default:
			t := 0.0
			if peak > 0 {
				t = s.Diffusive[i] / peak
			}
			setRGBA(buf, i, mix(pal.Background, pal.Vapor, t))
		}
	}
}

func setRGBA(buf []byte, i int, c color.RGBA) {
	base := i * 4
	buf[base+0] = c.R
	buf[base+1] = c.G
	buf[base+2] = c.B
	buf[base+3] = c.A
}

// mix interpolates linearly from a to b, clamping t to [0, 1].
func mix(a, b color.RGBA, t float64) color.RGBA {
	t = math.Max(0, math.Min(1, t))
	lerp := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return color.RGBA{R: lerp(a.R, b.R), G: lerp(a.G, b.G), B: lerp(a.B, b.B), A: lerp(a.A, b.A)}
}
