package render

import (
	"cmp"
	"io"
	"math"
	"os"
	"slices"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"snow-ca/internal/core"
	"snow-ca/internal/sims/snowflake"
)

// Point is a position in cell units on the hexagonal plane: neighbouring
// cell centres are one unit apart.
type Point struct {
	X, Y float64
}

// vertex is a hexagon corner on the doubled integer lattice where a cell
// (q, r) is centred at (2q+r, 3r).
type vertex struct {
	x, y int
}

// corners lists the six hexagon corners in winding order.
var corners = [6]vertex{{1, 1}, {0, 2}, {-1, 1}, {-1, -1}, {0, -2}, {1, -1}}

// Contours traces the outline of the frozen region. Each contour is a closed
// loop with the first point repeated at the end; holes are loops of their
// own. Edges wrapped by a periodic boundary are traced as if the patch were
// open.
func Contours(s *snowflake.Snapshot) [][]Point {
	segments := map[vertex]vertex{}
	for i, st := range s.States {
		if st != snowflake.StateIce {
			continue
		}
		c := s.Grid.Coord(i)
		cx, cy := 2*c.Q+c.R, 3*c.R
		for k, d := range corners {
			n := corners[(k+1)%6]
			start := vertex{cx + d.x, cy + d.y}
			end := vertex{cx + n.x, cy + n.y}
			// An edge shared with another ice cell was inserted reversed.
			if back, ok := segments[end]; ok && back == start {
				delete(segments, end)
				continue
			}
			segments[start] = end
		}
	}

	starts := make([]vertex, 0, len(segments))
	for v := range segments {
		starts = append(starts, v)
	}
	slices.SortFunc(starts, func(a, b vertex) int {
		return cmp.Or(cmp.Compare(a.y, b.y), cmp.Compare(a.x, b.x))
	})

	var contours [][]Point
	for _, start := range starts {
		if _, ok := segments[start]; !ok {
			continue
		}
		loop := []Point{toPoint(start)}
		cur := start
		for {
			next, ok := segments[cur]
			if !ok {
				break
			}
			delete(segments, cur)
			loop = append(loop, toPoint(next))
			cur = next
		}
		contours = append(contours, loop)
	}
	return contours
}

func toPoint(v vertex) Point {
	return Point{X: float64(v.x) / 2, Y: float64(v.y) / 2 / math.Sqrt(3)}
}

// WriteSVG renders the crystal outline as a filled SVG path, scale pixels per
// cell spacing.
func WriteSVG(w io.Writer, s *snowflake.Snapshot, scale float64) error {
	if scale <= 0 {
		scale = 1
	}
	width, height := svgExtent(s.Grid, scale)
	r, err := chart.SVG(width, height)
	if err != nil {
		return err
	}
	r.SetFillColor(drawing.ColorBlack)
	r.SetStrokeColor(drawing.ColorBlack)
	r.SetStrokeWidth(0)
	px := func(p Point) (int, int) {
		return int(math.Round((p.X + 1) * scale)), int(math.Round((p.Y + 1) * scale))
	}
	for _, loop := range Contours(s) {
		x, y := px(loop[0])
		r.MoveTo(x, y)
		for _, p := range loop[1:] {
			x, y = px(p)
			r.LineTo(x, y)
		}
		r.Close()
	}
	r.Fill()
	return r.Save(w)
}

// SaveSVG writes the crystal outline to path.
func SaveSVG(path string, s *snowflake.Snapshot, scale float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteSVG(f, s, scale); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func svgExtent(g core.HexGrid, scale float64) (int, int) {
	w := (float64(g.W) + float64(g.H)/2 + 2) * scale
	h := (float64(g.H)*math.Sqrt(3)/2 + 2) * scale
	return int(math.Ceil(w)), int(math.Ceil(h))
}
