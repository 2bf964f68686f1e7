package flow

import (
	"image"
	"image/color"
	"sync/atomic"

	"flowgen/internal/core"
)

// SettledGrid stores the final color of every settled cell. Settlement is
// permanent: a coordinate is written once and never recolored.
//
// Only the generator writes. Readers on other goroutines may call Contains,
// ColorAt and Occupied at any time; a color is written before its presence bit
// is published, so a reader that sees the bit also sees the color.
type SettledGrid struct {
	present  *core.BitRegistry
	colors   []color.RGBA
	occupied atomic.Int64
}

// NewSettledGrid allocates an empty grid of w*h cells.
func NewSettledGrid(w, h int) *SettledGrid {
	present := core.NewBitRegistry(w, h)
	return &SettledGrid{present: present, colors: make([]color.RGBA, present.W*present.H)}
}

// InBounds reports whether (x, y) lies inside the grid.
func (g *SettledGrid) InBounds(x, y int) bool { return g.present.InBounds(x, y) }

// Contains reports whether (x, y) has settled.
func (g *SettledGrid) Contains(x, y int) bool { return g.present.Contains(x, y) }

// Store settles p with color c unless p already settled. It reports whether
// the cell was stored.
func (g *SettledGrid) Store(p image.Point, c color.RGBA) bool {
	if g.present.Contains(p.X, p.Y) {
		return false
	}
	g.colors[g.present.ID(p.X, p.Y)] = c
	g.present.Set(p.X, p.Y)
	g.occupied.Add(1)
	return true
}

// ColorAt returns the settled color at (x, y), if any.
func (g *SettledGrid) ColorAt(x, y int) (color.RGBA, bool) {
	if !g.present.Contains(x, y) {
		return color.RGBA{}, false
	}
	return g.colors[g.present.ID(x, y)], true
}

// NeighborColors appends to buf[:0] the colors of the settled cells directly
// left, right, above and below (x, y), in that order.
func (g *SettledGrid) NeighborColors(x, y int, buf []color.RGBA) []color.RGBA {
	buf = buf[:0]
	for _, d := range neighborOffsets {
		nx, ny := x+d.X, y+d.Y
		if !g.present.InBounds(nx, ny) {
			continue
		}
		if c, ok := g.ColorAt(nx, ny); ok {
			buf = append(buf, c)
		}
	}
	return buf
}

// Occupied returns how many cells have settled.
func (g *SettledGrid) Occupied() int { return int(g.occupied.Load()) }

// neighborOffsets lists the four grid neighbors: left, right, up, down.
var neighborOffsets = [4]image.Point{{X: -1}, {X: 1}, {Y: -1}, {Y: 1}}
