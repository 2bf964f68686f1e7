package flow

import "image/color"

// View names registered by every generator, in tab order.
const (
	ViewColor = "color"
	ViewState = "state"
)

var (
	frontierColor = color.RGBA{R: 255, A: 255}
	settledColor  = color.RGBA{B: 255, A: 255}
)

func (g *Generator) registerViews() error {
	if err := g.views.AddView(ViewColor, g.colorAt); err != nil {
		return err
	}
	return g.views.AddView(ViewState, g.stateAt)
}

// colorAt shows the final color of settled cells.
func (g *Generator) colorAt(x, y int) (color.RGBA, bool) {
	return g.settled.ColorAt(x, y)
}

// stateAt marks frontier cells red and settled cells blue. Settlement is
// permanent, so it is checked first.
func (g *Generator) stateAt(x, y int) (color.RGBA, bool) {
	if g.settled.Contains(x, y) {
		return settledColor, true
	}
	if g.frontier.Contains(x, y) {
		return frontierColor, true
	}
	return color.RGBA{}, false
}
