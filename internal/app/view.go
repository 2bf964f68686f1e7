package app

import (
	"errors"

	"flowgen/internal/core"
	"flowgen/internal/render"
)

// ErrNoGUI is returned by Run in builds without the ebiten tag.
var ErrNoGUI = errors.New("app: the preview window requires building with the 'ebiten' tag")

// Viewable is an algorithm whose live state can be previewed.
type Viewable interface {
	core.Algorithm
	Views() *render.Registry
}

// fit returns the largest scale that fits a w*h image inside a
// bounds-sized window with margin pixels on every side, and the offset that
// centres it.
func fit(w, h, boundsW, boundsH, margin int) (scale float64, offX, offY float64) {
	availW, availH := float64(boundsW-2*margin), float64(boundsH-2*margin)
	if availW <= 0 || availH <= 0 || w <= 0 || h <= 0 {
		return 0, 0, 0
	}
	scale = min(availW/float64(w), availH/float64(h))
	offX = (float64(boundsW) - float64(w)*scale) / 2
	offY = (float64(boundsH) - float64(h)*scale) / 2
	return scale, offX, offY
}

// nextView returns the view after active in names, wrapping around.
func nextView(names []string, active string) string {
	if len(names) == 0 {
		return ""
	}
	for i, n := range names {
		if n == active {
			return names[(i+1)%len(names)]
		}
	}
	return names[0]
}
