//go:build ebiten

package ui

import (
	"image/color"

	"flowgen/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

// HUD renders a status panel along the right edge of the preview.
type HUD struct {
	alg        core.Algorithm
	width      int
	panel      *ebiten.Image
	lastHeight int
	lines      []string
}

// NewHUD constructs a HUD for the provided algorithm and panel width.
func NewHUD(alg core.Algorithm, width int) *HUD {
	if width < 0 {
		width = 0
	}
	return &HUD{alg: alg, width: width}
}

// Update refreshes the cached text from the algorithm.
func (h *HUD) Update() {
	if h == nil || h.alg == nil {
		return
	}
	h.lines = Lines(h.alg)
}

// Draw paints the panel at offsetX spanning height pixels.
func (h *HUD) Draw(screen *ebiten.Image, offsetX, height int) {
	if h == nil || h.width <= 0 || height <= 0 {
		return
	}
	if h.panel == nil || h.lastHeight != height {
		h.panel = ebiten.NewImage(h.width, height)
		h.lastHeight = height
	}
	h.panel.Fill(color.RGBA{R: 16, G: 16, B: 20, A: 230})

	face := basicfont.Face7x13
	y := panelPadding + headerBaseline
	for i, line := range h.lines {
		c := color.RGBA{R: 220, G: 220, B: 230, A: 255}
		if i == 0 {
			c = color.RGBA{R: 200, G: 200, B: 210, A: 255}
		}
		text.Draw(h.panel, line, face, panelPadding, y, c)
		y += lineHeight
		if y > height-panelPadding {
			break
		}
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

const (
	panelPadding   = 12
	lineHeight     = 16
	headerBaseline = 12
)
