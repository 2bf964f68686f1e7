//go:build ebiten

package app

import (
	"errors"
	"image/color"
	"time"

	"flowgen/internal/core"
	"flowgen/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	windowMargin = 16
	hudWidth     = 220
)

var (
	background = color.RGBA{R: 128, G: 128, B: 128, A: 255}
	border     = color.Black
)

// Viewer adapts a running algorithm to the ebiten.Game interface. It only
// reads generation state; the algorithm runs on its own goroutine.
type Viewer struct {
	alg     Viewable
	hud     *ui.HUD
	showHUD bool

	tex     *ebiten.Image
	pix     []byte
	cadence *core.Cadence
	title   string
}

// NewViewer constructs a Viewer repainting at most fps times per second.
func NewViewer(alg Viewable, fps int) *Viewer {
	size := alg.Size()
	return &Viewer{
		alg:     alg,
		hud:     ui.NewHUD(alg, hudWidth),
		tex:     ebiten.NewImage(size.W, size.H),
		pix:     make([]byte, 4*size.Cells()),
		cadence: core.NewCadence(fps),
	}
}

// Update handles keyboard input.
func (v *Viewer) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	views := v.alg.Views()
	names := views.Names()
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		v.activate(nextView(names, views.Active()))
	}
	for i := 0; i < len(names) && i < 9; i++ {
		if inpututil.IsKeyJustPressed(ebiten.Key1 + ebiten.Key(i)) {
			v.activate(names[i])
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		v.showHUD = !v.showHUD
	}
	v.hud.Update()
	return nil
}

func (v *Viewer) activate(name string) {
	if name == "" || name == v.alg.Views().Active() {
		return
	}
	if err := v.alg.Views().Activate(name); err == nil {
		v.cadence.Force()
	}
}

// Draw paints the active view fitted to the window.
func (v *Viewer) Draw(screen *ebiten.Image) {
	if v.cadence.Due(time.Now()) {
		views := v.alg.Views()
		if err := views.Pixels(views.Active(), v.pix); err == nil {
			v.tex.WritePixels(v.pix)
		}
		if title := v.alg.ProgressString(); title != v.title {
			ebiten.SetWindowTitle(title)
			v.title = title
		}
	}

	screen.Fill(background)
	b := screen.Bounds()
	size := v.alg.Size()
	scale, offX, offY := fit(size.W, size.H, b.Dx(), b.Dy(), windowMargin)
	if scale <= 0 {
		return
	}
	w, h := float32(float64(size.W)*scale), float32(float64(size.H)*scale)
	vector.StrokeRect(screen, float32(offX)-1, float32(offY)-1, w+2, h+2, 1, border, false)

	op := &ebiten.DrawImageOptions{Filter: ebiten.FilterNearest}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(offX, offY)
	screen.DrawImage(v.tex, op)

	if v.showHUD {
		v.hud.Draw(screen, b.Dx()-hudWidth, b.Dy())
	}
}

// Layout follows the window size so the image can be refitted on resize.
func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

// Run opens the preview window and blocks until it is closed.
func Run(alg Viewable, cfg *Config) error {
	size := alg.Size()
	w := min(size.W+2*windowMargin, 1280)
	h := min(size.H+2*windowMargin, 960)
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowTitle(alg.ProgressString())

	if err := ebiten.RunGame(NewViewer(alg, cfg.FPS)); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
