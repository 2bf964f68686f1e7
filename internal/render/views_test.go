package render

import (
	"errors"
	"image"
	"image/color"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// grid is a toy source: a coordinate is "live" once marked.
type grid struct {
	w    int
	live []atomic.Bool
}

func newGrid(w, h int) *grid { return &grid{w: w, live: make([]atomic.Bool, w*h)} }

func (g *grid) mark(x, y int) { g.live[y*g.w+x].Store(true) }

func (g *grid) mapper(c color.RGBA) MapFunc {
	return func(x, y int) (color.RGBA, bool) {
		if !g.live[y*g.w+x].Load() {
			return color.RGBA{}, false
		}
		return c, true
	}
}

var (
	red  = color.RGBA{R: 255, A: 255}
	blue = color.RGBA{B: 255, A: 255}
)

func TestAddViewRules(t *testing.T) {
	r := NewRegistry(4, 4)
	g := newGrid(4, 4)
	require.NoError(t, r.AddView("a", g.mapper(red)))
	require.NoError(t, r.AddView("b", g.mapper(blue)))
	assert.Equal(t, "a", r.Active())
	assert.Equal(t, []string{"a", "b"}, r.Names())

	err := r.AddView("a", g.mapper(blue))
	assert.True(t, errors.Is(err, ErrDuplicateView))
	assert.Error(t, r.AddView("", g.mapper(red)))
	assert.Error(t, r.AddView("c", nil))

	assert.ErrorIs(t, r.Activate("nope"), ErrUnknownView)
	_, err = r.Snapshot("nope")
	assert.ErrorIs(t, err, ErrUnknownView)
}

func TestRenderTracksDrawnArea(t *testing.T) {
	r := NewRegistry(8, 8)
	g := newGrid(8, 8)
	require.NoError(t, r.AddView("a", g.mapper(red)))

	area, err := r.DrawnArea("a")
	require.NoError(t, err)
	assert.True(t, area.Empty())

	// Unmarked cells map to nothing and must not grow the area.
	r.Render(0, 0)
	area, _ = r.DrawnArea("a")
	assert.True(t, area.Empty())

	g.mark(2, 5)
	g.mark(6, 1)
	r.Render(2, 5)
	r.Render(6, 1)
	area, _ = r.DrawnArea("a")
	assert.Equal(t, image.Rect(2, 1, 7, 6), area)

	img, err := r.Snapshot("a")
	require.NoError(t, err)
	assert.Equal(t, red, img.RGBAAt(2, 5))
	assert.Equal(t, red, img.RGBAAt(6, 1))
	assert.Equal(t, color.RGBA{}, img.RGBAAt(0, 0))
}

func TestActivateCatchesUp(t *testing.T) {
	r := NewRegistry(6, 6)
	g := newGrid(6, 6)
	require.NoError(t, r.AddView("a", g.mapper(red)))
	require.NoError(t, r.AddView("b", g.mapper(blue)))

	for _, p := range []image.Point{{X: 1, Y: 1}, {X: 3, Y: 2}, {X: 2, Y: 4}} {
		g.mark(p.X, p.Y)
		r.Render(p.X, p.Y)
	}
	require.NoError(t, r.Activate("b"))
	require.NoError(t, r.Wait())
	assert.Equal(t, "b", r.Active())

	img, err := r.Snapshot("b")
	require.NoError(t, err)
	for _, p := range []image.Point{{X: 1, Y: 1}, {X: 3, Y: 2}, {X: 2, Y: 4}} {
		assert.Equal(t, blue, img.RGBAAt(p.X, p.Y))
	}
	area, _ := r.DrawnArea("b")
	assert.Equal(t, image.Rect(1, 1, 4, 5), area)

	// Live pushes now land in b only.
	g.mark(5, 5)
	r.Render(5, 5)
	a, _ := r.Snapshot("a")
	assert.Equal(t, color.RGBA{}, a.RGBAAt(5, 5))

	// Switching back redraws everything b saw, including (5,5).
	require.NoError(t, r.Activate("a"))
	require.NoError(t, r.Wait())
	a, _ = r.Snapshot("a")
	assert.Equal(t, red, a.RGBAAt(5, 5))

	// Re-activating the active view schedules nothing.
	require.NoError(t, r.Activate("a"))
	require.NoError(t, r.Wait())
}

func TestCatchUpKeepsNewerLivePush(t *testing.T) {
	r := NewRegistry(1, 1)
	g := newGrid(1, 1)
	require.NoError(t, r.AddView("a", g.mapper(red)))
	g.mark(0, 0)
	r.Render(0, 0)

	var settled, pushed atomic.Bool
	// The cell changes state and is pushed live after the catch-up has
	// already mapped it to the old color.
	late := func(x, y int) (color.RGBA, bool) {
		if settled.Load() {
			return blue, true
		}
		if pushed.CompareAndSwap(false, true) {
			settled.Store(true)
			r.Render(x, y)
		}
		return red, true
	}
	require.NoError(t, r.AddView("b", late))
	require.NoError(t, r.Activate("b"))
	require.NoError(t, r.Wait())

	img, err := r.Snapshot("b")
	require.NoError(t, err)
	assert.Equal(t, blue, img.RGBAAt(0, 0))
	assert.True(t, pushed.Load())
}

func TestPixelsBuffer(t *testing.T) {
	r := NewRegistry(2, 2)
	g := newGrid(2, 2)
	require.NoError(t, r.AddView("a", g.mapper(color.RGBA{R: 1, G: 2, B: 3, A: 4})))
	g.mark(1, 0)
	r.Render(1, 0)

	assert.Error(t, r.Pixels("a", make([]byte, 3)))
	buf := make([]byte, 16)
	require.NoError(t, r.Pixels("a", buf))
	assert.Equal(t, []byte{0, 0, 0, 0, 1, 2, 3, 4, 0, 0, 0, 0, 0, 0, 0, 0}, buf)
}

func TestConcurrentSnapshotDuringWrites(t *testing.T) {
	const w, h = 64, 64
	r := NewRegistry(w, h)
	g := newGrid(w, h)
	require.NoError(t, r.AddView("a", g.mapper(red)))
	require.NoError(t, r.AddView("b", g.mapper(blue)))

	var wg sync.WaitGroup
	stop := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
			}
			img, err := r.Snapshot(r.Active())
			if err != nil {
				t.Errorf("snapshot: %v", err)
				return
			}
			for i := 0; i < len(img.Pix); i += 4 {
				px := color.RGBA{R: img.Pix[i], G: img.Pix[i+1], B: img.Pix[i+2], A: img.Pix[i+3]}
				if px != red && px != blue && px != (color.RGBA{}) {
					t.Errorf("torn pixel %v", px)
					return
				}
			}
		}
	}()
	for i := 0; i < w*h; i++ {
		x, y := i%w, i/w
		g.mark(x, y)
		r.Render(x, y)
		if i == w*h/3 {
			require.NoError(t, r.Activate("b"))
		}
		if i == 2*w*h/3 {
			require.NoError(t, r.Activate("a"))
		}
	}
	close(stop)
	wg.Wait()
	require.NoError(t, r.Wait())

	img, _ := r.Snapshot("a")
	for i := 0; i < w*h; i++ {
		require.Equal(t, red, img.RGBAAt(i%w, i/w))
	}
}
