// Package render keeps one pixel buffer per named visualization of a running
// generator and routes live per-cell pushes to whichever view is active.
//
// Buffers are written by a single generator goroutine and may be read at any
// time by observers. Each pixel is one atomic word, so a reader can see a view
// that is partly updated but never a torn pixel, and no lock is taken per
// write.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

var (
	// ErrUnknownView is returned when a view name is not registered.
	ErrUnknownView = errors.New("render: unknown view")
	// ErrDuplicateView is returned when a view name is registered twice.
	ErrDuplicateView = errors.New("render: duplicate view")
)

// MapFunc derives a view's color for a coordinate from live generation state.
// It returns false when the view has nothing to draw there yet. It must be
// safe to call from a goroutine other than the generator's.
type MapFunc func(x, y int) (color.RGBA, bool)

// Renderer receives per-cell pushes from a generator.
type Renderer interface {
	Render(x, y int)
}

// View is a named buffer plus the mapping that fills it.
type View struct {
	name  string
	fn    MapFunc
	w, h  int
	pix   []atomic.Uint32
	drawn bounds
}

func newView(name string, fn MapFunc, w, h int) *View {
	v := &View{name: name, fn: fn, w: w, h: h, pix: make([]atomic.Uint32, w*h)}
	v.drawn.reset()
	return v
}

func (v *View) render(x, y int) {
	c, ok := v.fn(x, y)
	if !ok {
		return
	}
	v.pix[y*v.w+x].Store(packRGBA(c))
	v.drawn.include(x, y)
}

func (v *View) redraw(area image.Rectangle) {
	area = area.Intersect(image.Rect(0, 0, v.w, v.h))
	for x := area.Min.X; x < area.Max.X; x++ {
		for y := area.Min.Y; y < area.Max.Y; y++ {
			v.refresh(x, y)
		}
	}
}

// refresh redraws one cell for a catch-up. A live push can land between the
// mapping and the store, so the mapping is re-read after each store until it
// stops changing; otherwise the older color would stick.
func (v *View) refresh(x, y int) {
	c, ok := v.fn(x, y)
	if !ok {
		return
	}
	v.drawn.include(x, y)
	for {
		v.pix[y*v.w+x].Store(packRGBA(c))
		next, ok := v.fn(x, y)
		if !ok || next == c {
			return
		}
		c = next
	}
}

// bounds tracks the drawn area as four atomically grown edges. Max edges are
// exclusive. Edges only ever move outwards.
type bounds struct {
	x0, y0, x1, y1 atomic.Int32
}

func (b *bounds) reset() {
	b.x0.Store(math.MaxInt32)
	b.y0.Store(math.MaxInt32)
	b.x1.Store(math.MinInt32)
	b.y1.Store(math.MinInt32)
}

func lower(edge *atomic.Int32, v int32) {
	for {
		cur := edge.Load()
		if v >= cur || edge.CompareAndSwap(cur, v) {
			return
		}
	}
}

func raise(edge *atomic.Int32, v int32) {
	for {
		cur := edge.Load()
		if v <= cur || edge.CompareAndSwap(cur, v) {
			return
		}
	}
}

func (b *bounds) include(x, y int) {
	lower(&b.x0, int32(x))
	lower(&b.y0, int32(y))
	raise(&b.x1, int32(x+1))
	raise(&b.y1, int32(y+1))
}

func (b *bounds) union(r image.Rectangle) {
	if r.Empty() {
		return
	}
	lower(&b.x0, int32(r.Min.X))
	lower(&b.y0, int32(r.Min.Y))
	raise(&b.x1, int32(r.Max.X))
	raise(&b.y1, int32(r.Max.Y))
}

func (b *bounds) rect() image.Rectangle {
	x0, y0, x1, y1 := b.x0.Load(), b.y0.Load(), b.x1.Load(), b.y1.Load()
	if x0 >= x1 || y0 >= y1 {
		return image.Rectangle{}
	}
	return image.Rect(int(x0), int(y0), int(x1), int(y1))
}

// Registry holds the named views of one generation run.
type Registry struct {
	w, h int

	mu    sync.RWMutex
	views map[string]*View
	order []string

	active  atomic.Pointer[View]
	catchUp errgroup.Group
}

// NewRegistry creates an empty registry for a w*h grid.
func NewRegistry(w, h int) *Registry {
	return &Registry{w: w, h: h, views: map[string]*View{}}
}

// Size returns the dimensions every view buffer shares.
func (r *Registry) Size() (int, int) { return r.w, r.h }

// AddView registers a view. The first view added becomes the active one.
func (r *Registry) AddView(name string, fn MapFunc) error {
	if name == "" || fn == nil {
		return fmt.Errorf("render: view needs a name and a mapping function")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.views[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateView, name)
	}
	v := newView(name, fn, r.w, r.h)
	r.views[name] = v
	r.order = append(r.order, name)
	r.active.CompareAndSwap(nil, v)
	return nil
}

// Names lists the views in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Active returns the name of the view receiving live pushes.
func (r *Registry) Active() string {
	if v := r.active.Load(); v != nil {
		return v.name
	}
	return ""
}

func (r *Registry) lookup(name string) (*View, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.views[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownView, name)
	}
	return v, nil
}

// Render pushes the coordinate into the active view.
func (r *Registry) Render(x, y int) {
	if v := r.active.Load(); v != nil {
		v.render(x, y)
	}
}

// Activate makes name the live view. The area drawn into the previously active
// view is recomputed into the new view on a background goroutine so the
// generator is never held up; use Wait to block until the redraw finishes.
func (r *Registry) Activate(name string) error {
	next, err := r.lookup(name)
	if err != nil {
		return err
	}
	prev := r.active.Swap(next)
	if prev == nil || prev == next {
		return nil
	}
	area := prev.drawn.rect()
	if area.Empty() {
		return nil
	}
	next.drawn.union(area)
	r.catchUp.Go(func() error {
		next.redraw(area)
		return nil
	})
	return nil
}

// Wait blocks until all scheduled catch-up redraws have completed.
func (r *Registry) Wait() error {
	return r.catchUp.Wait()
}

// DrawnArea returns the bounding rectangle of every pixel written to name.
func (r *Registry) DrawnArea(name string) (image.Rectangle, error) {
	v, err := r.lookup(name)
	if err != nil {
		return image.Rectangle{}, err
	}
	return v.drawn.rect(), nil
}

// Snapshot copies the current contents of a view. Pixels never written are
// transparent black.
func (r *Registry) Snapshot(name string) (*image.RGBA, error) {
	v, err := r.lookup(name)
	if err != nil {
		return nil, err
	}
	img := image.NewRGBA(image.Rect(0, 0, v.w, v.h))
	fillRGBA(img.Pix, v.pix)
	return img, nil
}

// Pixels writes a view's RGBA8 bytes into dst, which must hold 4*w*h bytes.
func (r *Registry) Pixels(name string, dst []byte) error {
	v, err := r.lookup(name)
	if err != nil {
		return err
	}
	if len(dst) != 4*len(v.pix) {
		return fmt.Errorf("render: pixel buffer holds %d bytes, need %d", len(dst), 4*len(v.pix))
	}
	fillRGBA(dst, v.pix)
	return nil
}
