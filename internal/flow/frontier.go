package flow

import (
	"image"
	"sync/atomic"

	"flowgen/internal/core"
	"flowgen/pkg/rng"
)

// membership answers whether a coordinate belongs to a set.
type membership interface {
	Contains(x, y int) bool
}

// Frontier is the set of cells eligible to settle next. It never holds a
// settled cell and ignores repeated insertions.
//
// The live cells are kept in a slice for uniform random picks; slot maps each
// member back to its slice index so removal is a constant-time swap. Contains
// and Len are safe to call from observer goroutines.
type Frontier struct {
	present *core.BitRegistry
	settled membership
	cells   []image.Point
	slot    []int32
	size    atomic.Int64
}

// NewFrontier creates an empty frontier over a w*h grid that rejects cells
// already present in settled.
func NewFrontier(w, h int, settled membership) *Frontier {
	present := core.NewBitRegistry(w, h)
	return &Frontier{
		present: present,
		settled: settled,
		cells:   make([]image.Point, 0, 2*(present.W+present.H)),
		slot:    make([]int32, present.W*present.H),
	}
}

// Insert adds (x, y) unless it is already a member or already settled. It
// reports whether the cell was added.
func (f *Frontier) Insert(x, y int) bool {
	if f.present.Contains(x, y) || (f.settled != nil && f.settled.Contains(x, y)) {
		return false
	}
	f.slot[f.present.ID(x, y)] = int32(len(f.cells))
	f.cells = append(f.cells, image.Point{X: x, Y: y})
	f.present.Set(x, y)
	f.size.Store(int64(len(f.cells)))
	return true
}

// PickRandom returns a uniformly chosen member without removing it.
func (f *Frontier) PickRandom(src rng.Source) (image.Point, bool) {
	if len(f.cells) == 0 {
		return image.Point{}, false
	}
	return f.cells[src.IntN(len(f.cells))], true
}

// Remove deletes p and reports whether it was a member.
func (f *Frontier) Remove(p image.Point) bool {
	if !f.present.Contains(p.X, p.Y) {
		return false
	}
	i := f.slot[f.present.ID(p.X, p.Y)]
	last := len(f.cells) - 1
	moved := f.cells[last]
	f.cells[i] = moved
	f.slot[f.present.ID(moved.X, moved.Y)] = i
	f.cells = f.cells[:last]
	f.present.Clear(p.X, p.Y)
	f.size.Store(int64(len(f.cells)))
	return true
}

// Contains reports whether (x, y) is a member.
func (f *Frontier) Contains(x, y int) bool { return f.present.Contains(x, y) }

// Len returns the number of members.
func (f *Frontier) Len() int { return int(f.size.Load()) }

// IsEmpty reports whether the frontier has no members.
func (f *Frontier) IsEmpty() bool { return f.Len() == 0 }
