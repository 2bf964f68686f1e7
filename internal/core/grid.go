package core

import "sync/atomic"

// BitRegistry is a fixed-universe presence index over grid coordinates. Each
// coordinate maps to one bit of a 64-slot word, addressed by the column-major
// id x*H+y.
//
// Words are updated atomically, so one writer may run alongside any number of
// readers. Concurrent writers to the same registry are not supported.
type BitRegistry struct {
	W, H  int
	words []atomic.Uint64
}

// NewBitRegistry allocates a registry covering a w*h grid.
func NewBitRegistry(w, h int) *BitRegistry {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return &BitRegistry{W: w, H: h, words: make([]atomic.Uint64, (w*h+63)>>6)}
}

// InBounds reports whether (x, y) lies inside the registry's grid. The other
// methods do not check; out-of-range coordinates panic.
func (b *BitRegistry) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < b.W && y < b.H
}

// ID linearizes a coordinate the same way the registry addresses bits.
func (b *BitRegistry) ID(x, y int) int { return x*b.H + y }

// Contains reports whether the bit for (x, y) is set.
func (b *BitRegistry) Contains(x, y int) bool {
	id := x*b.H + y
	return b.words[id>>6].Load()&(1<<uint(id&63)) != 0
}

// Set marks (x, y) as present.
func (b *BitRegistry) Set(x, y int) {
	id := x*b.H + y
	b.words[id>>6].Or(1 << uint(id&63))
}

// Clear marks (x, y) as absent.
func (b *BitRegistry) Clear(x, y int) {
	id := x*b.H + y
	b.words[id>>6].And(^(uint64(1) << uint(id&63)))
}

// Reset clears every bit.
func (b *BitRegistry) Reset() {
	for i := range b.words {
		b.words[i].Store(0)
	}
}
