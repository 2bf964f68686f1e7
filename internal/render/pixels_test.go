package render

import (
	"image/color"
	"sync/atomic"
	"testing"
)

func TestPackAndFill(t *testing.T) {
	pix := make([]atomic.Uint32, 2)
	pix[1].Store(packRGBA(color.RGBA{R: 0xde, G: 0xad, B: 0xbe, A: 0xef}))
	buf := make([]byte, 8)
	fillRGBA(buf, pix)
	want := []byte{0, 0, 0, 0, 0xde, 0xad, 0xbe, 0xef}
	for i := range want {
		if buf[i] != want[i] {
			t.Fatalf("buf = %x, want %x", buf, want)
		}
	}
}
