package render

import (
	"image/color"
	"sync/atomic"
)

// Pixels are packed as R<<24 | G<<16 | B<<8 | A so a single atomic word
// holds a whole pixel. Zero is transparent black, the unwritten background.

func packRGBA(c color.RGBA) uint32 {
	return uint32(c.R)<<24 | uint32(c.G)<<16 | uint32(c.B)<<8 | uint32(c.A)
}

// fillRGBA converts packed pixels into RGBA8 bytes in buf. The pixel buffer
// is indexed row-major (y*w+x) to match image.RGBA.Pix.
func fillRGBA(buf []byte, pix []atomic.Uint32) {
	for i := range pix {
		v := pix[i].Load()
		base := i * 4
		buf[base+0] = uint8(v >> 24)
		buf[base+1] = uint8(v >> 16)
		buf[base+2] = uint8(v >> 8)
		buf[base+3] = uint8(v)
	}
}
