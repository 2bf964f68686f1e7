package flow

import (
	"image/color"
	"math"

	"flowgen/pkg/rng"
)

// Diffuse derives a cell color from its settled neighbors. With no neighbors
// every channel is drawn uniformly from [0,255]. Otherwise each channel is the
// neighbor mean plus uniform jitter in [-randomness, +randomness], clamped and
// rounded.
//
// Channels are drawn in R, G, B order and one Float64 is consumed per channel
// even when randomness is zero, so a fixed source always yields the same image.
func Diffuse(neighbors []color.RGBA, randomness float64, src rng.Source) color.RGBA {
	if len(neighbors) == 0 {
		r := uint8(src.IntN(256))
		g := uint8(src.IntN(256))
		b := uint8(src.IntN(256))
		return color.RGBA{R: r, G: g, B: b, A: 255}
	}
	var sr, sg, sb float64
	for _, c := range neighbors {
		sr += float64(c.R)
		sg += float64(c.G)
		sb += float64(c.B)
	}
	n := float64(len(neighbors))
	r := mixChannel(sr/n, randomness, src)
	g := mixChannel(sg/n, randomness, src)
	b := mixChannel(sb/n, randomness, src)
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

func mixChannel(mean, randomness float64, src rng.Source) uint8 {
	v := mean + src.Float64()*2*randomness - randomness
	return uint8(math.Round(math.Min(math.Max(v, 0), 255)))
}
