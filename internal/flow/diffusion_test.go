package flow

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiffuseWithoutNeighborsDrawsEachChannel(t *testing.T) {
	src := newScripted([]int{12, 200, 255}, nil)
	c := Diffuse(nil, 10, src)
	assert.Equal(t, color.RGBA{R: 12, G: 200, B: 255, A: 255}, c)
	assert.Equal(t, 3, src.intCalls)
	assert.Zero(t, src.fltCalls)
}

func TestDiffuseAveragesAndJitters(t *testing.T) {
	neighbors := []color.RGBA{{R: 90, G: 250, B: 0}, {R: 110, G: 250, B: 6}}
	src := newScripted(nil, []float64{0.75, 0.999, 0})
	c := Diffuse(neighbors, 10, src)
	// R: 100 + 15 - 10, G clamps high, B: 3 - 10 clamps low.
	assert.Equal(t, color.RGBA{R: 105, G: 255, B: 0, A: 255}, c)
}

func TestDiffuseRoundsHalfAway(t *testing.T) {
	neighbors := []color.RGBA{{R: 1, G: 2, B: 3}, {R: 2, G: 3, B: 3}}
	src := newScripted(nil, []float64{0.5, 0.5, 0.5})
	c := Diffuse(neighbors, 0, src)
	assert.Equal(t, color.RGBA{R: 2, G: 3, B: 3, A: 255}, c)
	assert.Equal(t, 3, src.fltCalls, "one draw per channel even without jitter")
}

func TestDiffuseStaysInRange(t *testing.T) {
	src := newScripted(nil, nil)
	for _, base := range []uint8{0, 1, 128, 254, 255} {
		n := []color.RGBA{{R: base, G: base, B: base}}
		for i := 0; i < 200; i++ {
			c := Diffuse(n, MaxRandomness, src)
			assert.InDelta(t, float64(base), float64(c.R), MaxRandomness+0.5)
			assert.Equal(t, uint8(255), c.A)
		}
	}
}
