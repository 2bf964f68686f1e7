package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowgen/internal/flow"
)

func TestLinesForGenerator(t *testing.T) {
	g, err := flow.New(flow.Config{Width: 4, Height: 2, Points: 1, Randomness: 1, Seed: 3})
	require.NoError(t, err)
	require.NoError(t, g.Views().Activate(flow.ViewState))

	assert.Equal(t, []string{
		"flow",
		"Processed 0 / 8 pixels... (000.00%)",
		"",
		"Views",
		"  1 color",
		"> 2 state",
		"",
		"Image",
		"  Width: 4",
		"  Height: 2",
		"Growth",
		"  Starting points: 1",
		"  Randomness per pixel: 1",
		"  Seed: 3",
		"",
		"Tab/1-9 view  H hud  Q quit",
	}, Lines(g))
}
