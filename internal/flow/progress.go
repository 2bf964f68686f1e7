package flow

import (
	"fmt"
	"strconv"
)

// Progress is a point-in-time view of how much of the grid has settled.
type Progress struct {
	Settled int
	Total   int
	// Percent is the completion percentage formatted as "000.00".
	Percent string
}

// Progress derives the completion state from the settled grid.
func (g *Generator) Progress() Progress {
	settled, total := g.settled.Occupied(), g.size.Cells()
	return Progress{
		Settled: settled,
		Total:   total,
		Percent: fmt.Sprintf("%06.2f", float64(settled)/float64(total)*100),
	}
}

// Fraction returns the settled share of the grid in [0, 1].
func (g *Generator) Fraction() float64 {
	return float64(g.settled.Occupied()) / float64(g.size.Cells())
}

// ProgressString returns "Done." once finished, otherwise a fixed-width
// "Processed n / total pixels... (pct%)" line.
func (g *Generator) ProgressString() string {
	if g.Done() {
		return "Done."
	}
	p := g.Progress()
	digits := len(strconv.Itoa(p.Total))
	return fmt.Sprintf("Processed %0*d / %0*d pixels... (%s%%)", digits, p.Settled, digits, p.Total, p.Percent)
}
