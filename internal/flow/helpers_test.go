package flow

import (
	"io"
	"log/slog"
	"testing"

	"flowgen/pkg/rng"
)

// scriptedSource replays fixed draws before falling back to a seeded RNG.
type scriptedSource struct {
	ints     []int
	floats   []float64
	intCalls int
	fltCalls int
	fallback *rng.RNG
}

func newScripted(ints []int, floats []float64) *scriptedSource {
	return &scriptedSource{ints: ints, floats: floats, fallback: rng.New(1)}
}

func (s *scriptedSource) IntN(n int) int {
	s.intCalls++
	if len(s.ints) > 0 {
		v := s.ints[0]
		s.ints = s.ints[1:]
		return v % n
	}
	return s.fallback.IntN(n)
}

func (s *scriptedSource) Float64() float64 {
	s.fltCalls++
	if len(s.floats) > 0 {
		v := s.floats[0]
		s.floats = s.floats[1:]
		return v
	}
	return s.fallback.Float64()
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mustNew(t *testing.T, cfg Config, opts ...Option) *Generator {
	t.Helper()
	g, err := New(cfg, append([]Option{WithLogger(quietLogger())}, opts...)...)
	if err != nil {
		t.Fatalf("New(%+v): %v", cfg, err)
	}
	return g
}
