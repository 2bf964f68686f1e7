package core

import (
	"slices"
	"testing"
)

type stubAlgorithm struct{ name string }

func (s stubAlgorithm) Name() string           { return s.name }
func (s stubAlgorithm) Size() Size             { return Size{W: 2, H: 3} }
func (s stubAlgorithm) Generate() error        { return nil }
func (s stubAlgorithm) Done() bool             { return true }
func (s stubAlgorithm) ProgressString() string { return "Done." }

func TestRegisterAndList(t *testing.T) {
	saved := algorithms
	algorithms = map[string]Factory{}
	defer func() { algorithms = saved }()

	Register("zeta", func(map[string]string) (Algorithm, error) { return stubAlgorithm{"zeta"}, nil })
	Register("alpha", func(map[string]string) (Algorithm, error) { return stubAlgorithm{"alpha"}, nil })
	Register("", func(map[string]string) (Algorithm, error) { return nil, nil })
	Register("nil", nil)

	if got := AlgorithmNames(); !slices.Equal(got, []string{"alpha", "zeta"}) {
		t.Fatalf("AlgorithmNames() = %v", got)
	}
	alg, err := Algorithms()["zeta"](nil)
	if err != nil || alg.Name() != "zeta" {
		t.Fatalf("factory returned %v, %v", alg, err)
	}
	if alg.Size().Cells() != 6 {
		t.Fatalf("Cells() = %d", alg.Size().Cells())
	}
}
