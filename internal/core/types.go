package core

import "sort"

// Size describes the dimensions of a generation grid.
type Size struct {
	W int
	H int
}

// Cells returns the number of grid cells.
func (s Size) Cells() int { return s.W * s.H }

// Algorithm is the minimal contract an image generating algorithm implements.
type Algorithm interface {
	Name() string
	Size() Size
	// Generate runs the algorithm to completion on the calling goroutine.
	Generate() error
	Done() bool
	ProgressString() string
}

// Factory constructs an Algorithm from flag-style key/value pairs.
type Factory func(cfg map[string]string) (Algorithm, error)

var algorithms = map[string]Factory{}

// Register adds an algorithm factory under the provided name.
func Register(name string, f Factory) {
	if name == "" || f == nil {
		return
	}
	algorithms[name] = f
}

// Algorithms exposes the registry of available algorithm factories.
func Algorithms() map[string]Factory {
	return algorithms
}

// AlgorithmNames lists registered algorithms in lexical order.
func AlgorithmNames() []string {
	names := make([]string, 0, len(algorithms))
	for name := range algorithms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
