package flow

import (
	"errors"
	"fmt"
	"image"
	"strings"
)

var (
	// ErrInvalidConfig is wrapped by every *ConfigError.
	ErrInvalidConfig = errors.New("flow: invalid configuration")
	// ErrInvariant is wrapped by every *InvariantError.
	ErrInvariant = errors.New("flow: invariant violated")
	// ErrAlreadyStarted is returned when Generate is called more than once.
	ErrAlreadyStarted = errors.New("flow: generation already started")
)

// ConfigError lists the problems found while validating a Config. No work is
// done for a configuration that fails validation.
type ConfigError struct {
	Problems []string
}

func (e *ConfigError) Error() string {
	return ErrInvalidConfig.Error() + ": " + strings.Join(e.Problems, "; ")
}

func (e *ConfigError) Unwrap() error { return ErrInvalidConfig }

// InvariantError reports a logic defect detected mid-run. The run halts and
// the error carries the state needed to diagnose it.
type InvariantError struct {
	Op       string
	Point    image.Point
	Occupied int
	Total    int
	Detail   string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%s during %s at (%d,%d): %s [occupied %d/%d]",
		ErrInvariant, e.Op, e.Point.X, e.Point.Y, e.Detail, e.Occupied, e.Total)
}

func (e *InvariantError) Unwrap() error { return ErrInvariant }
