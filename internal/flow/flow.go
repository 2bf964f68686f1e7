// Package flow implements the FLOW image generator: a region grows outward
// from random seed cells, and every newly settled cell takes the average color
// of its settled neighbors plus a little jitter, giving marbled color fields.
package flow

import (
	"image"
	"image/color"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"flowgen/internal/core"
	"flowgen/internal/render"
	"flowgen/pkg/rng"
)

// State is the generator's lifecycle stage.
type State int32

const (
	StateIdle State = iota
	StateInitializing
	StateRunning
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInitializing:
		return "initializing"
	case StateRunning:
		return "running"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Step describes one settlement. Neighbors holds the neighbor colors the cell
// was diffused from, empty for seeds, and is only valid during the callback.
type Step struct {
	Point     image.Point
	Color     color.RGBA
	Neighbors []color.RGBA
	Occupied  int
}

// Option customizes a Generator.
type Option func(*Generator)

// WithSource replaces the seeded random source.
func WithSource(src rng.Source) Option {
	return func(g *Generator) { g.src = src }
}

// WithLogger sets the logger used for run start and finish records.
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.log = l
		}
	}
}

// WithRenderer adds a pixel sink that receives every push alongside the
// generator's own view registry.
func WithRenderer(r render.Renderer) Option {
	return func(g *Generator) {
		if r != nil {
			g.sinks = append(g.sinks, r)
		}
	}
}

// WithObserver registers a callback invoked on the generator goroutine after
// every settlement.
func WithObserver(fn func(Step)) Option {
	return func(g *Generator) { g.observe = fn }
}

// Generator owns one FLOW run. Generate must be called from a single
// goroutine; every other method is safe to call concurrently with it.
type Generator struct {
	cfg   Config
	seed  int64
	size  core.Size
	runID string

	settled  *SettledGrid
	frontier *Frontier
	// seeds holds the colors drawn for seed cells until they settle.
	seeds map[image.Point]color.RGBA
	views    *render.Registry
	sinks    []render.Renderer

	src     rng.Source
	log     *slog.Logger
	observe func(Step)

	state      atomic.Int32
	iterations atomic.Int64
	elapsed    atomic.Int64
}

// New validates cfg and builds an idle generator.
func New(cfg Config, opts ...Option) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g := &Generator{
		cfg:   cfg,
		seed:  seed,
		size:  core.Size{W: cfg.Width, H: cfg.Height},
		runID: uuid.NewString(),
		src:   rng.New(seed),
		log:   slog.Default(),
		views: render.NewRegistry(cfg.Width, cfg.Height),
	}
	g.settled = NewSettledGrid(cfg.Width, cfg.Height)
	g.frontier = NewFrontier(cfg.Width, cfg.Height, g.settled)
	if err := g.registerViews(); err != nil {
		return nil, err
	}
	g.sinks = append(g.sinks, g.views)
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Name returns the algorithm identifier.
func (g *Generator) Name() string { return "flow" }

// Size reports the grid dimensions.
func (g *Generator) Size() core.Size { return g.size }

// Seed returns the effective random seed.
func (g *Generator) Seed() int64 { return g.seed }

// RunID identifies this run in logs and metrics.
func (g *Generator) RunID() string { return g.runID }

// State returns the current lifecycle stage.
func (g *Generator) State() State { return State(g.state.Load()) }

// Done reports whether the run completed.
func (g *Generator) Done() bool { return g.State() == StateDone }

// Views exposes the render views fed by this run.
func (g *Generator) Views() *render.Registry { return g.views }

// Settled exposes the settled grid for read-only inspection.
func (g *Generator) Settled() *SettledGrid { return g.settled }

// Frontier exposes the frontier for read-only inspection.
func (g *Generator) Frontier() *Frontier { return g.frontier }

// SettledCount returns how many cells have settled so far.
func (g *Generator) SettledCount() int { return g.settled.Occupied() }

// FrontierSize returns how many cells are waiting to settle.
func (g *Generator) FrontierSize() int { return g.frontier.Len() }

// Iterations returns how many cells the main loop has settled.
func (g *Generator) Iterations() int { return int(g.iterations.Load()) }

// Elapsed returns the duration of a finished run.
func (g *Generator) Elapsed() time.Duration { return time.Duration(g.elapsed.Load()) }

// Generate seeds the frontier and settles cells until none remain. It blocks
// until the grid is full or an invariant fails.
func (g *Generator) Generate() error {
	if !g.state.CompareAndSwap(int32(StateIdle), int32(StateInitializing)) {
		return ErrAlreadyStarted
	}
	start := time.Now()
	g.log.Info("generation started",
		slog.String("run_id", g.runID),
		slog.Int("width", g.size.W),
		slog.Int("height", g.size.H),
		slog.Int("points", g.cfg.Points),
		slog.Float64("randomness", g.cfg.Randomness),
		slog.Int64("seed", g.seed),
	)

	g.seedFrontier()
	g.state.Store(int32(StateRunning))

	if err := g.run(); err != nil {
		g.state.Store(int32(StateFailed))
		g.log.Error("generation halted", slog.String("run_id", g.runID), slog.Any("error", err))
		return err
	}

	g.elapsed.Store(int64(time.Since(start)))
	g.state.Store(int32(StateDone))
	g.log.Info("generation finished",
		slog.String("run_id", g.runID),
		slog.Int("cells", g.settled.Occupied()),
		slog.Duration("duration", g.Elapsed()),
	)
	return nil
}

func (g *Generator) seedFrontier() {
	g.seeds = make(map[image.Point]color.RGBA, g.cfg.Points)
	for _, p := range g.cfg.Seeds {
		g.plant(p)
	}
	for g.frontier.Len() < g.cfg.Points {
		g.plant(image.Pt(g.src.IntN(g.size.W), g.src.IntN(g.size.H)))
	}
}

// plant inserts a seed and draws its color at insert time. The color is used
// when the seed settles, whatever its neighbors are by then.
func (g *Generator) plant(p image.Point) {
	if !g.frontier.Insert(p.X, p.Y) {
		return
	}
	g.seeds[p] = Diffuse(nil, g.cfg.Randomness, g.src)
	g.push(p.X, p.Y)
}

func (g *Generator) run() error {
	neighbors := make([]color.RGBA, 0, len(neighborOffsets))
	for {
		p, ok := g.frontier.PickRandom(g.src)
		if !ok {
			break
		}
		c, seeded := g.seeds[p]
		if seeded {
			delete(g.seeds, p)
			neighbors = neighbors[:0]
		} else {
			neighbors = g.settled.NeighborColors(p.X, p.Y, neighbors)
			c = Diffuse(neighbors, g.cfg.Randomness, g.src)
		}
		if !g.settled.Store(p, c) {
			return g.invariant("settle", p, "coordinate already settled")
		}
		if !g.frontier.Remove(p) {
			return g.invariant("settle", p, "coordinate missing from frontier")
		}
		g.iterations.Add(1)
		g.push(p.X, p.Y)
		if g.observe != nil {
			g.observe(Step{Point: p, Color: c, Neighbors: neighbors, Occupied: g.settled.Occupied()})
		}
		g.expand(p)
	}
	if occupied := g.settled.Occupied(); occupied != g.size.Cells() {
		return g.invariant("drain", image.Point{}, "frontier emptied before the grid filled")
	}
	return nil
}

func (g *Generator) expand(p image.Point) {
	for _, d := range neighborOffsets {
		nx, ny := p.X+d.X, p.Y+d.Y
		if !g.settled.InBounds(nx, ny) {
			continue
		}
		if g.frontier.Insert(nx, ny) {
			g.push(nx, ny)
		}
	}
}

func (g *Generator) push(x, y int) {
	for _, s := range g.sinks {
		s.Render(x, y)
	}
}

func (g *Generator) invariant(op string, p image.Point, detail string) error {
	return &InvariantError{
		Op:       op,
		Point:    p,
		Occupied: g.settled.Occupied(),
		Total:    g.size.Cells(),
		Detail:   detail,
	}
}

// Parameters describes the run configuration.
func (g *Generator) Parameters() core.ParameterSnapshot {
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{
			Name: "Image",
			Params: []core.Parameter{
				core.IntParam("w", "Width", g.size.W),
				core.IntParam("h", "Height", g.size.H),
			},
		},
		{
			Name: "Growth",
			Params: []core.Parameter{
				core.IntParam("points", "Starting points", g.cfg.Points),
				core.FloatParam("randomness", "Randomness per pixel", g.cfg.Randomness),
				core.Int64Param("seed", "Seed", g.seed),
			},
		},
	}}
}

func init() {
	core.Register("flow", func(cfg map[string]string) (core.Algorithm, error) {
		c, err := FromMap(cfg)
		if err != nil {
			return nil, err
		}
		return New(c)
	})
}
