// Package telemetry exposes generation progress as Prometheus metrics.
package telemetry

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"flowgen/internal/core"
)

// Run is the read-only surface of a generator that metrics are sampled from.
type Run interface {
	Size() core.Size
	SettledCount() int
	FrontierSize() int
	Fraction() float64
}

// Metrics owns a private registry so several instances can coexist in tests.
type Metrics struct {
	reg     *prometheus.Registry
	current atomic.Pointer[Run]

	settled  prometheus.GaugeFunc
	total    prometheus.GaugeFunc
	frontier prometheus.GaugeFunc
	ratio    prometheus.GaugeFunc
	duration prometheus.Histogram
	runs     *prometheus.CounterVec
}

// New registers the flow metrics and the Go runtime collectors.
func New() *Metrics {
	m := &Metrics{reg: prometheus.NewRegistry()}
	m.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(m.reg)

	m.settled = f.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "flow_settled_cells",
		Help: "Cells settled in the tracked run",
	}, m.sample(func(r Run) float64 { return float64(r.SettledCount()) }))
	m.total = f.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "flow_total_cells",
		Help: "Cells in the tracked run's grid",
	}, m.sample(func(r Run) float64 { return float64(r.Size().Cells()) }))
	m.frontier = f.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "flow_frontier_cells",
		Help: "Cells waiting to settle in the tracked run",
	}, m.sample(func(r Run) float64 { return float64(r.FrontierSize()) }))
	m.ratio = f.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "flow_completion_ratio",
		Help: "Settled share of the grid, 0 to 1",
	}, m.sample(func(r Run) float64 { return r.Fraction() }))
	m.duration = f.NewHistogram(prometheus.HistogramOpts{
		Name:    "flow_run_duration_seconds",
		Help:    "Wall time of completed generation runs",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 14), // 10ms to ~80s
	})
	m.runs = f.NewCounterVec(prometheus.CounterOpts{
		Name: "flow_runs_total",
		Help: "Generation runs by result",
	}, []string{"result"})
	return m
}

func (m *Metrics) sample(fn func(Run) float64) func() float64 {
	return func() float64 {
		r := m.current.Load()
		if r == nil {
			return 0
		}
		return fn(*r)
	}
}

// Track points the gauges at r.
func (m *Metrics) Track(r Run) { m.current.Store(&r) }

// ObserveRun records the outcome of a finished run.
func (m *Metrics) ObserveRun(d time.Duration, err error) {
	if err != nil {
		m.runs.WithLabelValues("error").Inc()
		return
	}
	m.runs.WithLabelValues("ok").Inc()
	m.duration.Observe(d.Seconds())
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (m *Metrics) Serve(ctx context.Context, addr string, log *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	log.Info("metrics listening", slog.String("addr", addr))

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
