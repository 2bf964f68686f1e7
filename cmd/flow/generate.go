package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"flowgen/internal/app"
	"flowgen/internal/core"
	"flowgen/internal/export"
	"flowgen/internal/progress"
	"flowgen/internal/telemetry"
)

func newGenerateCmd() *cobra.Command {
	cfg := app.NewConfig()
	var configPath string
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Run a generator to completion and export the result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if configPath != "" {
				if err := cfg.ApplyFile(configPath, cmd.Flags()); err != nil {
					return err
				}
			}
			return runGenerate(cmd.Context(), cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	cfg.Bind(cmd.Flags())
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML file with default settings")
	return cmd
}

func newLogger(cfg *app.Config, w io.Writer) (*slog.Logger, error) {
	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}

func buildAlgorithm(name string, params map[string]string) (core.Algorithm, error) {
	factory, ok := core.Algorithms()[name]
	if !ok {
		return nil, fmt.Errorf("unknown algorithm %q (available: %v)", name, core.AlgorithmNames())
	}
	return factory(params)
}

func runGenerate(ctx context.Context, cfg *app.Config, stdout, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger, err := newLogger(cfg, stderr)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	format, err := export.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}
	alg, err := buildAlgorithm(cfg.Algorithm, cfg.Params())
	if err != nil {
		return err
	}
	if p, ok := alg.(core.ParameterProvider); ok {
		logger.Debug("algorithm configured", slog.String("algorithm", alg.Name()), slog.Any("params", p.Parameters()))
	}

	metrics := telemetry.New()
	if run, ok := alg.(telemetry.Run); ok {
		metrics.Track(run)
	}

	g, gctx := errgroup.WithContext(ctx)
	runCtx, stop := context.WithCancel(gctx)
	defer stop()

	g.Go(func() error {
		defer stop()
		start := time.Now()
		err := alg.Generate()
		metrics.ObserveRun(time.Since(start), err)
		return err
	})
	if r, ok := alg.(progress.Reporter); ok {
		printer := progress.NewPrinter(stdout, progress.WithInterval(cfg.ProgressInterval))
		g.Go(func() error { return printer.Run(runCtx, r) })
	}
	if cfg.MetricsAddr != "" {
		g.Go(func() error { return metrics.Serve(runCtx, cfg.MetricsAddr, logger) })
	}

	if cfg.GUI {
		if v, ok := alg.(app.Viewable); ok {
			// The window must own the main goroutine.
			if err := app.Run(v, cfg); errors.Is(err, app.ErrNoGUI) {
				logger.Warn("preview unavailable, continuing headless", slog.Any("error", err))
			} else if err != nil {
				logger.Error("preview window failed", slog.Any("error", err))
			}
		}
	}

	if err := g.Wait(); err != nil {
		return err
	}
	if cfg.Out == "" {
		return nil
	}
	return exportResult(alg, cfg, format, logger)
}

func exportResult(alg core.Algorithm, cfg *app.Config, format export.Format, logger *slog.Logger) error {
	v, ok := alg.(app.Viewable)
	if !ok {
		return fmt.Errorf("algorithm %q has no views to export", alg.Name())
	}
	views := v.Views()
	if views.Active() != cfg.View {
		if err := views.Activate(cfg.View); err != nil {
			return err
		}
	}
	if err := views.Wait(); err != nil {
		return err
	}
	img, err := views.Snapshot(cfg.View)
	if err != nil {
		return err
	}
	path, err := export.WriteFile(cfg.Out, img, format, cfg.Scale)
	if err != nil {
		return err
	}
	logger.Info("image written", slog.String("path", path), slog.String("view", cfg.View))
	return nil
}
