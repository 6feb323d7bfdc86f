package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/san-kum/randplay/internal/config"
	"github.com/san-kum/randplay/internal/driver"
	"github.com/san-kum/randplay/internal/envs"
	"github.com/san-kum/randplay/internal/logging"
	"github.com/san-kum/randplay/internal/metrics"
	"github.com/san-kum/randplay/internal/progress"
	"github.com/san-kum/randplay/internal/render"
	"github.com/san-kum/randplay/internal/storage"
	"github.com/san-kum/randplay/internal/tui"
)

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	logger, err := logging.New(logging.Options{Level: cfg.Log.Level, File: cfg.Log.File})
	if err != nil {
		return err
	}
	defer logger.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	opts := envs.Options{
		MaxEpisodeSteps: cfg.MaxEpisodeSteps,
		Integrator:      cfg.Integrator,
		ActionSeed:      actionSeedFlag(cmd),
	}
	if cfg.Render == config.RenderASCII {
		// pacing below already holds fps, so the terminal paints every frame
		term := render.NewTerminal(os.Stdout, 0)
		term.Start()
		defer term.Stop()
		opts.Renderer = render.New(render.NewPaced(term, cfg.FPS))
	}

	env, err := registry.Make(cfg.Env, opts)
	if err != nil {
		return err
	}

	rec := metrics.NewRecorder(metrics.DefaultMetrics()...)
	bar := progress.NewBar(os.Stderr, cfg.Steps)
	d := driver.New(env,
		driver.WithLogger(logger.Logger),
		driver.WithObserver(rec),
		driver.WithObserver(bar),
	)

	logger.Info("play started", "env", cfg.Env, "steps", cfg.Steps, "seeded", cfg.Seed != nil)
	start := time.Now()
	err = d.Run(ctx, cfg.Steps, cfg.Seed)
	bar.Finish()
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	interrupted := len(rec.Records()) < cfg.Steps
	if interrupted {
		logger.Info("play interrupted", "steps", len(rec.Records()), "budget", cfg.Steps, "cause", context.Cause(ctx))
		fmt.Printf("interrupted after %d/%d steps\n", len(rec.Records()), cfg.Steps)
	}
	fmt.Printf("completed in %v\n", elapsed.Round(time.Millisecond))
	printSummary(rec.Summary())

	if noSave {
		return nil
	}
	return saveRun(logger, cfg, rec, interrupted, elapsed)
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	// Terminal logging would fight the live view; only the log file is kept.
	logger, err := logging.New(logging.Options{Level: cfg.Log.Level, File: cfg.Log.File, Writer: io.Discard})
	if err != nil {
		return err
	}
	defer logger.Close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	if cfg.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	m := tui.NewModel(cfg.Env, cfg.Steps, cancel)
	p := tea.NewProgram(m, tea.WithAltScreen())

	env, err := registry.Make(cfg.Env, envs.Options{
		MaxEpisodeSteps: cfg.MaxEpisodeSteps,
		Integrator:      cfg.Integrator,
		ActionSeed:      actionSeedFlag(cmd),
		Renderer:        render.New(render.NewPaced(tui.Sink(p), cfg.FPS)),
	})
	if err != nil {
		return err
	}

	rec := metrics.NewRecorder(metrics.DefaultMetrics()...)
	d := driver.New(env,
		driver.WithLogger(logger.Logger),
		driver.WithObserver(rec),
		driver.WithObserver(tui.Observer(p)),
	)

	start := time.Now()
	runErr := make(chan error, 1)
	go func() {
		err := d.Run(ctx, cfg.Steps, cfg.Seed)
		runErr <- err
		p.Send(tui.DoneMsg{Err: err})
	}()

	_, uiErr := p.Run()
	cancel()
	if err := <-runErr; err != nil {
		return err
	}
	if uiErr != nil {
		return uiErr
	}
	elapsed := time.Since(start)

	interrupted := len(rec.Records()) < cfg.Steps
	printSummary(rec.Summary())

	if noSave {
		return nil
	}
	return saveRun(logger, cfg, rec, interrupted, elapsed)
}

func saveRun(logger *logging.Logger, cfg *config.Config, rec *metrics.Recorder, interrupted bool, elapsed time.Duration) error {
	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return err
	}

	runID, err := st.Save(storage.RunMetadata{
		Env:             cfg.Env,
		Seed:            cfg.Seed,
		Steps:           cfg.Steps,
		MaxEpisodeSteps: cfg.MaxEpisodeSteps,
		Integrator:      cfg.Integrator,
		Interrupted:     interrupted,
		Elapsed:         elapsed,
		Metrics:         rec.Summary(),
	}, rec.Records())
	if err != nil {
		return err
	}

	logger.Info("run saved", "run_id", runID, "dir", cfg.DataDir)
	fmt.Printf("run id: %s\n", runID)
	return nil
}

func printSummary(summary map[string]float64) {
	names := make([]string, 0, len(summary))
	for name := range summary {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, summary[name])
	}
}
