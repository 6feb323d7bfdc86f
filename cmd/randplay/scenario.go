package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/randplay/internal/logging"
	"github.com/san-kum/randplay/internal/scenario"
	"github.com/san-kum/randplay/internal/storage"
)

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := scenario.LoadScenario(args[0])
	if err != nil {
		return fmt.Errorf("failed to load scenario: %w", err)
	}
	if sc.Name != "" {
		fmt.Printf("scenario: %s\n", sc.Name)
	}
	if sc.Description != "" {
		fmt.Printf("%s\n", sc.Description)
	}
	return playScenario(cmd, sc)
}

func runSweep(cmd *cobra.Command, args []string) error {
	if _, ok := registry.Get(args[0]); !ok {
		return fmt.Errorf("unknown environment: %s", args[0])
	}
	if trials <= 0 {
		return fmt.Errorf("trials must be positive")
	}

	sweep := scenario.SeedSweep{
		Env:             args[0],
		Steps:           steps,
		FirstSeed:       firstSeed,
		Trials:          trials,
		MaxEpisodeSteps: maxEpisodeSteps,
		Integrator:      integrator,
	}
	return playScenario(cmd, sweep.Scenario())
}

func playScenario(cmd *cobra.Command, sc *scenario.Scenario) error {
	cfg, err := ambientConfig(cmd)
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

	results, runErr := scenario.NewRunner(registry, logger.Logger).RunScenario(ctx, sc)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tENV\tSEED\tSTEPS\tEPISODES\tTOTAL REWARD\tMEAN RETURN")
	for i, res := range results {
		seedStr := "-"
		if res.Play.Seed != nil {
			seedStr = strconv.FormatInt(*res.Play.Seed, 10)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%.0f\t%.0f\t%.4f\t%.4f\n",
			i+1,
			res.Play.Env,
			seedStr,
			res.Summary["steps"],
			res.Summary["episodes"],
			res.Summary["total_reward"],
			res.Summary["mean_return"],
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(results) > 1 {
		printSummary(scenario.SweepStats(results))
	}

	if runErr != nil {
		return runErr
	}
	if noSave {
		return nil
	}

	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return err
	}
	for _, res := range results {
		runID, err := st.Save(storage.RunMetadata{
			Env:             res.Play.Env,
			Seed:            res.Play.Seed,
			Steps:           res.Play.Steps,
			MaxEpisodeSteps: res.Play.MaxEpisodeSteps,
			Integrator:      res.Play.Integrator,
			Interrupted:     res.Interrupted,
			Metrics:         res.Summary,
		}, res.Records)
		if err != nil {
			return err
		}
		logger.Info("run saved", "run_id", runID)
	}
	fmt.Printf("saved %d runs\n", len(results))
	return nil
}
