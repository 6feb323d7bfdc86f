package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/san-kum/randplay/internal/config"
	"github.com/san-kum/randplay/internal/envs"
	"github.com/san-kum/randplay/internal/storage"
)

var (
	dataDir         string
	steps           int
	seed            int64
	actionSeed      int64
	maxEpisodeSteps int
	integrator      string
	renderMode      string
	frameRate       int
	timeout         time.Duration
	configFile      string
	preset          string
	noSave          bool
	logLevel        string
	logFile         string

	trials    int
	firstSeed int64
)

var registry = envs.NewRegistry()

func main() {
	for _, envFile := range []string{".env", "../.env"} {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	rootCmd := &cobra.Command{
		Use:           "randplay",
		Short:         "drive environments with random actions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also write JSON logs to this file")

	playCmd := &cobra.Command{
		Use:   "play [env]",
		Short: "play random actions for a number of steps",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runPlay,
	}
	addPlayFlags(playCmd)
	playCmd.Flags().StringVar(&renderMode, "render", config.DefaultRender, "render mode (none, ascii)")
	playCmd.Flags().IntVar(&frameRate, "fps", config.DefaultFPS, "frame rate for ascii rendering")

	liveCmd := &cobra.Command{
		Use:   "live [env]",
		Short: "play random actions in the live terminal view",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addPlayFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", config.DefaultFPS, "steps shown per second")

	envsCmd := &cobra.Command{
		Use:   "envs",
		Short: "list environments",
		RunE:  listEnvs,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [env]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot rewards and episode returns",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run steps to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id] [file]",
		Short: "export episode returns as SVG",
		Args:  cobra.ExactArgs(2),
		RunE:  exportSVG,
	}

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run the plays listed in a scenario file",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	scenarioCmd.Flags().BoolVar(&noSave, "no-save", false, "do not save runs")

	sweepCmd := &cobra.Command{
		Use:   "sweep [env]",
		Short: "repeat a play across consecutive seeds",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "steps per trial")
	sweepCmd.Flags().IntVar(&trials, "trials", 10, "number of trials")
	sweepCmd.Flags().Int64Var(&firstSeed, "first-seed", 0, "seed of the first trial")
	sweepCmd.Flags().IntVar(&maxEpisodeSteps, "max-episode-steps", 0, "episode step limit (0 keeps the env default, -1 disables)")
	sweepCmd.Flags().StringVar(&integrator, "integrator", "", "integrator (euler, rk4, rk45)")
	sweepCmd.Flags().BoolVar(&noSave, "no-save", false, "do not save runs")

	rootCmd.AddCommand(playCmd, liveCmd, envsCmd, presetsCmd, listCmd, plotCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd, scenarioCmd, sweepCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addPlayFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of steps")
	cmd.Flags().Int64Var(&seed, "seed", 0, "seed for the first reset")
	cmd.Flags().Int64Var(&actionSeed, "action-seed", 0, "seed for action sampling")
	cmd.Flags().IntVar(&maxEpisodeSteps, "max-episode-steps", 0, "episode step limit (0 keeps the env default, -1 disables)")
	cmd.Flags().StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator (euler, rk4, rk45)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "stop after this long (0 disables)")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not save the run")
}

// resolveConfig layers defaults, preset, config file, RANDPLAY_* variables
// and finally any flag set on the command line.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if len(args) > 0 {
		cfg.Env = args[0]
	} else if v, ok := os.LookupEnv("RANDPLAY_ENV"); ok && v != "" {
		cfg.Env = v
	}

	if preset != "" {
		p := config.GetPreset(cfg.Env, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(cfg.Env))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if len(args) > 0 {
		cfg.Env = args[0]
	}
	flags := cmd.Flags()
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("seed") {
		cfg.Seed = &seed
	}
	if flags.Changed("max-episode-steps") {
		cfg.MaxEpisodeSteps = maxEpisodeSteps
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("render") {
		cfg.Render = renderMode
	}
	if flags.Changed("fps") {
		cfg.FPS = frameRate
	}
	if flags.Changed("timeout") {
		cfg.Timeout = timeout
	}
	applyPersistentFlags(cmd, cfg)

	if _, ok := registry.Get(cfg.Env); !ok {
		return nil, fmt.Errorf("unknown environment: %s", cfg.Env)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func actionSeedFlag(cmd *cobra.Command) *int64 {
	if cmd.Flags().Changed("action-seed") {
		return &actionSeed
	}
	return nil
}

func applyPersistentFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("data") {
		cfg.DataDir = dataDir
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if flags.Changed("log-file") {
		cfg.Log.File = logFile
	}
}

// ambientConfig layers defaults, RANDPLAY_* variables and the persistent
// flags for commands that do not play a single environment.
func ambientConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	applyPersistentFlags(cmd, cfg)
	return cfg, nil
}

func openStore(cmd *cobra.Command) (*storage.Store, error) {
	cfg, err := ambientConfig(cmd)
	if err != nil {
		return nil, err
	}
	return storage.New(cfg.DataDir), nil
}
