package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/randplay/internal/config"
	"github.com/san-kum/randplay/internal/metrics"
	"github.com/san-kum/randplay/internal/storage"
)

func listEnvs(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tACTIONS\tMAX STEPS\tDESCRIPTION")
	for _, spec := range registry.List() {
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", spec.Name, spec.Actions, spec.MaxEpisodeSteps, spec.Description)
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	names := make([]string, 0)
	if len(args) > 0 {
		names = append(names, args[0])
	} else {
		for _, spec := range registry.List() {
			names = append(names, spec.Name)
		}
	}

	for _, env := range names {
		presets := config.ListPresets(env)
		if len(presets) == 0 {
			fmt.Printf("no presets for env: %s\n", env)
			continue
		}
		fmt.Printf("presets for %s:\n", env)
		for _, p := range presets {
			fmt.Printf("  %s\n", p)
		}
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tENV\tTIME\tSTEPS\tEPISODES\tSEED\tSTATUS")

	for _, run := range runs {
		seedStr := "-"
		if run.Seed != nil {
			seedStr = strconv.FormatInt(*run.Seed, 10)
		}
		status := "done"
		if run.Interrupted {
			status = "interrupted"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d/%d\t%.0f\t%s\t%s\n",
			run.ID,
			run.Env,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.StepsTaken,
			run.Steps,
			run.Metrics["episodes"],
			seedStr,
			status,
		)
	}

	return w.Flush()
}

func loadRun(cmd *cobra.Command, runID string) (*storage.RunMetadata, []metrics.Record, error) {
	st, err := openStore(cmd)
	if err != nil {
		return nil, nil, err
	}
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	records, err := st.LoadSteps(runID)
	if err != nil {
		return nil, nil, err
	}
	return meta, records, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, records, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}

	if len(records) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("env: %s\n", meta.Env)
	fmt.Printf("steps: %d\n\n", len(records))

	rewards := make([]float64, len(records))
	for i, rec := range records {
		rewards[i] = rec.Reward
	}
	fmt.Println(asciigraph.Plot(rewards,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("reward per step"),
	))
	fmt.Println()

	returns := metrics.EpisodeReturns(records)
	if len(returns) > 1 {
		fmt.Println(asciigraph.Plot(returns,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("episode return (%d episodes)", len(returns))),
		))
		fmt.Println()
	}

	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, records, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}

	if len(records) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	if err := w.Write([]string{"step", "episode", "reward", "terminated", "truncated"}); err != nil {
		return err
	}
	for _, rec := range records {
		row := []string{
			strconv.Itoa(rec.Step),
			strconv.Itoa(rec.Episode),
			strconv.FormatFloat(rec.Reward, 'f', 6, 64),
			strconv.FormatBool(rec.Terminated),
			strconv.FormatBool(rec.Truncated),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, records, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, meta, records)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	_, records, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}

	svg := storage.RewardSVG(records, 800, 400)
	if svg == "" {
		return fmt.Errorf("need at least two episodes to plot returns")
	}

	if err := os.WriteFile(args[1], []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", args[1])
	return nil
}
