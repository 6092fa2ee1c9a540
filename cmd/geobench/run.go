package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/viant/geobench/config"
	"github.com/viant/geobench/dataset"
	"github.com/viant/geobench/recorder"
	"github.com/viant/geobench/runner"
)

func newRunCmd() *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the benchmark sweep",
		Long: `Run every combination of the selected backends, index sizes and radii.

A radius of 0 searches without a distance limit.`,
		Example: `  geobench run --backend rtree --index-points 10000 --radius 1000
  geobench run --backend bruteforce,kdtree --radius 0,5000 --parallel 4`,
		RunE: runBench,
	}
	runCmd.Flags().StringSlice("backend", nil, "Backends to run (default: all registered)")
	runCmd.Flags().IntSlice("index-points", nil, "Index dataset sizes")
	runCmd.Flags().Float64Slice("radius", nil, "Search radii in metres")
	runCmd.Flags().Int("query-points", 0, "Query workload size")
	runCmd.Flags().Int("parallel", 0, "Combinations run concurrently")
	runCmd.Flags().Uint64("seed", 0, "Dataset generation seed (0 = random)")
	runCmd.Flags().Bool("in-memory", false, "Keep on-disk backends in memory")
	runCmd.Flags().Bool("no-progress", false, "Disable the progress bar")
	return runCmd
}

// applyRunFlags overrides cfg with the run flags the user set.
func applyRunFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("backend") {
		cfg.Run.Backends, _ = flags.GetStringSlice("backend")
	}
	if flags.Changed("index-points") {
		cfg.Run.IndexSizes, _ = flags.GetIntSlice("index-points")
	}
	if flags.Changed("radius") {
		cfg.Run.Radii, _ = flags.GetFloat64Slice("radius")
	}
	if flags.Changed("query-points") {
		cfg.Run.QueryPoints, _ = flags.GetInt("query-points")
	}
	if flags.Changed("parallel") {
		cfg.Run.Parallelism, _ = flags.GetInt("parallel")
	}
	if flags.Changed("seed") {
		cfg.Dataset.Seed, _ = flags.GetUint64("seed")
	}
	if flags.Changed("in-memory") {
		cfg.Index.InMemory, _ = flags.GetBool("in-memory")
	}
	if noProgress, _ := flags.GetBool("no-progress"); noProgress {
		cfg.Run.Progress = false
	}
}

func runBench(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	applyRunFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	runCfg := runner.Config{
		QueryPoints: cfg.Run.QueryPoints,
		Parallelism: cfg.Run.Parallelism,
		Options:     cfg.Index,
	}
	if cfg.Run.Progress {
		runCfg.Progress = os.Stderr
	}
	bench := runner.New(dataset.NewStore(cfg.Dataset), runCfg)

	started := time.Now()
	results, err := bench.Sweep(cmd.Context(), runner.SweepParams{
		Backends:    cfg.SelectedBackends(),
		IndexSizes:  cfg.Run.IndexSizes,
		Radii:       cfg.Run.Radii,
		QueryPoints: cfg.Run.QueryPoints,
	})
	if err != nil {
		return err
	}
	printSummary(cmd, results, cfg.Dataset.Dir, time.Since(started))
	return nil
}

func printSummary(cmd *cobra.Command, results []*recorder.RunStatistics, dir string, elapsed time.Duration) {
	out := cmd.OutOrStdout()
	keyColor := color.New(color.FgCyan)
	for _, stats := range results {
		fmt.Fprintln(out, stats.String())
		keyColor.Fprintf(out, "  build %v, query %v (mean %v), results %s\n",
			stats.BuildDuration, stats.QueryDuration, stats.MeanLatency, recorder.ResultPath(dir, stats.Key))
	}
	color.New(color.FgGreen).Fprintf(out, "%d runs completed in %v\n", len(results), elapsed.Round(time.Millisecond))
}
