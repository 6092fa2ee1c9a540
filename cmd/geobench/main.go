// Package main provides the geobench CLI entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/viant/geobench/config"
	"github.com/viant/geobench/index"
	_ "github.com/viant/geobench/index/backends"
	"github.com/viant/geobench/internal/logging"
)

var (
	version   = "0.1.0"
	commit    = "dev"
	buildTime = "unknown" // Set via ldflags: -X main.buildTime=$(date +%Y%m%d-%H%M%S)
)

var errColor = color.New(color.FgHiRed)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		errColor.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "geobench",
		Short: "geobench - nearest-point search benchmark",
		Long: `geobench compares nearest-point search backends over synthetic
geographic datasets.

Every combination of backend, index size and search radius builds an index,
answers the query workload and writes per-query results plus a summary.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().String("config", "", "YAML config file")
	rootCmd.PersistentFlags().String("out", "", "Output directory for datasets, indexes and results")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "", "Log format: text, json")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "geobench v%s (%s) built %s\n", version, commit, buildTime)
		},
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "backends",
		Short: "List registered backends",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range index.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		},
	})
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newDatasetCmd())
	return rootCmd
}

// loadConfig resolves the config file, the environment and the persistent
// flags, then sets up logging.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("out") {
		out, _ := cmd.Flags().GetString("out")
		cfg.Dataset.Dir = out
		cfg.Index.Dir = out
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level, _ = cmd.Flags().GetString("log-level")
	}
	if cmd.Flags().Changed("log-format") {
		cfg.Log.Format, _ = cmd.Flags().GetString("log-format")
	}
	if err := logging.Setup(cfg.Log.Level, cfg.Log.Format); err != nil {
		return nil, err
	}
	return cfg, nil
}
