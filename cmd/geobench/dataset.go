package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/viant/geobench/dataset"
)

func newDatasetCmd() *cobra.Command {
	datasetCmd := &cobra.Command{
		Use:   "dataset",
		Short: "Generate or load datasets without running queries",
		RunE:  runDataset,
	}
	datasetCmd.Flags().String("role", string(dataset.RoleIndex), "Dataset role: index, query")
	datasetCmd.Flags().IntSlice("size", nil, "Dataset sizes (default: configured index sizes)")
	datasetCmd.Flags().Uint64("seed", 0, "Dataset generation seed (0 = random)")
	return datasetCmd
}

func runDataset(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("seed") {
		cfg.Dataset.Seed, _ = cmd.Flags().GetUint64("seed")
	}
	if err := cfg.Dataset.Validate(); err != nil {
		return err
	}
	roleName, _ := cmd.Flags().GetString("role")
	role := dataset.Role(roleName)
	if !role.Valid() {
		return fmt.Errorf("unknown role %q", roleName)
	}
	sizes := cfg.Run.IndexSizes
	if cmd.Flags().Changed("size") {
		sizes, _ = cmd.Flags().GetIntSlice("size")
	} else if role == dataset.RoleQuery {
		sizes = []int{cfg.Run.QueryPoints}
	}

	store := dataset.NewStore(cfg.Dataset)
	for _, size := range sizes {
		points, err := store.Get(cmd.Context(), role, size)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d points\n", store.Path(role, size), len(points))
	}
	return nil
}
