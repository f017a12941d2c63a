package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/progracyd/newsim/internal/config"
	"github.com/progracyd/newsim/internal/params"
)

var paramsSnapshotPath string

var paramsCmd = &cobra.Command{
	Use:   "params",
	Short: "Inspect or snapshot the persisted MinHash/LSH parameters",
	RunE:  runParams,
}

func init() {
	paramsCmd.Flags().StringVar(&batchBackend, "backend", "memory", "persistence backend: memory or redis")
	paramsCmd.Flags().Uint64Var(&batchSeed, "params-seed", 0x5EED, "seed for first-run parameter generation")
	paramsCmd.Flags().StringVar(&paramsSnapshotPath, "snapshot", "", "write the resolved parameters as YAML to this path")
	rootCmd.AddCommand(paramsCmd)
}

func runParams(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("newsim: %w", err)
	}

	adapter, closeAdapter, err := buildAdapter(cfg)
	if err != nil {
		return fmt.Errorf("newsim: %w", err)
	}
	defer closeAdapter()

	p, err := params.New(adapter).LoadOrInit(context.Background(), params.Config{
		K: cfg.K, B: cfg.B, R: cfg.R, M: cfg.M, Seed: batchSeed,
	})
	if err != nil {
		return fmt.Errorf("newsim: %w", err)
	}

	fmt.Printf("K=%d B=%d R=%d M=%d\n", p.K, p.B, p.R, p.M)
	if paramsSnapshotPath != "" {
		if err := params.SaveSnapshot(paramsSnapshotPath, p); err != nil {
			return fmt.Errorf("newsim: snapshot: %w", err)
		}
		fmt.Printf("wrote snapshot to %s\n", paramsSnapshotPath)
	}
	return nil
}
