package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/progracyd/newsim/internal/config"
	"github.com/progracyd/newsim/internal/driver"
	"github.com/progracyd/newsim/internal/logging"
	"github.com/progracyd/newsim/internal/metrics"
	"github.com/progracyd/newsim/internal/model"
	"github.com/progracyd/newsim/internal/store"
	"golang.org/x/time/rate"
)

var (
	batchInputPath string
	batchBackend   string
	batchSeed      uint64
	batchWorkers   int
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Run one batch pass over a preprocessed article stream",
	RunE:  runBatch,
}

func init() {
	batchCmd.Flags().StringVar(&batchInputPath, "input", "-", "path to the newline-delimited JSON article stream, or - for stdin")
	batchCmd.Flags().StringVar(&batchBackend, "backend", "memory", "persistence backend: memory or redis")
	batchCmd.Flags().Uint64Var(&batchSeed, "params-seed", 0x5EED, "seed for first-run parameter generation")
	batchCmd.Flags().IntVar(&batchWorkers, "tag-workers", 0, "tag-tier worker count (0 uses the driver default)")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("newsim: %w", err)
	}
	log := logging.New(true, cfg.LogDebug)

	adapter, closeAdapter, err := buildAdapter(cfg)
	if err != nil {
		return fmt.Errorf("newsim: %w", err)
	}
	defer closeAdapter()

	input, closeInput, err := openInput(batchInputPath)
	if err != nil {
		return fmt.Errorf("newsim: %w", err)
	}
	defer closeInput()

	opts := driver.DefaultOptions()
	opts.ParamsSeed = batchSeed
	if batchWorkers > 0 {
		opts.TagWorkers = batchWorkers
	}

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription("processing tags"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionOnCompletion(func() { fmt.Fprintln(os.Stderr) }),
	)
	opts.Progress = func() { _ = bar.Add(1) }

	d := driver.New(adapter, cfg, log, opts)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := d.Run(ctx, input)

	m := metrics.New()
	m.Observe(report.Stats)

	log.Info("batch run finished in %s: ingested=%d duplicates=%d failed=%v",
		report.WallTime.Round(time.Millisecond), report.Stats.ArticlesIngested,
		report.Stats.DuplicatesWritten, report.Failed)

	if err != nil {
		return fmt.Errorf("newsim: %w", err)
	}
	if report.Failed {
		return fmt.Errorf("newsim: %w: one or more tag partitions failed", model.ErrAdapterUnavailable)
	}
	return nil
}

func buildAdapter(cfg config.Config) (store.Adapter, func(), error) {
	switch batchBackend {
	case "memory":
		return store.NewMem(), func() {}, nil
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisServer})
		limiter := rate.NewLimiter(rate.Limit(200), 50)
		adapter := store.NewResilient(store.NewRedis(client), limiter, store.DefaultBackoff)
		return adapter, func() { _ = client.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend %q (want memory or redis)", batchBackend)
	}
}

func openInput(path string) (io.Reader, func(), error) {
	if path == "-" || path == "" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, func() { _ = f.Close() }, nil
}
