// Package driver implements the batch driver: it loads parameters,
// ingests the preprocessed article stream, enumerates tags, and runs
// the candidate generator and Jaccard verifier over each tag's cells
// in parallel, reporting counts and wall time.
package driver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/progracyd/newsim/internal/candidate"
	"github.com/progracyd/newsim/internal/config"
	"github.com/progracyd/newsim/internal/index"
	"github.com/progracyd/newsim/internal/ingest"
	"github.com/progracyd/newsim/internal/logging"
	"github.com/progracyd/newsim/internal/lsh"
	"github.com/progracyd/newsim/internal/minhash"
	"github.com/progracyd/newsim/internal/model"
	"github.com/progracyd/newsim/internal/params"
	"github.com/progracyd/newsim/internal/stats"
	"github.com/progracyd/newsim/internal/store"
)

// Options configures a single batch run. TagWorkers bounds the
// tag-tier errgroup, sized to however many workers the compute
// runtime offers; CellWorkers bounds the per-tag worker pool handed
// to candidate.Partition.
type Options struct {
	TagWorkers  int
	CellWorkers int
	ParamsSeed  uint64
	// Progress, if non-nil, is called once per tag processed, for a
	// CLI progress bar; nil disables progress reporting.
	Progress func()
}

// DefaultOptions mirrors a modest local run: a handful of tag workers,
// one cell worker pool per tag sized for typical cell fan-out.
func DefaultOptions() Options {
	return Options{TagWorkers: 4, CellWorkers: 8, ParamsSeed: 0x5EED}
}

// Report summarizes one batch run.
type Report struct {
	WallTime time.Duration
	Stats    stats.Snapshot
	Failed   bool
}

// Driver orchestrates one end-to-end batch run over a fixed adapter
// and configuration. It holds no package-level state: every
// dependency is passed in explicitly so tests can substitute an
// in-memory adapter.
type Driver struct {
	adapter store.Adapter
	cfg     config.Config
	log     *logging.Logger
	stats   *stats.Stats
	opts    Options

	idx    *index.Index
	signer *minhash.Signer
	bander *lsh.Bander
}

// New builds a Driver. It does not touch the adapter until Run is
// called.
func New(adapter store.Adapter, cfg config.Config, log *logging.Logger, opts Options) *Driver {
	return &Driver{
		adapter: adapter,
		cfg:     cfg,
		log:     log,
		stats:   stats.New(),
		opts:    opts,
		idx:     index.New(adapter),
	}
}

// Stats exposes the driver's counters, e.g. for a Prometheus mirror.
func (d *Driver) Stats() *stats.Stats { return d.stats }

// Run executes one batch pass: load/init parameters, ingest every
// article in r, then generate and verify candidates for every tag.
// It returns model.ErrParameterMismatch before any write if the
// persisted parameters disagree with d.cfg.
func (d *Driver) Run(ctx context.Context, r io.Reader) (Report, error) {
	start := time.Now()

	sigParams, err := params.New(d.adapter).LoadOrInit(ctx, params.Config{
		K: d.cfg.K, B: d.cfg.B, R: d.cfg.R, M: d.cfg.M, Seed: d.opts.ParamsSeed,
	})
	if err != nil {
		if errors.Is(err, model.ErrParameterMismatch) {
			return Report{WallTime: time.Since(start), Failed: true}, err
		}
		return Report{WallTime: time.Since(start), Failed: true}, fmt.Errorf("driver: load params: %w", err)
	}
	d.signer = minhash.New(sigParams)
	d.bander = lsh.New(sigParams)

	if err := d.ingestAll(ctx, r); err != nil {
		return Report{WallTime: time.Since(start), Stats: d.stats.Snapshot(), Failed: true}, err
	}

	failed, err := d.processTags(ctx)
	if err != nil {
		return Report{WallTime: time.Since(start), Stats: d.stats.Snapshot(), Failed: true}, err
	}

	return Report{WallTime: time.Since(start), Stats: d.stats.Snapshot(), Failed: failed}, nil
}

// ingestAll consumes the preprocessed stream.
func (d *Driver) ingestAll(ctx context.Context, r io.Reader) error {
	reader := ingest.NewReader(r)
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		article, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			if errors.Is(err, model.ErrMalformedRecord) {
				d.stats.ArticlesSkippedMalformed.Add(1)
				d.log.Warn("driver: dropping malformed record: %v", err)
				continue
			}
			return fmt.Errorf("driver: read article: %w", err)
		}

		if err := d.ingestOne(ctx, article); err != nil {
			if errors.Is(err, model.ErrEmptyInput) {
				d.stats.ArticlesSkippedEmpty.Add(1)
				d.log.Warn("driver: dropping article %s: empty token input", article.ID)
				continue
			}
			return fmt.Errorf("driver: ingest %s: %w", article.ID, err)
		}
		d.stats.ArticlesIngested.Add(1)
	}
}

func (d *Driver) ingestOne(ctx context.Context, a model.PreprocessedArticle) error {
	sig, err := d.signer.Sign(a.TextBodyStemmed)
	if err != nil {
		return err
	}
	bands, err := d.bander.Bands(sig)
	if err != nil {
		// BadSignatureLength is a programming error: the signer and
		// bander share one SignatureParameters, so this can only
		// happen if that invariant is broken upstream.
		panic(fmt.Sprintf("driver: signer/bander K mismatch: %v", err))
	}

	rec := model.ArticleRecord{
		ID:        a.ID,
		Signature: sig,
		Bands:     bands,
		Timestamp: a.Timestamp,
		Headline:  a.Headline,
		Tags:      a.TagCompany,
	}
	return d.idx.PutArticle(ctx, rec)
}

// processTags enumerates tags, skips singletons, and runs the
// generator+verifier pipeline for the rest, tag-parallel via errgroup
// and cell-parallel via candidate.Partition.
func (d *Driver) processTags(ctx context.Context) (failed bool, err error) {
	tags, err := d.idx.ListTags(ctx)
	if err != nil {
		return false, fmt.Errorf("driver: list tags: %w", err)
	}

	gen := candidate.New(d.idx, d.log)
	verifier := newVerifier(d)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxInt(d.opts.TagWorkers, 1))

	for _, tag := range tags {
		tag := tag
		size, err := d.idx.PostingSize(ctx, tag)
		if err != nil {
			return false, fmt.Errorf("driver: posting size %s: %w", tag, err)
		}
		if size < 2 {
			d.stats.TagsSkippedSingleton.Add(1)
			continue
		}

		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			cells, err := gen.Generate(gctx, tag)
			if err != nil {
				return fmt.Errorf("driver: generate %s: %w", tag, err)
			}

			results := candidate.Partition(gctx, cells, maxInt(d.opts.CellWorkers, 1), func(ctx2 context.Context, c candidate.Cell) error {
				return verifier.VerifyCell(ctx2, c.IDs)
			})
			for _, r := range results {
				if r.Err != nil {
					d.stats.PartitionFailures.Add(1)
					d.log.Error("driver: tag %s cell (band=%d bucket=%d) failed: %v", tag, r.Cell.Band, r.Cell.Bucket, r.Err)
				}
			}

			d.stats.TagsProcessed.Add(1)
			if d.opts.Progress != nil {
				d.opts.Progress()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return true, fmt.Errorf("driver: process tags: %w", err)
	}
	return d.stats.PartitionFailures.Load() > 0, nil
}

func maxInt(v, floor int) int {
	if v < floor {
		return floor
	}
	return v
}
