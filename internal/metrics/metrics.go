// Package metrics mirrors internal/stats counters into Prometheus
// collectors for scraping, independent of any downstream
// visualization or reporting.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/progracyd/newsim/internal/stats"
)

// Metrics is a small Prometheus collector set, one gauge per counter
// in stats.Stats, registered on a private registry so embedding this
// engine in a larger process never collides with its metrics.
type Metrics struct {
	Registry *prometheus.Registry

	articlesIngested         prometheus.Gauge
	articlesSkippedEmpty     prometheus.Gauge
	articlesSkippedMalformed prometheus.Gauge
	tagsProcessed            prometheus.Gauge
	tagsSkippedSingleton     prometheus.Gauge
	candidatePairsConsidered prometheus.Gauge
	pairsMemoizedSkipped     prometheus.Gauge
	jaccardComputations      prometheus.Gauge
	duplicatesWritten        prometheus.Gauge
	partitionFailures        prometheus.Gauge
}

// New builds and registers the gauge set.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	g := func(name, help string) prometheus.Gauge {
		gauge := prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "newsim",
			Subsystem: "batch",
			Name:      name,
			Help:      help,
		})
		reg.MustRegister(gauge)
		return gauge
	}
	return &Metrics{
		Registry:                 reg,
		articlesIngested:         g("articles_ingested", "Articles successfully ingested."),
		articlesSkippedEmpty:     g("articles_skipped_empty", "Articles dropped for empty token input."),
		articlesSkippedMalformed: g("articles_skipped_malformed", "Articles dropped for malformed records."),
		tagsProcessed:            g("tags_processed", "Tags with at least two articles run through candidate generation and verification."),
		tagsSkippedSingleton:     g("tags_skipped_singleton", "Tags skipped for having fewer than two articles."),
		candidatePairsConsidered: g("candidate_pairs_considered", "Candidate pairs examined by the verifier."),
		pairsMemoizedSkipped:     g("pairs_memoized_skipped", "Pairs skipped via jacc_sim memoization."),
		jaccardComputations:      g("jaccard_computations", "Estimated-Jaccard computations performed."),
		duplicatesWritten:        g("duplicates_written", "Duplicate pairs written to dup_cand."),
		partitionFailures:        g("partition_failures", "Cell partitions that failed after retry."),
	}
}

// Observe copies a stats.Snapshot into the gauge set.
func (m *Metrics) Observe(s stats.Snapshot) {
	m.articlesIngested.Set(float64(s.ArticlesIngested))
	m.articlesSkippedEmpty.Set(float64(s.ArticlesSkippedEmpty))
	m.articlesSkippedMalformed.Set(float64(s.ArticlesSkippedMalformed))
	m.tagsProcessed.Set(float64(s.TagsProcessed))
	m.tagsSkippedSingleton.Set(float64(s.TagsSkippedSingleton))
	m.candidatePairsConsidered.Set(float64(s.CandidatePairsConsidered))
	m.pairsMemoizedSkipped.Set(float64(s.PairsMemoizedSkipped))
	m.jaccardComputations.Set(float64(s.JaccardComputations))
	m.duplicatesWritten.Set(float64(s.DuplicatesWritten))
	m.partitionFailures.Set(float64(s.PartitionFailures))
}
