// Package stats holds the run counters for one batch pass: ingest
// drops, singleton-tag skips, memoized skips, Jaccard computations,
// duplicate writes, and cell failures. Pairs the verifier drops for a
// missing record or an out-of-window timestamp are not counted.
package stats

import "sync/atomic"

// Stats is a set of monotonically increasing counters, safe for
// concurrent use by any number of ingest or verifier workers.
type Stats struct {
	ArticlesIngested         atomic.Int64
	ArticlesSkippedEmpty     atomic.Int64
	ArticlesSkippedMalformed atomic.Int64
	TagsProcessed            atomic.Int64
	TagsSkippedSingleton     atomic.Int64
	CandidatePairsConsidered atomic.Int64
	PairsMemoizedSkipped     atomic.Int64
	JaccardComputations      atomic.Int64
	DuplicatesWritten        atomic.Int64
	PartitionFailures        atomic.Int64
}

// New returns a zeroed Stats.
func New() *Stats { return &Stats{} }

// Snapshot is a point-in-time, non-atomic copy suitable for logging,
// reporting, or JSON encoding.
type Snapshot struct {
	ArticlesIngested         int64 `json:"articles_ingested"`
	ArticlesSkippedEmpty     int64 `json:"articles_skipped_empty"`
	ArticlesSkippedMalformed int64 `json:"articles_skipped_malformed"`
	TagsProcessed            int64 `json:"tags_processed"`
	TagsSkippedSingleton     int64 `json:"tags_skipped_singleton"`
	CandidatePairsConsidered int64 `json:"candidate_pairs_considered"`
	PairsMemoizedSkipped     int64 `json:"pairs_memoized_skipped"`
	JaccardComputations      int64 `json:"jaccard_computations"`
	DuplicatesWritten        int64 `json:"duplicates_written"`
	PartitionFailures        int64 `json:"partition_failures"`
}

// Snapshot copies every counter's current value.
func (s *Stats) Snapshot() Snapshot {
	return Snapshot{
		ArticlesIngested:         s.ArticlesIngested.Load(),
		ArticlesSkippedEmpty:     s.ArticlesSkippedEmpty.Load(),
		ArticlesSkippedMalformed: s.ArticlesSkippedMalformed.Load(),
		TagsProcessed:            s.TagsProcessed.Load(),
		TagsSkippedSingleton:     s.TagsSkippedSingleton.Load(),
		CandidatePairsConsidered: s.CandidatePairsConsidered.Load(),
		PairsMemoizedSkipped:     s.PairsMemoizedSkipped.Load(),
		JaccardComputations:      s.JaccardComputations.Load(),
		DuplicatesWritten:        s.DuplicatesWritten.Load(),
		PartitionFailures:        s.PartitionFailures.Load(),
	}
}
