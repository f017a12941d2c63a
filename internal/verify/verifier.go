// Package verify implements the Jaccard verifier: for each candidate
// pair within a cell, decide whether it is a duplicate and persist the
// decision, honoring memoization, the time window, and the
// later/earlier ordering rule.
package verify

import (
	"context"
	"errors"
	"fmt"

	"github.com/progracyd/newsim/internal/index"
	"github.com/progracyd/newsim/internal/model"
	"github.com/progracyd/newsim/internal/stats"
	"github.com/progracyd/newsim/internal/store"
)

// Verifier computes and persists Jaccard decisions for candidate
// pairs drawn from posting-list cells.
type Verifier struct {
	idx     *index.Index
	adapter store.Adapter
	window  int64
	tau     float64
	stats   *stats.Stats
}

// New builds a Verifier. window is W in seconds, tau is the duplicate
// threshold τ.
func New(idx *index.Index, adapter store.Adapter, window int64, tau float64, s *stats.Stats) *Verifier {
	return &Verifier{idx: idx, adapter: adapter, window: window, tau: tau, stats: s}
}

// VerifyCell runs the per-pair procedure over every unordered pair
// within ids. The same pair may be reachable from multiple cells; the
// jacc_sim memoization check is what keeps the total work linear in
// pairs rather than quadratic in cells.
func (v *Verifier) VerifyCell(ctx context.Context, ids []string) error {
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if err := v.verifyPair(ctx, ids[i], ids[j]); err != nil {
				return err
			}
		}
	}
	return nil
}

func (v *Verifier) verifyPair(ctx context.Context, x, y string) error {
	v.stats.CandidatePairsConsidered.Add(1)

	sigX, tsX, ok, err := v.load(ctx, x)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	sigY, tsY, ok, err := v.load(ctx, y)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	laterID, earlierID := model.OrderPair(x, tsX, y, tsY)
	laterSig, earlierSig := sigX, sigY
	if laterID == y {
		laterSig, earlierSig = sigY, sigX
	}
	var tsLater, tsEarlier int64
	if laterID == x {
		tsLater, tsEarlier = tsX, tsY
	} else {
		tsLater, tsEarlier = tsY, tsX
	}

	// Memoization short-circuit.
	_, memoized, err := v.adapter.HGet(ctx, store.JaccSimKey(laterID), earlierID)
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrAdapterUnavailable, err)
	}
	if memoized {
		v.stats.PairsMemoizedSkipped.Add(1)
		return nil
	}

	// Time window, checked before any write.
	if abs64(tsLater-tsEarlier) > v.window {
		return nil
	}

	// Estimated Jaccard.
	sim := estimate(laterSig, earlierSig)
	v.stats.JaccardComputations.Add(1)

	if err := v.adapter.HSet(ctx, store.JaccSimKey(laterID), earlierID, formatSim(sim)); err != nil {
		return fmt.Errorf("%w: %v", model.ErrAdapterUnavailable, err)
	}

	if sim > v.tau {
		if err := v.adapter.HSet(ctx, store.DupCandKey(laterID), earlierID, formatSim(sim)); err != nil {
			return fmt.Errorf("%w: %v", model.ErrAdapterUnavailable, err)
		}
		v.stats.DuplicatesWritten.Add(1)
	}
	return nil
}

func (v *Verifier) load(ctx context.Context, id string) (model.Signature, int64, bool, error) {
	sig, err := v.idx.GetSignature(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrMissingRecord) {
			return nil, 0, false, nil
		}
		return nil, 0, false, err
	}
	ts, err := v.idx.GetTimestamp(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrMissingRecord) {
			return nil, 0, false, nil
		}
		return nil, 0, false, err
	}
	return sig, ts, true, nil
}

// estimate computes the fraction of equal signature components, the
// MinHash estimator of Jaccard similarity.
func estimate(a, b model.Signature) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	equal := 0
	for i := range a {
		if a[i] == b[i] {
			equal++
		}
	}
	return float64(equal) / float64(len(a))
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

func formatSim(sim float64) string {
	return fmt.Sprintf("%.6f", sim)
}
