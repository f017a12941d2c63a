package verify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/progracyd/newsim/internal/index"
	"github.com/progracyd/newsim/internal/model"
	"github.com/progracyd/newsim/internal/stats"
	"github.com/progracyd/newsim/internal/store"
)

func putRecord(t *testing.T, idx *index.Index, id string, sig model.Signature, ts int64) {
	t.Helper()
	err := idx.PutArticle(context.Background(), model.ArticleRecord{
		ID:        id,
		Signature: sig,
		Bands:     model.Bands{0},
		Timestamp: ts,
		Headline:  id,
		Tags:      []string{"acme"},
	})
	require.NoError(t, err)
}

func newVerifier(window int64, tau float64) (*Verifier, store.Adapter, *index.Index, *stats.Stats) {
	adapter := store.NewMem()
	idx := index.New(adapter)
	s := stats.New()
	return New(idx, adapter, window, tau, s), adapter, idx, s
}

func TestVerifyCell_IdenticalSignaturesFlaggedDuplicate(t *testing.T) {
	v, adapter, idx, s := newVerifier(86400, 0.8)
	sig := model.Signature{1, 2, 3, 4, 5}
	putRecord(t, idx, "later", sig, 2000)
	putRecord(t, idx, "earlier", sig, 1000)

	require.NoError(t, v.VerifyCell(context.Background(), []string{"later", "earlier"}))

	_, found, err := adapter.HGet(context.Background(), store.DupCandKey("later"), "earlier")
	require.NoError(t, err)
	assert.True(t, found)
	assert.EqualValues(t, 1, s.DuplicatesWritten.Load())
}

func TestVerifyCell_DisjointSignaturesNotFlagged(t *testing.T) {
	v, adapter, idx, _ := newVerifier(86400, 0.8)
	putRecord(t, idx, "later", model.Signature{1, 1, 1, 1}, 2000)
	putRecord(t, idx, "earlier", model.Signature{2, 2, 2, 2}, 1000)

	require.NoError(t, v.VerifyCell(context.Background(), []string{"later", "earlier"}))

	_, found, err := adapter.HGet(context.Background(), store.DupCandKey("later"), "earlier")
	require.NoError(t, err)
	assert.False(t, found)

	// jacc_sim is still recorded even when below threshold.
	val, found, err := adapter.HGet(context.Background(), store.JaccSimKey("later"), "earlier")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "0.000000", val)
}

func TestVerifyCell_OutOfWindowSkipsWrite(t *testing.T) {
	v, adapter, idx, _ := newVerifier(10, 0.8)
	sig := model.Signature{1, 2, 3}
	putRecord(t, idx, "later", sig, 10000)
	putRecord(t, idx, "earlier", sig, 1)

	require.NoError(t, v.VerifyCell(context.Background(), []string{"later", "earlier"}))

	_, found, err := adapter.HGet(context.Background(), store.JaccSimKey("later"), "earlier")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestVerifyCell_MemoizationShortCircuits(t *testing.T) {
	v, _, idx, s := newVerifier(86400, 0.8)
	sig := model.Signature{1, 2, 3}
	putRecord(t, idx, "later", sig, 2000)
	putRecord(t, idx, "earlier", sig, 1000)

	require.NoError(t, v.VerifyCell(context.Background(), []string{"later", "earlier"}))
	firstComputations := s.JaccardComputations.Load()

	require.NoError(t, v.VerifyCell(context.Background(), []string{"later", "earlier"}))
	assert.Equal(t, firstComputations, s.JaccardComputations.Load())
	assert.EqualValues(t, 1, s.PairsMemoizedSkipped.Load())
}

func TestVerifyCell_LaterEarlierOrderingByTimestamp(t *testing.T) {
	v, adapter, idx, _ := newVerifier(86400, 0.8)
	sig := model.Signature{1, 2, 3}
	putRecord(t, idx, "x", sig, 1000)
	putRecord(t, idx, "y", sig, 2000)

	require.NoError(t, v.VerifyCell(context.Background(), []string{"x", "y"}))

	// y is later (greater timestamp), so the record lives under jacc_sim:y.
	_, found, err := adapter.HGet(context.Background(), store.JaccSimKey("y"), "x")
	require.NoError(t, err)
	assert.True(t, found)
	_, found, err = adapter.HGet(context.Background(), store.JaccSimKey("x"), "y")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestVerifyCell_MissingRecordSkippedSilently(t *testing.T) {
	v, _, idx, _ := newVerifier(86400, 0.8)
	putRecord(t, idx, "only", model.Signature{1, 2, 3}, 1000)

	err := v.VerifyCell(context.Background(), []string{"only", "ghost"})
	assert.NoError(t, err)
}
