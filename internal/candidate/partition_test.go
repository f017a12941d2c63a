package candidate

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartition_RunsEveryCellConcurrently(t *testing.T) {
	cells := []Cell{
		{Band: 0, Bucket: 1, IDs: []string{"a", "b"}},
		{Band: 0, Bucket: 2, IDs: []string{"c", "d"}},
		{Band: 1, Bucket: 1, IDs: []string{"e", "f"}},
	}

	var processed atomic.Int32
	results := Partition(context.Background(), cells, 2, func(ctx context.Context, c Cell) error {
		processed.Add(1)
		return nil
	})

	require.Len(t, results, 3)
	assert.EqualValues(t, 3, processed.Load())
	for _, r := range results {
		assert.NoError(t, r.Err)
	}
}

func TestPartition_IsolatesFailures(t *testing.T) {
	cells := []Cell{
		{Band: 0, Bucket: 1, IDs: []string{"a", "b"}},
		{Band: 0, Bucket: 2, IDs: []string{"c", "d"}},
	}
	boom := errors.New("boom")

	results := Partition(context.Background(), cells, 4, func(ctx context.Context, c Cell) error {
		if c.Bucket == 2 {
			return boom
		}
		return nil
	})

	require.Len(t, results, 2)
	var sawFailure, sawSuccess bool
	for _, r := range results {
		if r.Err != nil {
			sawFailure = true
			assert.ErrorIs(t, r.Err, boom)
		} else {
			sawSuccess = true
		}
	}
	assert.True(t, sawFailure)
	assert.True(t, sawSuccess)
}

func TestPartition_EmptyInput(t *testing.T) {
	results := Partition(context.Background(), nil, 4, func(ctx context.Context, c Cell) error {
		t.Fatal("process should never be called")
		return nil
	})
	assert.Empty(t, results)
}
