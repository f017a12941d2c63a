package lsh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/progracyd/newsim/internal/model"
)

func testParams() model.SignatureParameters {
	return model.SignatureParameters{
		K: 8, B: 4, R: 2, M: 97,
		A:  []uint64{1, 2, 3, 4, 5, 6, 7, 8},
		Bc: []uint64{9, 10, 11, 12, 13, 14, 15, 16},
	}
}

func TestBands_Length(t *testing.T) {
	b := New(testParams())
	sig := model.Signature{1, 2, 3, 4, 5, 6, 7, 8}

	bands, err := b.Bands(sig)
	require.NoError(t, err)
	assert.Len(t, bands, 4)
}

func TestBands_BadSignatureLength(t *testing.T) {
	b := New(testParams())

	_, err := b.Bands(model.Signature{1, 2, 3})
	assert.ErrorIs(t, err, model.ErrBadSignatureLength)
}

func TestBands_Deterministic(t *testing.T) {
	b := New(testParams())
	sig := model.Signature{1, 2, 3, 4, 5, 6, 7, 8}

	b1, err := b.Bands(sig)
	require.NoError(t, err)
	b2, err := b.Bands(sig)
	require.NoError(t, err)

	assert.Equal(t, b1, b2)
}

func TestBands_BucketsWithinRange(t *testing.T) {
	b := New(testParams())
	sig := model.Signature{1, 2, 3, 4, 5, 6, 7, 8}

	bands, err := b.Bands(sig)
	require.NoError(t, err)
	for _, bucket := range bands {
		assert.Less(t, bucket, uint64(97))
	}
}
