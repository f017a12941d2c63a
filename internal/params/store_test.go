package params

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/progracyd/newsim/internal/model"
	"github.com/progracyd/newsim/internal/store"
)

func TestLoadOrInit_GeneratesOnFirstRun(t *testing.T) {
	adapter := store.NewMem()
	s := New(adapter)
	cfg := Config{K: 8, B: 4, R: 2, M: 64, Seed: 42}

	p, err := s.LoadOrInit(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, 8, p.K)
	assert.Len(t, p.A, 8)
	assert.Len(t, p.Bc, 8)
}

func TestLoadOrInit_ReusesPersisted(t *testing.T) {
	adapter := store.NewMem()
	s := New(adapter)
	cfg := Config{K: 8, B: 4, R: 2, M: 64, Seed: 42}

	p1, err := s.LoadOrInit(context.Background(), cfg)
	require.NoError(t, err)

	p2, err := s.LoadOrInit(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, p1, p2)
}

func TestLoadOrInit_RejectsMismatch(t *testing.T) {
	adapter := store.NewMem()
	s := New(adapter)

	_, err := s.LoadOrInit(context.Background(), Config{K: 8, B: 4, R: 2, M: 64, Seed: 1})
	require.NoError(t, err)

	_, err = s.LoadOrInit(context.Background(), Config{K: 6, B: 3, R: 2, M: 64, Seed: 1})
	assert.ErrorIs(t, err, model.ErrParameterMismatch)
}
