package candidate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/progracyd/newsim/internal/index"
	"github.com/progracyd/newsim/internal/logging"
	"github.com/progracyd/newsim/internal/model"
	"github.com/progracyd/newsim/internal/store"
)

func putArticle(t *testing.T, idx *index.Index, id string, bands model.Bands, tag string) {
	t.Helper()
	err := idx.PutArticle(context.Background(), model.ArticleRecord{
		ID:        id,
		Signature: model.Signature{1, 2, 3, 4},
		Bands:     bands,
		Timestamp: 1000,
		Headline:  id,
		Tags:      []string{tag},
	})
	require.NoError(t, err)
}

func TestGenerate_GroupsSharedCellsAndDropsSingletons(t *testing.T) {
	adapter := store.NewMem()
	idx := index.New(adapter)
	log := logging.New(false, false)

	putArticle(t, idx, "a1", model.Bands{10, 20}, "acme")
	putArticle(t, idx, "a2", model.Bands{10, 99}, "acme")
	putArticle(t, idx, "a3", model.Bands{77, 20}, "acme")

	gen := New(idx, log)
	cells, err := gen.Generate(context.Background(), "acme")
	require.NoError(t, err)

	require.Len(t, cells, 2)
	for _, c := range cells {
		assert.Len(t, c.IDs, 2)
	}
}

func TestGenerate_NoSharedCellsYieldsNoCells(t *testing.T) {
	adapter := store.NewMem()
	idx := index.New(adapter)
	log := logging.New(false, false)

	putArticle(t, idx, "a1", model.Bands{1, 2}, "acme")
	putArticle(t, idx, "a2", model.Bands{3, 4}, "acme")

	gen := New(idx, log)
	cells, err := gen.Generate(context.Background(), "acme")
	require.NoError(t, err)
	assert.Empty(t, cells)
}

func TestGenerate_SkipsIncompleteRecords(t *testing.T) {
	adapter := store.NewMem()
	idx := index.New(adapter)
	log := logging.New(false, false)

	// Register a tag membership with no corresponding news:<id> hash.
	require.NoError(t, adapter.SAdd(context.Background(), store.LSHKey("acme"), "ghost"))
	require.NoError(t, adapter.SAdd(context.Background(), store.LSHKeysKey(), store.LSHKey("acme")))
	putArticle(t, idx, "a1", model.Bands{5, 6}, "acme")

	gen := New(idx, log)
	cells, err := gen.Generate(context.Background(), "acme")
	require.NoError(t, err)
	assert.Empty(t, cells)
}
