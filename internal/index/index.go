// Package index implements the similarity index: the persistent
// ArticleRecord store and the inverted (tag, band, bucket) ->
// posting-list index, built entirely on top of store.Adapter.
package index

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/progracyd/newsim/internal/model"
	"github.com/progracyd/newsim/internal/store"
)

// Index is the similarity index. It holds no state of its own beyond
// the adapter handle, so any number of ingest workers may share one.
type Index struct {
	adapter store.Adapter
}

// New builds an Index over adapter.
func New(adapter store.Adapter) *Index {
	return &Index{adapter: adapter}
}

// PutArticle upserts the ArticleRecord for id and, for every tag the
// article carries, adds id to that tag's posting set and registers
// the tag in lsh_keys. Writes are atomic per key only: a concurrent
// reader may observe the news:<id> hash before every lsh:<tag>
// membership has landed.
func (x *Index) PutArticle(ctx context.Context, rec model.ArticleRecord) error {
	key := store.NewsKey(rec.ID)
	fields := map[string]string{
		"min_hash":  joinUints(rec.Signature),
		"lsh_hash":  joinUints(rec.Bands),
		"timestamp": strconv.FormatInt(rec.Timestamp, 10),
		"headline":  rec.Headline,
		"tags":      strings.Join(rec.Tags, ","),
	}
	for field, val := range fields {
		if err := x.adapter.HSet(ctx, key, field, val); err != nil {
			return fmt.Errorf("index: put article %s: %w", rec.ID, err)
		}
	}

	for _, tag := range rec.Tags {
		if err := x.adapter.SAdd(ctx, store.LSHKey(tag), rec.ID); err != nil {
			return fmt.Errorf("index: tag %s article %s: %w", tag, rec.ID, err)
		}
		if err := x.adapter.SAdd(ctx, store.LSHKeysKey(), store.LSHKey(tag)); err != nil {
			return fmt.Errorf("index: register tag %s: %w", tag, err)
		}
	}
	return nil
}

// ListTags enumerates every tag that currently has at least one
// article, by reading the lsh_keys registry set.
func (x *Index) ListTags(ctx context.Context) ([]string, error) {
	keys, err := x.adapter.SMembers(ctx, store.LSHKeysKey())
	if err != nil {
		return nil, fmt.Errorf("index: list tags: %w", err)
	}
	tags := make([]string, len(keys))
	for i, k := range keys {
		tags[i] = store.TagFromLSHKey(k)
	}
	return tags, nil
}

// PostingSize returns the number of distinct article ids under tag.
func (x *Index) PostingSize(ctx context.Context, tag string) (int, error) {
	n, err := x.adapter.SCard(ctx, store.LSHKey(tag))
	if err != nil {
		return 0, fmt.Errorf("index: posting size %s: %w", tag, err)
	}
	return n, nil
}

// IterIDs enumerates the distinct article ids under tag.
func (x *Index) IterIDs(ctx context.Context, tag string) ([]string, error) {
	ids, err := x.adapter.SMembers(ctx, store.LSHKey(tag))
	if err != nil {
		return nil, fmt.Errorf("index: iter ids %s: %w", tag, err)
	}
	return ids, nil
}

// GetBands returns the B bucket hashes for id, or model.ErrMissingRecord.
func (x *Index) GetBands(ctx context.Context, id string) (model.Bands, error) {
	v, ok, err := x.adapter.HGet(ctx, store.NewsKey(id), "lsh_hash")
	if err != nil {
		return nil, fmt.Errorf("index: get bands %s: %w", id, err)
	}
	if !ok {
		return nil, fmt.Errorf("index: bands for %s: %w", id, model.ErrMissingRecord)
	}
	vals, err := splitUints(v)
	if err != nil {
		return nil, fmt.Errorf("index: parse bands %s: %w", id, err)
	}
	return model.Bands(vals), nil
}

// GetSignature returns the K-length signature for id, or
// model.ErrMissingRecord.
func (x *Index) GetSignature(ctx context.Context, id string) (model.Signature, error) {
	v, ok, err := x.adapter.HGet(ctx, store.NewsKey(id), "min_hash")
	if err != nil {
		return nil, fmt.Errorf("index: get signature %s: %w", id, err)
	}
	if !ok {
		return nil, fmt.Errorf("index: signature for %s: %w", id, model.ErrMissingRecord)
	}
	vals, err := splitUints(v)
	if err != nil {
		return nil, fmt.Errorf("index: parse signature %s: %w", id, err)
	}
	return model.Signature(vals), nil
}

// GetTimestamp returns the timestamp for id, or model.ErrMissingRecord.
func (x *Index) GetTimestamp(ctx context.Context, id string) (int64, error) {
	v, ok, err := x.adapter.HGet(ctx, store.NewsKey(id), "timestamp")
	if err != nil {
		return 0, fmt.Errorf("index: get timestamp %s: %w", id, err)
	}
	if !ok {
		return 0, fmt.Errorf("index: timestamp for %s: %w", id, model.ErrMissingRecord)
	}
	ts, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("index: parse timestamp %s: %w", id, err)
	}
	return ts, nil
}

func joinUints(vs []uint64) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = strconv.FormatUint(v, 10)
	}
	return strings.Join(parts, ",")
}

func splitUints(s string) ([]uint64, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	vs := make([]uint64, len(parts))
	for i, part := range parts {
		v, err := strconv.ParseUint(part, 10, 64)
		if err != nil {
			return nil, err
		}
		vs[i] = v
	}
	return vs, nil
}
