// Package candidate implements the candidate generator: for a tag,
// group article ids by shared (band, bucket) cell and emit the
// posting lists a verifier can turn into candidate pairs.
package candidate

import (
	"context"
	"errors"
	"fmt"

	"github.com/progracyd/newsim/internal/index"
	"github.com/progracyd/newsim/internal/logging"
	"github.com/progracyd/newsim/internal/model"
)

// Cell is one (band index, bucket hash) group with at least two ids.
type Cell struct {
	Band   int
	Bucket uint64
	IDs    []string
}

type cellKey struct {
	band   int
	bucket uint64
}

// Generator produces Cells for a tag from the similarity index.
type Generator struct {
	idx *index.Index
	log *logging.Logger
}

// New builds a Generator reading from idx.
func New(idx *index.Index, log *logging.Logger) *Generator {
	return &Generator{idx: idx, log: log}
}

// Generate reads every id under tag, groups them by (band, bucket),
// and returns the cells with at least two members. Ids whose
// ArticleRecord is incomplete (missing bands) are skipped with a
// logged warning, not an error — writes are only atomic per key, so a
// partially-visible record is expected under concurrent ingestion.
func (g *Generator) Generate(ctx context.Context, tag string) ([]Cell, error) {
	ids, err := g.idx.IterIDs(ctx, tag)
	if err != nil {
		return nil, fmt.Errorf("candidate: iter ids for %s: %w", tag, err)
	}

	groups := make(map[cellKey][]string)
	for _, id := range ids {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		bands, err := g.idx.GetBands(ctx, id)
		if err != nil {
			if errors.Is(err, model.ErrMissingRecord) {
				g.log.Warn("candidate: tag %s: incomplete record for %s, skipping", tag, id)
				continue
			}
			return nil, fmt.Errorf("candidate: get bands %s: %w", id, err)
		}

		for band, bucket := range bands {
			k := cellKey{band: band, bucket: bucket}
			groups[k] = append(groups[k], id)
		}
	}

	cells := make([]Cell, 0, len(groups))
	for k, memberIDs := range groups {
		if len(memberIDs) < 2 {
			continue
		}
		cells = append(cells, Cell{Band: k.band, Bucket: k.bucket, IDs: memberIDs})
	}
	return cells, nil
}
