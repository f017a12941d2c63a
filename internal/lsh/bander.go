// Package lsh implements banded Locality-Sensitive Hashing: a
// signature of length K is split into B contiguous bands of R rows,
// and each band is hashed to a bucket identifier in [0, M).
package lsh

import (
	"github.com/progracyd/newsim/internal/hashutil"
	"github.com/progracyd/newsim/internal/model"
)

// Bander converts signatures into band-bucket identifiers under a
// fixed (B, R, M).
type Bander struct {
	params model.SignatureParameters
}

// New builds a Bander bound to params.
func New(params model.SignatureParameters) *Bander {
	return &Bander{params: params}
}

// Bands computes the B bucket hashes for a signature. Returns
// model.ErrBadSignatureLength if len(sig) != K.
func (b *Bander) Bands(sig model.Signature) (model.Bands, error) {
	if len(sig) != b.params.K {
		return nil, model.ErrBadSignatureLength
	}

	bands := make(model.Bands, b.params.B)
	for i := 0; i < b.params.B; i++ {
		row := sig[i*b.params.R : (i+1)*b.params.R]
		bands[i] = hashutil.RowHash(row) % b.params.M
	}
	return bands, nil
}
