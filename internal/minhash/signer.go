// Package minhash implements MinHash signing: a deterministic map from
// a token multiset to a length-K signature whose expected
// component-equality rate estimates Jaccard similarity.
package minhash

import (
	"github.com/progracyd/newsim/internal/hashutil"
	"github.com/progracyd/newsim/internal/model"
)

// Signer computes MinHash signatures under a fixed set of
// SignatureParameters. It holds no mutable state and is safe for
// concurrent use by any number of ingest workers.
type Signer struct {
	params model.SignatureParameters
}

// New builds a Signer bound to params. Callers obtain params from the
// parameter store, never by generating their own.
func New(params model.SignatureParameters) *Signer {
	return &Signer{params: params}
}

// Sign computes the length-K signature of a token multiset. Duplicate
// tokens do not change the result, since the minimum over a multiset
// equals the minimum over its support. Returns model.ErrEmptyInput if
// tokens is empty.
func (s *Signer) Sign(tokens []string) (model.Signature, error) {
	if len(tokens) == 0 {
		return nil, model.ErrEmptyInput
	}

	sig := make(model.Signature, s.params.K)
	for i := range sig {
		sig[i] = model.Prime
	}

	for _, t := range tokens {
		x := hashutil.TokenHash(t) % model.Prime
		for i := 0; i < s.params.K; i++ {
			h := permute(s.params.A[i], s.params.Bc[i], x)
			if h < sig[i] {
				sig[i] = h
			}
		}
	}
	return sig, nil
}

// permute evaluates h(x) = (a*x + b) mod p using 128-bit intermediate
// arithmetic (via bits.Mul64/Add64) so a,x up to p-1 never overflow
// uint64 before the reduction.
func permute(a, b, x uint64) uint64 {
	hi, lo := mul64(a, x)
	lo, carry := add64(lo, b)
	hi += carry
	return mod61(hi, lo)
}
