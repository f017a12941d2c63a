// Package hashutil provides the single stable 64-bit hash primitive
// shared by the MinHash signer and the LSH bander, so the two agree on
// what "stable across runs and machines" means. It wraps
// github.com/cespare/xxhash/v2 instead of hash/fnv so behavior doesn't
// depend on Go's stdlib hash internals.
package hashutil

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// TokenHash returns a deterministic 64-bit hash of a token, used as
// the input x to each MinHash permutation h_i(x) = (a_i*x+b_i) mod p.
func TokenHash(token string) uint64 {
	return xxhash.Sum64String(token)
}

// RowHash hashes a band's row tuple (R consecutive signature
// components) into a single 64-bit bucket identifier. Reduction
// modulo the bucket-space size M happens in the caller.
func RowHash(row []uint64) uint64 {
	buf := make([]byte, 8*len(row))
	for i, v := range row {
		binary.LittleEndian.PutUint64(buf[i*8:], v)
	}
	return xxhash.Sum64(buf)
}
