package minhash

import (
	"math/bits"

	"github.com/progracyd/newsim/internal/model"
)

// mask61 covers the low 61 bits, equal to model.Prime (2^61-1).
const mask61 = model.Prime

func mul64(a, b uint64) (hi, lo uint64) {
	return bits.Mul64(a, b)
}

func add64(a, b uint64) (sum, carry uint64) {
	sum, c := bits.Add64(a, b, 0)
	return sum, c
}

// foldOnce exploits 2^61 ≡ 1 (mod 2^61-1): splitting t into its low 61
// bits and the remainder folds the value without changing it mod p.
func foldOnce(t uint64) uint64 {
	return (t & mask61) + (t >> 61)
}

// mod61 reduces the 128-bit value hi*2^64+lo modulo the Mersenne prime
// 2^61-1, using 2^64 ≡ 8 (mod p) to fold hi into the same domain as
// lo before repeated folding converges to a value below 2p.
func mod61(hi, lo uint64) uint64 {
	t := foldOnce(lo) + hi*8
	for i := 0; i < 3; i++ {
		t = foldOnce(t)
	}
	for t >= model.Prime {
		t -= model.Prime
	}
	return t
}
