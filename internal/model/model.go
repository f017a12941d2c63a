// Package model holds the plain data types shared across the
// near-duplicate detection engine: articles, signatures, and the
// records persisted by the similarity index and verifier.
package model

import "fmt"

// SignatureParameters fixes the MinHash/LSH shape for a deployment.
// K = B*R is enforced by the parameter store, never recomputed here.
type SignatureParameters struct {
	K int
	B int
	R int
	M uint64

	// A and Bc are the K permutation coefficients h_i(x) = (A[i]*x+Bc[i]) mod P.
	A  []uint64
	Bc []uint64
}

// Prime is the Mersenne prime 2^61-1 used as the permutation modulus.
const Prime uint64 = (1 << 61) - 1

// Validate checks the K=B*R invariant.
func (p SignatureParameters) Validate() error {
	if p.B*p.R != p.K {
		return fmt.Errorf("signature parameters invalid: K=%d != B*R=%d*%d", p.K, p.B, p.R)
	}
	if len(p.A) != p.K || len(p.Bc) != p.K {
		return fmt.Errorf("signature parameters invalid: expected %d coefficients, got A=%d Bc=%d", p.K, len(p.A), len(p.Bc))
	}
	return nil
}

// Signature is a length-K MinHash signature.
type Signature []uint64

// Bands is a length-B sequence of LSH bucket hashes.
type Bands []uint64

// PreprocessedArticle is the external ingest record: produced by an
// upstream stemming/shingling pipeline. Unknown fields are ignored by
// the JSON decoder.
type PreprocessedArticle struct {
	ID              string   `json:"id"`
	Headline        string   `json:"headline"`
	Timestamp       int64    `json:"timestamp"`
	TagCompany      []string `json:"tag_company"`
	TextBodyStemmed []string `json:"text_body_stemmed"`
}

// ArticleRecord is what the similarity index persists per id.
type ArticleRecord struct {
	ID        string
	Signature Signature
	Bands     Bands
	Timestamp int64
	Headline  string
	Tags      []string
}

// DuplicatePair is a confirmed near-duplicate, persisted under
// dup_cand:<later_id>.
type DuplicatePair struct {
	LaterID   string
	EarlierID string
	Sim       float64
}

// Later reports whether (idA, tsA) sorts after (idB, tsB) under the
// later/earlier ordering rule: strictly greater timestamp wins, ties
// broken by the lexicographically greater id.
func Later(idA string, tsA int64, idB string, tsB int64) bool {
	if tsA != tsB {
		return tsA > tsB
	}
	return idA > idB
}

// OrderPair returns (later, earlier) ids per the ordering rule.
func OrderPair(idA string, tsA int64, idB string, tsB int64) (laterID, earlierID string) {
	if Later(idA, tsA, idB, tsB) {
		return idA, idB
	}
	return idB, idA
}
