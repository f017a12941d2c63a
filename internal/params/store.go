// Package params implements the parameter store: it loads or generates
// the K MinHash permutation coefficients and the (B,R,M) LSH shape,
// persists them under the adapter's "params" key so every run and
// every machine computes identical signatures, and rejects a
// configuration that disagrees with what was already persisted.
package params

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/progracyd/newsim/internal/model"
	"github.com/progracyd/newsim/internal/store"
)

const key = "params"

// Store loads or generates SignatureParameters via a store.Adapter.
type Store struct {
	adapter store.Adapter
}

// New builds a Store bound to adapter.
func New(adapter store.Adapter) *Store {
	return &Store{adapter: adapter}
}

// Config is the configured shape a deployment expects; LoadOrInit
// compares it against whatever is already persisted.
type Config struct {
	K    int
	B    int
	R    int
	M    uint64
	Seed uint64
}

// LoadOrInit loads persisted SignatureParameters if present, or
// generates and persists fresh ones seeded from cfg.Seed. It returns
// model.ErrParameterMismatch if persisted K/B/R disagree with cfg.
func (s *Store) LoadOrInit(ctx context.Context, cfg Config) (model.SignatureParameters, error) {
	fields, err := s.adapter.HGetAll(ctx, key)
	if err != nil {
		return model.SignatureParameters{}, fmt.Errorf("params: load: %w", err)
	}

	if len(fields) == 0 {
		p := generate(cfg)
		if err := s.persist(ctx, p); err != nil {
			return model.SignatureParameters{}, fmt.Errorf("params: persist: %w", err)
		}
		return p, nil
	}

	p, err := decode(fields)
	if err != nil {
		return model.SignatureParameters{}, fmt.Errorf("params: decode: %w", err)
	}
	if p.K != cfg.K || p.B != cfg.B || p.R != cfg.R {
		return model.SignatureParameters{}, fmt.Errorf("%w: stored K=%d B=%d R=%d, configured K=%d B=%d R=%d",
			model.ErrParameterMismatch, p.K, p.B, p.R, cfg.K, cfg.B, cfg.R)
	}
	return p, nil
}

// generate samples K fresh (a_i, b_i) permutation coefficients from a
// seeded ChaCha8 source, so two processes given the same seed produce
// byte-identical parameters.
func generate(cfg Config) model.SignatureParameters {
	var seed [32]byte
	for i := 0; i < 4; i++ {
		v := cfg.Seed + uint64(i)*0x9E3779B97F4A7C15
		for b := 0; b < 8; b++ {
			seed[i*8+b] = byte(v >> (8 * b))
		}
	}
	rng := rand.New(rand.NewChaCha8(seed))

	a := make([]uint64, cfg.K)
	b := make([]uint64, cfg.K)
	for i := 0; i < cfg.K; i++ {
		a[i] = 1 + rng.Uint64N(model.Prime-1)
		b[i] = rng.Uint64N(model.Prime)
	}

	return model.SignatureParameters{
		K: cfg.K, B: cfg.B, R: cfg.R, M: cfg.M,
		A: a, Bc: b,
	}
}

func (s *Store) persist(ctx context.Context, p model.SignatureParameters) error {
	fields := encode(p)
	for field, val := range fields {
		if err := s.adapter.HSet(ctx, key, field, val); err != nil {
			return err
		}
	}
	return nil
}

func encode(p model.SignatureParameters) map[string]string {
	return map[string]string{
		"K":  strconv.Itoa(p.K),
		"B":  strconv.Itoa(p.B),
		"R":  strconv.Itoa(p.R),
		"M":  strconv.FormatUint(p.M, 10),
		"a":  joinUints(p.A),
		"bc": joinUints(p.Bc),
	}
}

func decode(fields map[string]string) (model.SignatureParameters, error) {
	var p model.SignatureParameters
	var err error
	if p.K, err = strconv.Atoi(fields["K"]); err != nil {
		return p, fmt.Errorf("bad K: %w", err)
	}
	if p.B, err = strconv.Atoi(fields["B"]); err != nil {
		return p, fmt.Errorf("bad B: %w", err)
	}
	if p.R, err = strconv.Atoi(fields["R"]); err != nil {
		return p, fmt.Errorf("bad R: %w", err)
	}
	if p.M, err = strconv.ParseUint(fields["M"], 10, 64); err != nil {
		return p, fmt.Errorf("bad M: %w", err)
	}
	if p.A, err = splitUints(fields["a"]); err != nil {
		return p, fmt.Errorf("bad a: %w", err)
	}
	if p.Bc, err = splitUints(fields["bc"]); err != nil {
		return p, fmt.Errorf("bad bc: %w", err)
	}
	return p, p.Validate()
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
