// Package store defines the persistence adapter abstraction: hash
// maps and unordered string sets, with atomic per-field/per-element
// writes and no multi-key transactions.
package store

import "context"

// Adapter is the abstract key/value store the similarity index,
// verifier, and parameter store are built on. Implementations must
// make HSet and SAdd atomic per field/element; no other multi-key
// guarantee is required.
type Adapter interface {
	// HSet atomically sets one field of the hash at key.
	HSet(ctx context.Context, key, field, value string) error
	// HGet reads one field of the hash at key. Returns ("", false, nil)
	// if the field is absent.
	HGet(ctx context.Context, key, field string) (string, bool, error)
	// HGetAll reads every field of the hash at key. Returns an empty
	// map if key does not exist.
	HGetAll(ctx context.Context, key string) (map[string]string, error)

	// SAdd atomically adds one member to the set at key.
	SAdd(ctx context.Context, key, member string) error
	// SMembers returns every member of the set at key.
	SMembers(ctx context.Context, key string) ([]string, error)
	// SCard returns the number of members of the set at key.
	SCard(ctx context.Context, key string) (int, error)
}
