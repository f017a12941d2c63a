package store

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// Redis is the production Adapter backend: HSet/HGet/HGetAll for the
// news:/jacc_sim:/dup_cand:/params hashes, SAdd/SMembers/SCard for the
// lsh:/lsh_keys sets.
type Redis struct {
	client *redis.Client
}

// NewRedis wraps an existing go-redis client. Connection lifecycle
// (dialing, pooling) is the caller's responsibility: acquire the
// handle once and reuse it across calls.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (r *Redis) HSet(ctx context.Context, key, field, value string) error {
	return r.client.HSet(ctx, key, field, value).Err()
}

func (r *Redis) HGet(ctx context.Context, key, field string) (string, bool, error) {
	v, err := r.client.HGet(ctx, key, field).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (r *Redis) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	return r.client.HGetAll(ctx, key).Result()
}

func (r *Redis) SAdd(ctx context.Context, key, member string) error {
	return r.client.SAdd(ctx, key, member).Err()
}

func (r *Redis) SMembers(ctx context.Context, key string) ([]string, error) {
	return r.client.SMembers(ctx, key).Result()
}

func (r *Redis) SCard(ctx context.Context, key string) (int, error) {
	n, err := r.client.SCard(ctx, key).Result()
	return int(n), err
}

var _ Adapter = (*Redis)(nil)
