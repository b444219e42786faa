package service

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisTokenStore keeps revoked token ids as expiring Redis keys.
type RedisTokenStore struct {
	client *redis.Client
	prefix string
}

func NewRedisTokenStore(client *redis.Client) *RedisTokenStore {
	return &RedisTokenStore{client: client, prefix: "auth:revoked"}
}

func (s *RedisTokenStore) key(tokenID string) string {
	return s.prefix + ":" + tokenID
}

func (s *RedisTokenStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	return s.client.Set(ctx, s.key(tokenID), 1, ttl).Err()
}

func (s *RedisTokenStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
