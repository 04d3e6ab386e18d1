package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/pyconafrica/registration/internal/core/domain"
)

// ActivationStore keeps pending activation keys in Redis.
// Key format: activation:<uuid> -> username, expiring with the key's TTL.
type ActivationStore struct {
	client *redis.Client
}

// NewActivationStore creates an ActivationStore wrapping the given Redis client.
func NewActivationStore(client *redis.Client) *ActivationStore {
	return &ActivationStore{client: client}
}

// Issue stores a fresh random key for username.
func (s *ActivationStore) Issue(ctx context.Context, username string, ttl time.Duration) (string, error) {
	key := uuid.NewString()
	if err := s.client.Set(ctx, activationKey(key), username, ttl).Err(); err != nil {
		return "", fmt.Errorf("store activation key: %w", err)
	}
	return key, nil
}

// Lookup reads the username bound to key. The key stays valid until Revoke.
func (s *ActivationStore) Lookup(ctx context.Context, key string) (string, error) {
	if _, err := uuid.Parse(key); err != nil {
		return "", domain.ErrActivationKeyInvalid
	}

	username, err := s.client.Get(ctx, activationKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", domain.ErrActivationKeyInvalid
		}
		return "", fmt.Errorf("lookup activation key: %w", err)
	}
	return username, nil
}

// Revoke deletes key.
func (s *ActivationStore) Revoke(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, activationKey(key)).Err(); err != nil {
		return fmt.Errorf("revoke activation key: %w", err)
	}
	return nil
}

func activationKey(key string) string {
	return "activation:" + key
}
