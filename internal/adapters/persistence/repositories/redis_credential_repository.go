package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"roadcare/internal/core/domain"

	"github.com/redis/go-redis/v9"
)

// redisCredentialRepository keeps one key per browser session and lets
// Redis expire it together with the credential
type redisCredentialRepository struct {
	client *redis.Client
}

// NewRedisCredentialRepository creates a Redis-backed credential repository
func NewRedisCredentialRepository(client *redis.Client) CredentialRepository {
	return &redisCredentialRepository{client: client}
}

func credentialKey(key string) string {
	return fmt.Sprintf("credential:%s", hashKey(key))
}

func (r *redisCredentialRepository) Get(ctx context.Context, key string) (string, error) {
	token, err := r.client.Get(ctx, credentialKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", domain.ErrCredentialNotFound
		}
		return "", err
	}
	return token, nil
}

func (r *redisCredentialRepository) Put(ctx context.Context, key, token string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return r.Delete(ctx, key)
	}
	return r.client.Set(ctx, credentialKey(key), token, ttl).Err()
}

func (r *redisCredentialRepository) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, credentialKey(key)).Err()
}

// DeleteExpired is a no-op: keys carry their own TTL
func (r *redisCredentialRepository) DeleteExpired(context.Context) (int64, error) {
	return 0, nil
}
