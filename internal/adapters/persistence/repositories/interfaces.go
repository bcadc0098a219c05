package repositories

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// CredentialRepository persists raw credentials under opaque keys.
// Get returns domain.ErrCredentialNotFound when nothing usable is stored.
type CredentialRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key, token string, expiresAt time.Time) error
	Delete(ctx context.Context, key string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// hashKey hashes a session key before it reaches shared storage
func hashKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}
