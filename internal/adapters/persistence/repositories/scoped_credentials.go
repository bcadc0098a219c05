package repositories

import (
	"context"
	"errors"
	"time"

	"roadcare/internal/core/domain"
	"roadcare/internal/pkg/jwt"
)

// DefaultCredentialTTL bounds how long an undecodable credential is kept
const DefaultCredentialTTL = 24 * time.Hour

// ScopedCredentials binds a repository to one fixed key. It satisfies both
// the session store's credential contract and the API client's token source.
type ScopedCredentials struct {
	repo CredentialRepository
	key  string
}

// Scoped returns the credential slot stored under key
func Scoped(repo CredentialRepository, key string) *ScopedCredentials {
	return &ScopedCredentials{repo: repo, key: key}
}

// Get returns the stored credential, or "" when none is stored
func (s *ScopedCredentials) Get(ctx context.Context) (string, error) {
	token, err := s.repo.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, domain.ErrCredentialNotFound) {
			return "", nil
		}
		return "", err
	}
	return token, nil
}

// Set stores token, kept until the credential's own expiry
func (s *ScopedCredentials) Set(ctx context.Context, token string) error {
	expiresAt := jwt.ExpiresAt(token)
	if expiresAt.IsZero() {
		expiresAt = time.Now().Add(DefaultCredentialTTL)
	}
	return s.repo.Put(ctx, s.key, token, expiresAt)
}

// Remove purges the stored credential
func (s *ScopedCredentials) Remove(ctx context.Context) error {
	return s.repo.Delete(ctx, s.key)
}
