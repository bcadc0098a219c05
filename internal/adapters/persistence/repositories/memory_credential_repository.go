package repositories

import (
	"context"
	"sync"
	"time"

	"roadcare/internal/core/domain"
)

type memoryEntry struct {
	token     string
	expiresAt time.Time
}

// memoryCredentialRepository keeps credentials in process memory.
// Used in dev mode and tests; everything is lost on restart.
type memoryCredentialRepository struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

// NewMemoryCredentialRepository creates an in-memory credential repository
func NewMemoryCredentialRepository() CredentialRepository {
	return &memoryCredentialRepository{entries: map[string]memoryEntry{}}
}

func (r *memoryCredentialRepository) Get(_ context.Context, key string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[key]
	if !ok {
		return "", domain.ErrCredentialNotFound
	}
	return entry.token, nil
}

func (r *memoryCredentialRepository) Put(_ context.Context, key, token string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[key] = memoryEntry{token: token, expiresAt: expiresAt}
	return nil
}

func (r *memoryCredentialRepository) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, key)
	return nil
}

func (r *memoryCredentialRepository) DeleteExpired(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	var removed int64
	for key, entry := range r.entries {
		if !now.Before(entry.expiresAt) {
			delete(r.entries, key)
			removed++
		}
	}
	return removed, nil
}
