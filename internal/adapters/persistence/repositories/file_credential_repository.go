package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"roadcare/internal/core/domain"
)

type fileEntry struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// fileCredentialRepository stores credentials in a single JSON file owned
// by the current user. The file is written with mode 0600 since it holds
// access tokens; its directory is created with mode 0700.
type fileCredentialRepository struct {
	path string
	mu   sync.Mutex
}

// NewFileCredentialRepository creates a repository backed by the file at path
func NewFileCredentialRepository(path string) CredentialRepository {
	return &fileCredentialRepository{path: path}
}

func (r *fileCredentialRepository) Get(_ context.Context, key string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries, err := r.load()
	if err != nil {
		return "", err
	}
	entry, ok := entries[key]
	if !ok || entry.AccessToken == "" {
		return "", domain.ErrCredentialNotFound
	}
	return entry.AccessToken, nil
}

func (r *fileCredentialRepository) Put(_ context.Context, key, token string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries, err := r.load()
	if err != nil {
		return err
	}
	entries[key] = fileEntry{AccessToken: token, ExpiresAt: expiresAt}
	return r.save(entries)
}

func (r *fileCredentialRepository) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries, err := r.load()
	if err != nil {
		return err
	}
	if _, ok := entries[key]; !ok {
		return nil
	}
	delete(entries, key)
	return r.save(entries)
}

func (r *fileCredentialRepository) DeleteExpired(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries, err := r.load()
	if err != nil {
		return 0, err
	}

	now := time.Now()
	var removed int64
	for key, entry := range entries {
		if !now.Before(entry.ExpiresAt) {
			delete(entries, key)
			removed++
		}
	}
	if removed == 0 {
		return 0, nil
	}
	return removed, r.save(entries)
}

func (r *fileCredentialRepository) load() (map[string]fileEntry, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]fileEntry{}, nil
		}
		return nil, fmt.Errorf("reading credential file %s: %w", r.path, err)
	}

	entries := map[string]fileEntry{}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing credential file %s: %w", r.path, err)
	}
	return entries, nil
}

// save writes entries back, removing the file once nothing is left in it
func (r *fileCredentialRepository) save(entries map[string]fileEntry) error {
	if len(entries) == 0 {
		if err := os.Remove(r.path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing credential file %s: %w", r.path, err)
		}
		return nil
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling credentials: %w", err)
	}
	data = append(data, '\n')

	directory := filepath.Dir(r.path)
	if err := os.MkdirAll(directory, 0700); err != nil {
		return fmt.Errorf("creating credential directory %s: %w", directory, err)
	}

	if err := os.WriteFile(r.path, data, 0600); err != nil {
		return fmt.Errorf("writing credential file %s: %w", r.path, err)
	}
	return nil
}
