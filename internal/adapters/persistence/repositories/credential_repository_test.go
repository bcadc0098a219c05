package repositories

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"roadcare/internal/core/domain"
	"roadcare/internal/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func repositoryContract(t *testing.T, repo CredentialRepository) {
	ctx := context.Background()

	_, err := repo.Get(ctx, "browser-a")
	assert.ErrorIs(t, err, domain.ErrCredentialNotFound)

	require.NoError(t, repo.Put(ctx, "browser-a", "tok-a", time.Now().Add(time.Hour)))
	require.NoError(t, repo.Put(ctx, "browser-b", "tok-b", time.Now().Add(-time.Minute)))

	token, err := repo.Get(ctx, "browser-a")
	require.NoError(t, err)
	assert.Equal(t, "tok-a", token)

	require.NoError(t, repo.Put(ctx, "browser-a", "tok-a2", time.Now().Add(time.Hour)))
	token, err = repo.Get(ctx, "browser-a")
	require.NoError(t, err)
	assert.Equal(t, "tok-a2", token)

	removed, err := repo.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	_, err = repo.Get(ctx, "browser-b")
	assert.ErrorIs(t, err, domain.ErrCredentialNotFound)

	require.NoError(t, repo.Delete(ctx, "browser-a"))
	_, err = repo.Get(ctx, "browser-a")
	assert.ErrorIs(t, err, domain.ErrCredentialNotFound)

	require.NoError(t, repo.Delete(ctx, "never-stored"))
}

func TestMemoryCredentialRepository(t *testing.T) {
	repositoryContract(t, NewMemoryCredentialRepository())
}

func TestFileCredentialRepository(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "credential.json")
	repositoryContract(t, NewFileCredentialRepository(path))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "file should be removed once empty")
}

func TestFileCredentialRepository_Permissions(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "roadcare")
	path := filepath.Join(dir, "credential.json")
	repo := NewFileCredentialRepository(path)

	require.NoError(t, repo.Put(context.Background(), "accessToken", "tok", time.Now().Add(time.Hour)))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	dirInfo, err := os.Stat(dir)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0700), dirInfo.Mode().Perm())
}

func TestFileCredentialRepository_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credential.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err := NewFileCredentialRepository(path).Get(context.Background(), "accessToken")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrCredentialNotFound)
}

func TestScopedCredentials(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryCredentialRepository()
	slot := Scoped(repo, "accessToken")

	token, err := slot.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)

	exp := time.Now().Add(10 * time.Minute)
	signed, err := jwt.GenerateAccessToken("u1", "a@b.c", "User", "a", "k", exp)
	require.NoError(t, err)

	require.NoError(t, slot.Set(ctx, signed))
	token, err = slot.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, signed, token)

	other := Scoped(repo, "someone-else")
	token, err = other.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, slot.Remove(ctx))
	token, err = slot.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestHashKey(t *testing.T) {
	h := hashKey("sid-1")
	assert.Len(t, h, 64)
	assert.NotEqual(t, "sid-1", h)
	assert.Equal(t, h, hashKey("sid-1"))
}
