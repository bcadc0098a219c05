package repositories

import (
	"context"
	"errors"
	"time"

	"roadcare/internal/adapters/persistence/models"
	"roadcare/internal/core/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// credentialRepository implements CredentialRepository on MySQL
type credentialRepository struct {
	db *gorm.DB
}

// NewCredentialRepository creates a GORM-backed credential repository
func NewCredentialRepository(db *gorm.DB) CredentialRepository {
	return &credentialRepository{db: db}
}

// Get returns the credential stored for key
func (r *credentialRepository) Get(ctx context.Context, key string) (string, error) {
	var row models.StoredCredential
	err := r.db.WithContext(ctx).
		Where("session_key = ?", hashKey(key)).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", domain.ErrCredentialNotFound
		}
		return "", err
	}
	return row.Token, nil
}

// Put stores or replaces the credential for key
func (r *credentialRepository) Put(ctx context.Context, key, token string, expiresAt time.Time) error {
	row := &models.StoredCredential{
		SessionKey: hashKey(key),
		Token:      token,
		ExpiresAt:  expiresAt,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"token", "expires_at", "updated_at"}),
		}).
		Create(row).Error
}

// Delete removes the credential for key
func (r *credentialRepository) Delete(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).
		Where("session_key = ?", hashKey(key)).
		Delete(&models.StoredCredential{}).Error
}

// DeleteExpired deletes all expired credentials (cleanup job)
func (r *credentialRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at <= ?", time.Now()).
		Delete(&models.StoredCredential{})
	return result.RowsAffected, result.Error
}
