package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"gedops/internal/types"
)

type tokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &tokenRepository{db: db}
}

func (r tokenRepository) FindExpired(ctx context.Context, now time.Time) ([]*types.PasswordResetToken, error) {
	result := make([]*types.PasswordResetToken, 0)
	err := r.db.WithContext(ctx).Where("expires_at < ?", now).Find(&result).Error
	return result, err
}

func (r tokenRepository) FindUsed(ctx context.Context) ([]*types.PasswordResetToken, error) {
	result := make([]*types.PasswordResetToken, 0)
	err := r.db.WithContext(ctx).Where("used = ?", true).Find(&result).Error
	return result, err
}

func (r tokenRepository) DeleteAll(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&types.PasswordResetToken{}).Error
}
