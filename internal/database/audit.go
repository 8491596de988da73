package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"gedops/internal/types"
)

type auditLogRepository struct {
	db *gorm.DB
}

func NewAuditLogRepository(db *gorm.DB) AuditLogRepository {
	return &auditLogRepository{db: db}
}

func (r auditLogRepository) FindOlderThan(ctx context.Context, cutoff time.Time) ([]*types.AuditLog, error) {
	result := make([]*types.AuditLog, 0)
	err := r.db.WithContext(ctx).Where("timestamp < ?", cutoff).Order("timestamp asc").Find(&result).Error
	return result, err
}

func (r auditLogRepository) DeleteAll(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&types.AuditLog{}).Error
}
