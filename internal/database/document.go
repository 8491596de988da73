package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"gedops/internal/types"
)

type documentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

func (r documentRepository) FindExpiredTrash(ctx context.Context, cutoff time.Time) ([]*types.Document, error) {
	result := make([]*types.Document, 0)
	err := r.db.WithContext(ctx).
		Preload("Versions").
		Where("status = ?", types.DocumentStatusDeleted).
		Where("deleted_at IS NOT NULL").
		Where("deleted_at < ?", cutoff).
		Find(&result).Error
	return result, err
}

func (r documentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("document_id = ?", id).Delete(&types.DocumentVersion{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&types.Document{}).Error
	})
}
