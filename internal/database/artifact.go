package database

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"gedops/internal/types"
)

type (
	artifactRepository struct {
		db *gorm.DB
	}

	runRepository struct {
		db *gorm.DB
	}
)

func NewArtifactRepository(db *gorm.DB) ArtifactRepository {
	return &artifactRepository{db: db}
}

func (r artifactRepository) Save(ctx context.Context, artifact *types.Artifact) error {
	return r.db.WithContext(ctx).Save(artifact).Error
}

func (r artifactRepository) FindAll(ctx context.Context) ([]*types.Artifact, error) {
	result := make([]*types.Artifact, 0)
	err := r.db.WithContext(ctx).Order("created_at desc").Find(&result).Error
	return result, err
}

func (r artifactRepository) FindByID(ctx context.Context, id uuid.UUID) (*types.Artifact, error) {
	artifact := &types.Artifact{}
	err := r.db.WithContext(ctx).Where("id = ?", id).First(artifact).Error
	return artifact, err
}

func (r artifactRepository) FindBySource(ctx context.Context, source types.ArtifactSource) ([]*types.Artifact, error) {
	result := make([]*types.Artifact, 0)
	err := r.db.WithContext(ctx).Where("source = ?", source).Order("created_at desc").Find(&result).Error
	return result, err
}

func (r artifactRepository) DeleteByLocation(ctx context.Context, location string) error {
	return r.db.WithContext(ctx).Where("location = ?", location).Delete(&types.Artifact{}).Error
}

func NewRunRepository(db *gorm.DB) RunRepository {
	return &runRepository{db: db}
}

func (r runRepository) Save(ctx context.Context, run *types.Run) error {
	return r.db.WithContext(ctx).Save(run).Error
}

func (r runRepository) FindRecent(ctx context.Context, limit int) ([]*types.Run, error) {
	result := make([]*types.Run, 0)
	err := r.db.WithContext(ctx).Order("started_at desc").Limit(limit).Find(&result).Error
	return result, err
}
