package database

import (
	"context"
	"time"

	"github.com/google/uuid"

	"gedops/internal/types"
)

// DocumentRepository exposes the trash-relevant slice of the GED schema.
type DocumentRepository interface {
	FindExpiredTrash(ctx context.Context, cutoff time.Time) ([]*types.Document, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type TokenRepository interface {
	FindExpired(ctx context.Context, now time.Time) ([]*types.PasswordResetToken, error)
	FindUsed(ctx context.Context) ([]*types.PasswordResetToken, error)
	DeleteAll(ctx context.Context, ids []uuid.UUID) error
}

type AuditLogRepository interface {
	FindOlderThan(ctx context.Context, cutoff time.Time) ([]*types.AuditLog, error)
	DeleteAll(ctx context.Context, ids []uuid.UUID) error
}

type ArtifactRepository interface {
	Save(ctx context.Context, artifact *types.Artifact) error
	FindAll(ctx context.Context) ([]*types.Artifact, error)
	FindByID(ctx context.Context, id uuid.UUID) (*types.Artifact, error)
	FindBySource(ctx context.Context, source types.ArtifactSource) ([]*types.Artifact, error)
	DeleteByLocation(ctx context.Context, location string) error
}

type RunRepository interface {
	Save(ctx context.Context, run *types.Run) error
	FindRecent(ctx context.Context, limit int) ([]*types.Run, error)
}
