package cleanup

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gedops/internal/storage"
	"gedops/internal/types"
)

type fakeAuditLogRepository struct {
	logs    []*types.AuditLog
	deleted []uuid.UUID
}

func (f *fakeAuditLogRepository) FindOlderThan(ctx context.Context, cutoff time.Time) ([]*types.AuditLog, error) {
	result := make([]*types.AuditLog, 0)
	for _, entry := range f.logs {
		if entry.Timestamp.Before(cutoff) {
			result = append(result, entry)
		}
	}
	return result, nil
}

func (f *fakeAuditLogRepository) DeleteAll(ctx context.Context, ids []uuid.UUID) error {
	f.deleted = append(f.deleted, ids...)
	return nil
}

type failingStorage struct {
	storage.Storage
}

func (failingStorage) Save(ctx context.Context, location string, f types.File) error {
	return assert.AnError
}

func auditEntry(ageDays int, action string, now time.Time) *types.AuditLog {
	return &types.AuditLog{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		Action:    action,
		TableName: "documents",
		Timestamp: now.Add(-time.Duration(ageDays) * 24 * time.Hour),
	}
}

func TestAuditJob_ArchiveCoversDeletedSet(t *testing.T) {
	dir := t.TempDir()
	now := time.Now().UTC()

	old1 := auditEntry(400, "document.create", now)
	old2 := auditEntry(366, "document.delete", now)
	recent := auditEntry(100, "login", now)
	repo := &fakeAuditLogRepository{logs: []*types.AuditLog{old1, old2, recent}}

	job := NewAudit(repo, storage.NewFileStorage(), dir, 365)
	report, err := job.Run(context.Background(), Options{Now: now, Archive: true})
	require.NoError(t, err)

	assert.Equal(t, 2, report.Deleted)
	require.NotEmpty(t, report.ArchiveLocation)
	assert.FileExists(t, report.ArchiveLocation)

	raw, err := os.ReadFile(report.ArchiveLocation)
	require.NoError(t, err)

	var archived []*types.AuditLog
	require.NoError(t, json.Unmarshal(raw, &archived))

	archivedIDs := lo.Map(archived, func(e *types.AuditLog, _ int) uuid.UUID { return e.ID })
	assert.ElementsMatch(t, archivedIDs, repo.deleted)
	assert.ElementsMatch(t, archivedIDs, []uuid.UUID{old1.ID, old2.ID})
	assert.NotContains(t, archivedIDs, recent.ID)
}

func TestAuditJob_ArchiveFailureAbortsDeletion(t *testing.T) {
	now := time.Now().UTC()
	repo := &fakeAuditLogRepository{logs: []*types.AuditLog{auditEntry(400, "x", now)}}

	job := NewAudit(repo, failingStorage{}, t.TempDir(), 365)
	report, err := job.Run(context.Background(), Options{Now: now, Archive: true})

	require.Error(t, err)
	assert.Empty(t, repo.deleted)
	assert.Zero(t, report.Deleted)
	assert.Equal(t, 1, report.Failed)
}

func TestAuditJob_NoArchiveDeletesOutright(t *testing.T) {
	now := time.Now().UTC()
	old := auditEntry(400, "x", now)
	repo := &fakeAuditLogRepository{logs: []*types.AuditLog{old}}

	job := NewAudit(repo, failingStorage{}, t.TempDir(), 365)
	report, err := job.Run(context.Background(), Options{Now: now, Archive: false})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Deleted)
	assert.Empty(t, report.ArchiveLocation)
	assert.Equal(t, []uuid.UUID{old.ID}, repo.deleted)
}

func TestAuditJob_DryRunWritesNoArchive(t *testing.T) {
	dir := t.TempDir()
	now := time.Now().UTC()
	repo := &fakeAuditLogRepository{logs: []*types.AuditLog{auditEntry(400, "x", now)}}

	job := NewAudit(repo, storage.NewFileStorage(), dir, 365)
	report, err := job.Run(context.Background(), Options{Now: now, DryRun: true, Archive: true})
	require.NoError(t, err)

	assert.Len(t, report.Candidates, 1)
	assert.Zero(t, report.Deleted)
	assert.Empty(t, repo.deleted)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
