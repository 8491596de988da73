package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gedops/internal/backup"
	"gedops/internal/config"
	"gedops/internal/storage"
	"gedops/internal/types"
)

type fakeExecutor struct {
	name      string
	fileName  string
	execErr   error
	verifyErr error
	produced  string
}

func (f *fakeExecutor) Name() string {
	return f.name
}

func (f *fakeExecutor) Execute(ctx context.Context, params backup.Params) (backup.Result, error) {
	if f.execErr != nil {
		return backup.Result{}, f.execErr
	}
	if err := os.MkdirAll(params.OutputDir, 0o700); err != nil {
		return backup.Result{}, err
	}

	f.produced = filepath.Join(params.OutputDir, f.fileName)
	if err := os.WriteFile(f.produced, []byte("dump bytes"), 0o600); err != nil {
		return backup.Result{}, err
	}
	return backup.Result{Location: f.produced, Size: 10}, nil
}

func (f *fakeExecutor) Verify(ctx context.Context, location string) error {
	return f.verifyErr
}

type fakeArtifactRepository struct {
	saved []*types.Artifact
}

func (f *fakeArtifactRepository) Save(ctx context.Context, artifact *types.Artifact) error {
	f.saved = append(f.saved, artifact)
	return nil
}

func (f *fakeArtifactRepository) FindAll(ctx context.Context) ([]*types.Artifact, error) {
	return f.saved, nil
}

func (f *fakeArtifactRepository) FindByID(ctx context.Context, id uuid.UUID) (*types.Artifact, error) {
	for _, a := range f.saved {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, assert.AnError
}

func (f *fakeArtifactRepository) FindBySource(ctx context.Context, source types.ArtifactSource) ([]*types.Artifact, error) {
	result := make([]*types.Artifact, 0)
	for _, a := range f.saved {
		if a.Source == source {
			result = append(result, a)
		}
	}
	return result, nil
}

func (f *fakeArtifactRepository) DeleteByLocation(ctx context.Context, location string) error {
	kept := f.saved[:0]
	for _, a := range f.saved {
		if a.Location != location {
			kept = append(kept, a)
		}
	}
	f.saved = kept
	return nil
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		BackupDir:             t.TempDir(),
		DatabaseRetentionDays: 90,
		FilesRetentionDays:    90,
		VerifyBackups:         true,
	}
}

func newTestBackupService(cfg config.Config, dbExec, filesExec backup.Executor,
	artifacts *fakeArtifactRepository) BackupService {
	return NewBackupService(cfg, dbExec, filesExec, storage.NewFileStorage(), nil,
		artifacts, &fakeRunRepository{}, nil)
}

func TestBackupService_CatalogsVerifiedArtifact(t *testing.T) {
	cfg := testConfig(t)
	dbExec := &fakeExecutor{name: "sqlite", fileName: "ged_backup_20240101_020000.db"}
	artifacts := &fakeArtifactRepository{}

	svc := newTestBackupService(cfg, dbExec, &fakeExecutor{name: "files"}, artifacts)
	artifact, err := svc.RunDatabase(context.Background())
	require.NoError(t, err)

	assert.True(t, artifact.Verified)
	assert.Equal(t, types.ArtifactSourceDatabase, artifact.Source)
	assert.FileExists(t, artifact.Location)
	require.Len(t, artifacts.saved, 1)
	assert.Equal(t, artifact.ID, artifacts.saved[0].ID)
}

func TestBackupService_VerificationFailureRemovesArtifact(t *testing.T) {
	cfg := testConfig(t)
	dbExec := &fakeExecutor{
		name:      "sqlite",
		fileName:  "ged_backup_20240101_020000.db",
		verifyErr: assert.AnError,
	}
	artifacts := &fakeArtifactRepository{}

	svc := newTestBackupService(cfg, dbExec, &fakeExecutor{name: "files"}, artifacts)
	_, err := svc.RunDatabase(context.Background())

	require.Error(t, err)
	assert.NoFileExists(t, dbExec.produced)
	assert.Empty(t, artifacts.saved)
}

func TestBackupService_RunAllContinuesPastFailure(t *testing.T) {
	cfg := testConfig(t)
	dbExec := &fakeExecutor{name: "sqlite", execErr: assert.AnError}
	filesExec := &fakeExecutor{name: "files", fileName: "files_backup_20240101_030000.zip"}
	artifacts := &fakeArtifactRepository{}

	svc := newTestBackupService(cfg, dbExec, filesExec, artifacts)
	summary, err := svc.RunAll(context.Background())
	require.NoError(t, err)

	assert.False(t, summary.Ok())
	assert.Equal(t, []string{"database backup"}, summary.Failures())
	// the file backup still ran and was cataloged
	require.Len(t, artifacts.saved, 1)
	assert.Equal(t, types.ArtifactSourceFiles, artifacts.saved[0].Source)
}

func TestBackupService_PruneArtifacts(t *testing.T) {
	cfg := testConfig(t)
	dir := cfg.DatabaseBackupDir()
	require.NoError(t, os.MkdirAll(dir, 0o700))

	oldPath := filepath.Join(dir, "ged_backup_20230101_020000.db")
	newPath := filepath.Join(dir, "ged_backup_20240601_020000.db")
	require.NoError(t, os.WriteFile(oldPath, []byte("old"), 0o600))
	require.NoError(t, os.WriteFile(newPath, []byte("new"), 0o600))

	stale := time.Now().Add(-91 * 24 * time.Hour)
	require.NoError(t, os.Chtimes(oldPath, stale, stale))

	artifacts := &fakeArtifactRepository{saved: []*types.Artifact{
		{ID: uuid.New(), Source: types.ArtifactSourceDatabase, Location: oldPath},
		{ID: uuid.New(), Source: types.ArtifactSourceDatabase, Location: newPath},
	}}

	svc := newTestBackupService(cfg, &fakeExecutor{name: "sqlite"}, &fakeExecutor{name: "files"}, artifacts)
	pruned, err := svc.PruneArtifacts(context.Background(), types.ArtifactSourceDatabase)
	require.NoError(t, err)

	assert.Equal(t, 1, pruned)
	assert.NoFileExists(t, oldPath)
	assert.FileExists(t, newPath)
	require.Len(t, artifacts.saved, 1)
	assert.Equal(t, newPath, artifacts.saved[0].Location)
}
