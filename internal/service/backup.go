package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"gedops/internal/backup"
	"gedops/internal/cleanup"
	"gedops/internal/config"
	"gedops/internal/database"
	"gedops/internal/notify"
	"gedops/internal/storage"
	"gedops/internal/types"
	"gedops/logger"
)

type (
	BackupService interface {
		// RunDatabase produces, verifies and catalogs one database dump.
		RunDatabase(ctx context.Context) (*types.Artifact, error)
		// RunFiles archives the upload directory.
		RunFiles(ctx context.Context) (*types.Artifact, error)
		// RunAll is the composite: database then files, continue past
		// failure, aggregate.
		RunAll(ctx context.Context) (Summary, error)

		ListArtifacts(ctx context.Context) ([]*types.Artifact, error)
		VerifyArtifact(ctx context.Context, id uuid.UUID) error
		// PruneArtifacts removes artifacts of the source class older
		// than its retention threshold, returning the removed count.
		PruneArtifacts(ctx context.Context, source types.ArtifactSource) (int, error)
	}

	backupService struct {
		cfg       config.Config
		dbExec    backup.Executor
		filesExec backup.Executor
		store     storage.Storage
		offsite   storage.Storage
		artifacts database.ArtifactRepository
		runs      database.RunRepository
		mailer    notify.Mailer
	}
)

func NewBackupService(
	cfg config.Config,
	dbExec, filesExec backup.Executor,
	store storage.Storage,
	offsite storage.Storage,
	artifacts database.ArtifactRepository,
	runs database.RunRepository,
	mailer notify.Mailer) BackupService {
	return &backupService{
		cfg:       cfg,
		dbExec:    dbExec,
		filesExec: filesExec,
		store:     store,
		offsite:   offsite,
		artifacts: artifacts,
		runs:      runs,
		mailer:    mailer,
	}
}

func (b backupService) RunDatabase(ctx context.Context) (*types.Artifact, error) {
	return b.runExecutor(ctx, b.dbExec, types.ArtifactSourceDatabase,
		b.cfg.DatabaseBackupDir(), b.cfg.DatabaseRetentionDays)
}

func (b backupService) RunFiles(ctx context.Context) (*types.Artifact, error) {
	return b.runExecutor(ctx, b.filesExec, types.ArtifactSourceFiles,
		b.cfg.FilesBackupDir(), b.cfg.FilesRetentionDays)
}

func (b backupService) runExecutor(ctx context.Context, exec backup.Executor,
	source types.ArtifactSource, outputDir string, retentionDays int) (*types.Artifact, error) {
	started := time.Now()

	artifact, err := b.produce(ctx, exec, source, outputDir)
	b.recordRun(ctx, "backup-"+source.String(), started, artifact != nil, err)
	b.notifyResult(source, artifact, err)
	if err != nil {
		return nil, err
	}

	if pruned, perr := b.PruneArtifacts(ctx, source); perr != nil {
		logger.Error("artifact pruning failed", zap.Error(perr), zap.String("source", source.String()))
	} else if pruned > 0 {
		logger.Info("old artifacts pruned",
			zap.Int("count", pruned),
			zap.String("source", source.String()))
	}

	return artifact, nil
}

func (b backupService) produce(ctx context.Context, exec backup.Executor,
	source types.ArtifactSource, outputDir string) (*types.Artifact, error) {
	if err := backup.CheckFreeDisk(ctx, outputDir, b.cfg.MinFreeDiskBytes); err != nil {
		return nil, err
	}

	result, err := exec.Execute(ctx, backup.Params{OutputDir: outputDir})
	if err != nil {
		return nil, errors.Wrapf(err, "%s backup failed", exec.Name())
	}

	verified := false
	if b.cfg.VerifyBackups {
		if err := exec.Verify(ctx, result.Location); err != nil {
			// an unverifiable artifact must not be reported as a backup
			_ = b.store.Delete(ctx, result.Location)
			return nil, errors.Wrapf(err, "%s backup verification failed", exec.Name())
		}
		verified = true
	}

	if b.offsite != nil {
		if err := b.uploadOffsite(ctx, result.Location); err != nil {
			logger.Error("offsite upload failed",
				zap.String("location", result.Location),
				zap.Error(err))
		}
	}

	artifact := &types.Artifact{
		ID:          uuid.New(),
		Source:      source,
		Location:    result.Location,
		StorageType: storage.TypeFS.String(),
		Size:        result.Size,
		Verified:    verified,
		CreatedAt:   time.Now(),
	}
	if err := b.artifacts.Save(ctx, artifact); err != nil {
		logger.Error("failed to catalog artifact", zap.Error(err))
	}

	logger.Info("backup completed",
		zap.String("source", source.String()),
		zap.String("location", artifact.Location),
		zap.Int64("size", artifact.Size),
		zap.Bool("verified", artifact.Verified))
	return artifact, nil
}

func (b backupService) uploadOffsite(ctx context.Context, location string) error {
	file, err := types.OpenFile(location)
	if err != nil {
		return err
	}
	defer file.Content.Close()
	return b.offsite.Save(ctx, location, file)
}

func (b backupService) RunAll(ctx context.Context) (Summary, error) {
	var summary Summary

	_, err := b.RunDatabase(ctx)
	summary.Add("database backup", err)

	_, err = b.RunFiles(ctx)
	summary.Add("file storage backup", err)

	return summary, nil
}

func (b backupService) ListArtifacts(ctx context.Context) ([]*types.Artifact, error) {
	return b.artifacts.FindAll(ctx)
}

func (b backupService) VerifyArtifact(ctx context.Context, id uuid.UUID) error {
	artifact, err := b.artifacts.FindByID(ctx, id)
	if err != nil {
		return errors.Wrap(err, "artifact not found")
	}

	var exec backup.Executor
	switch artifact.Source {
	case types.ArtifactSourceFiles:
		exec = b.filesExec
	case types.ArtifactSourceDatabase:
		exec = b.dbExec
	default:
		return errors.Errorf("artifacts of source %s cannot be verified", artifact.Source)
	}

	return exec.Verify(ctx, artifact.Location)
}

func (b backupService) PruneArtifacts(ctx context.Context, source types.ArtifactSource) (int, error) {
	var dir string
	var retentionDays int
	switch source {
	case types.ArtifactSourceDatabase:
		dir, retentionDays = b.cfg.DatabaseBackupDir(), b.cfg.DatabaseRetentionDays
	case types.ArtifactSourceFiles:
		dir, retentionDays = b.cfg.FilesBackupDir(), b.cfg.FilesRetentionDays
	default:
		return 0, errors.Errorf("no retention policy for source %s", source)
	}

	objects, err := b.store.List(ctx, dir)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	pruned := 0
	for _, obj := range objects {
		if !cleanup.Eligible(now, obj.ModTime, retentionDays) {
			continue
		}
		if err := b.store.Delete(ctx, obj.Location); err != nil {
			logger.Error("failed to prune artifact",
				zap.String("location", obj.Location),
				zap.Error(err))
			continue
		}
		if err := b.artifacts.DeleteByLocation(ctx, obj.Location); err != nil {
			logger.Warn("failed to remove catalog entry",
				zap.String("location", obj.Location),
				zap.Error(err))
		}
		logger.Info("pruned old artifact",
			zap.String("location", obj.Location),
			zap.Int("age_days", cleanup.AgeDays(now, obj.ModTime)))
		pruned++
	}
	return pruned, nil
}

func (b backupService) recordRun(ctx context.Context, job string, started time.Time, ok bool, runErr error) {
	if b.runs == nil {
		return
	}
	run := &types.Run{
		ID:         uuid.New(),
		Job:        job,
		Succeeded:  ok,
		StartedAt:  started,
		FinishedAt: time.Now(),
	}
	if ok {
		run.Processed = 1
	} else {
		run.Failed = 1
	}
	if runErr != nil {
		run.Detail = runErr.Error()
	}
	if err := b.runs.Save(ctx, run); err != nil {
		logger.Warn("failed to record run", zap.Error(err))
	}
}

func (b backupService) notifyResult(source types.ArtifactSource, artifact *types.Artifact, err error) {
	if b.mailer == nil {
		return
	}

	if err != nil {
		b.mailer.Send(
			fmt.Sprintf("[gedops] %s backup FAILED", source),
			fmt.Sprintf("The %s backup failed at %s:\n\n%v",
				source, time.Now().Format(time.RFC1123), err))
		return
	}

	b.mailer.Send(
		fmt.Sprintf("[gedops] %s backup completed", source),
		fmt.Sprintf("Artifact: %s\nSize: %d bytes\nVerified: %t\nCreated: %s",
			artifact.Location, artifact.Size, artifact.Verified,
			artifact.CreatedAt.Format(time.RFC1123)))
}
