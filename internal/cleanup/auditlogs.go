package cleanup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"gedops/internal/backup"
	"gedops/internal/database"
	"gedops/internal/storage"
	"gedops/internal/types"
	"gedops/logger"
)

type auditJob struct {
	logs          database.AuditLogRepository
	store         storage.Storage
	archiveDir    string
	retentionDays int
}

// NewAudit archives audit entries past retention to a timestamped JSON
// file and then deletes them. The archive covers exactly the deleted
// set; if it cannot be written nothing is deleted.
func NewAudit(logs database.AuditLogRepository, store storage.Storage, archiveDir string, retentionDays int) Job {
	return &auditJob{
		logs:          logs,
		store:         store,
		archiveDir:    archiveDir,
		retentionDays: retentionDays,
	}
}

func (a auditJob) Name() string {
	return "audit"
}

func (a auditJob) Run(ctx context.Context, opts Options) (Report, error) {
	now := opts.now()
	report := Report{Job: a.Name(), DryRun: opts.DryRun}

	logger.Info("searching for old audit logs",
		zap.Int("retention_days", a.retentionDays))

	old, err := a.logs.FindOlderThan(ctx, Cutoff(now, a.retentionDays))
	if err != nil {
		return report, err
	}

	if len(old) == 0 {
		logger.Info("no old audit logs found")
		return report, nil
	}

	a.logStatistics(old)

	for _, entry := range old {
		report.Candidates = append(report.Candidates, Item{
			ID:          entry.ID.String(),
			Description: fmt.Sprintf("%s on %s", entry.Action, entry.TableName),
			AgeDays:     AgeDays(now, entry.Timestamp),
		})
	}

	if opts.DryRun {
		return report, nil
	}

	if opts.Archive {
		location := filepath.Join(a.archiveDir,
			fmt.Sprintf("audit_logs_archive_%s.json", now.Format(backup.TimestampLayout)))
		if err := a.archive(ctx, location, old); err != nil {
			// deleting unarchived history is not an option
			report.Failed = len(old)
			return report, errors.Wrap(err, "archival failed, aborting cleanup")
		}
		report.ArchiveLocation = location
	}

	ids := lo.Map(old, func(entry *types.AuditLog, _ int) uuid.UUID { return entry.ID })
	if err := a.logs.DeleteAll(ctx, ids); err != nil {
		report.Failed = len(old)
		return report, errors.Wrap(err, "failed to delete audit logs")
	}

	report.Deleted = len(old)
	logger.Info("audit log cleanup finished",
		zap.Int("deleted", report.Deleted),
		zap.String("archive", report.ArchiveLocation))
	return report, nil
}

func (a auditJob) archive(ctx context.Context, location string, entries []*types.AuditLog) error {
	payload, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}

	err = a.store.Save(ctx, location, types.File{
		Content: types.NoOpReadCloser{Reader: bytes.NewReader(payload)},
		Stat: types.FileStat{
			Size:        int64(len(payload)),
			Name:        filepath.Base(location),
			ContentType: "application/json",
		},
	})
	if err != nil {
		return err
	}

	logger.Info("audit logs archived",
		zap.String("location", location),
		zap.Int("entries", len(entries)),
		zap.Int("bytes", len(payload)))
	return nil
}

func (a auditJob) logStatistics(entries []*types.AuditLog) {
	byAction := lo.CountValuesBy(entries, func(entry *types.AuditLog) string {
		if entry.Action == "" {
			return "unknown"
		}
		return entry.Action
	})

	oldest := lo.MinBy(entries, func(a, b *types.AuditLog) bool {
		return a.Timestamp.Before(b.Timestamp)
	})
	newest := lo.MaxBy(entries, func(a, b *types.AuditLog) bool {
		return a.Timestamp.After(b.Timestamp)
	})

	logger.Info("audit log statistics",
		zap.Int("total", len(entries)),
		zap.Time("oldest", oldest.Timestamp),
		zap.Time("newest", newest.Timestamp),
		zap.Any("by_action", byAction))
}
