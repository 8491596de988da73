package cleanup

import (
	"context"
	"os"

	"go.uber.org/zap"

	"gedops/internal/database"
	"gedops/internal/types"
	"gedops/logger"
)

type trashJob struct {
	documents     database.DocumentRepository
	retentionDays int
}

// NewTrash permanently removes soft-deleted documents past retention:
// the stored file, every version file, then the database record.
func NewTrash(documents database.DocumentRepository, retentionDays int) Job {
	return &trashJob{documents: documents, retentionDays: retentionDays}
}

func (t trashJob) Name() string {
	return "trash"
}

func (t trashJob) Run(ctx context.Context, opts Options) (Report, error) {
	now := opts.now()
	report := Report{Job: t.Name(), DryRun: opts.DryRun}

	logger.Info("searching for expired trash documents",
		zap.Int("retention_days", t.retentionDays))

	expired, err := t.documents.FindExpiredTrash(ctx, Cutoff(now, t.retentionDays))
	if err != nil {
		return report, err
	}

	for _, doc := range expired {
		if !doc.InTrash() {
			continue
		}
		report.Candidates = append(report.Candidates, Item{
			ID:          doc.ID.String(),
			Description: doc.Name,
			AgeDays:     AgeDays(now, *doc.DeletedAt),
			Size:        doc.Size,
		})

		if opts.DryRun {
			continue
		}

		if t.deleteDocument(ctx, doc) {
			report.Deleted++
		} else {
			report.Failed++
		}
	}

	logger.Info("trash cleanup finished",
		zap.Int("candidates", len(report.Candidates)),
		zap.Int("deleted", report.Deleted),
		zap.Int("failed", report.Failed),
		zap.Bool("dry_run", opts.DryRun))
	return report, nil
}

func (t trashJob) deleteDocument(ctx context.Context, doc *types.Document) bool {
	if doc.FilePath != "" {
		t.deleteFile(doc.FilePath)
	}
	for _, version := range doc.Versions {
		if version.FilePath != "" {
			t.deleteFile(version.FilePath)
		}
	}

	if err := t.documents.Delete(ctx, doc.ID); err != nil {
		logger.Error("failed to delete document record",
			zap.String("id", doc.ID.String()),
			zap.String("name", doc.Name),
			zap.Error(err))
		return false
	}
	return true
}

func (t trashJob) deleteFile(path string) {
	err := os.Remove(path)
	if err == nil {
		return
	}
	if os.IsNotExist(err) {
		logger.Warn("stored file already gone", zap.String("path", path))
		return
	}
	logger.Error("failed to delete stored file",
		zap.String("path", path),
		zap.Error(err))
}
