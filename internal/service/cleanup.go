package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gedops/internal/cleanup"
	"gedops/internal/database"
	"gedops/internal/types"
	"gedops/logger"
)

type (
	CleanupService interface {
		RunTrash(ctx context.Context, opts cleanup.Options) (cleanup.Report, error)
		RunTokens(ctx context.Context, opts cleanup.Options) (cleanup.Report, error)
		RunAudit(ctx context.Context, opts cleanup.Options) (cleanup.Report, error)
		// RunAll is the composite: trash, tokens, audit in fixed order
		// under one dry-run flag, continuing past phase failure.
		RunAll(ctx context.Context, opts cleanup.Options) ([]cleanup.Report, Summary)
	}

	cleanupService struct {
		trash  cleanup.Job
		tokens cleanup.Job
		audit  cleanup.Job
		runs   database.RunRepository
	}
)

func NewCleanupService(trash, tokens, audit cleanup.Job, runs database.RunRepository) CleanupService {
	return &cleanupService{
		trash:  trash,
		tokens: tokens,
		audit:  audit,
		runs:   runs,
	}
}

func (c cleanupService) RunTrash(ctx context.Context, opts cleanup.Options) (cleanup.Report, error) {
	return c.run(ctx, c.trash, opts)
}

func (c cleanupService) RunTokens(ctx context.Context, opts cleanup.Options) (cleanup.Report, error) {
	return c.run(ctx, c.tokens, opts)
}

func (c cleanupService) RunAudit(ctx context.Context, opts cleanup.Options) (cleanup.Report, error) {
	return c.run(ctx, c.audit, opts)
}

func (c cleanupService) run(ctx context.Context, job cleanup.Job, opts cleanup.Options) (cleanup.Report, error) {
	started := time.Now()
	report, err := job.Run(ctx, opts)
	c.recordRun(ctx, job.Name(), started, report, err)
	return report, err
}

func (c cleanupService) RunAll(ctx context.Context, opts cleanup.Options) ([]cleanup.Report, Summary) {
	var summary Summary
	reports := make([]cleanup.Report, 0, 3)

	for _, job := range []cleanup.Job{c.trash, c.tokens, c.audit} {
		report, err := c.run(ctx, job, opts)
		reports = append(reports, report)
		if err == nil && !report.Ok() {
			err = errPartialFailure{job: job.Name(), failed: report.Failed}
		}
		if err != nil {
			logger.Error("cleanup phase failed",
				zap.String("job", job.Name()),
				zap.Error(err))
		}
		summary.Add(job.Name()+" cleanup", err)
	}

	return reports, summary
}

func (c cleanupService) recordRun(ctx context.Context, job string, started time.Time, report cleanup.Report, runErr error) {
	if c.runs == nil {
		return
	}
	run := &types.Run{
		ID:         uuid.New(),
		Job:        "cleanup-" + job,
		DryRun:     report.DryRun,
		Processed:  report.Deleted,
		Failed:     report.Failed,
		Succeeded:  runErr == nil && report.Ok(),
		StartedAt:  started,
		FinishedAt: time.Now(),
	}
	if runErr != nil {
		run.Detail = runErr.Error()
	}
	if report.DryRun {
		run.Processed = len(report.Candidates)
	}
	if err := c.runs.Save(ctx, run); err != nil {
		logger.Warn("failed to record run", zap.Error(err))
	}
}

type errPartialFailure struct {
	job    string
	failed int
}

func (e errPartialFailure) Error() string {
	return fmt.Sprintf("%s cleanup: %d item(s) could not be deleted", e.job, e.failed)
}
