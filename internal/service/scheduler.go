package service

import (
	"context"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"

	"gedops/internal/cleanup"
	"gedops/internal/config"
	"gedops/logger"
)

// Scheduler runs the backup and cleanup jobs on cron expressions. Jobs
// never overlap: a tick that fires while another job runs waits its turn.
type Scheduler struct {
	scheduler gocron.Scheduler
	schedule  config.Schedule
	backups   BackupService
	cleanups  CleanupService
}

func NewScheduler(schedule config.Schedule, backups BackupService, cleanups CleanupService) (*Scheduler, error) {
	if err := schedule.Validate(); err != nil {
		return nil, err
	}

	scheduler, err := gocron.NewScheduler(
		gocron.WithLimitConcurrentJobs(1, gocron.LimitModeWait))
	if err != nil {
		return nil, err
	}

	return &Scheduler{
		scheduler: scheduler,
		schedule:  schedule,
		backups:   backups,
		cleanups:  cleanups,
	}, nil
}

func (s *Scheduler) Run(ctx context.Context) error {
	jobs := []struct {
		name string
		expr string
		task func()
	}{
		{
			name: "database-backup",
			expr: s.schedule.DatabaseBackup,
			task: func() {
				if _, err := s.backups.RunDatabase(ctx); err != nil {
					logger.Error("scheduled database backup failed", zap.Error(err))
				}
			},
		},
		{
			name: "files-backup",
			expr: s.schedule.FilesBackup,
			task: func() {
				if _, err := s.backups.RunFiles(ctx); err != nil {
					logger.Error("scheduled file backup failed", zap.Error(err))
				}
			},
		},
		{
			name: "cleanup",
			expr: s.schedule.Cleanup,
			task: func() {
				_, summary := s.cleanups.RunAll(ctx, cleanup.Options{
					IncludeUsed: true,
					Archive:     true,
				})
				if !summary.Ok() {
					logger.Error("scheduled cleanup finished with failures",
						zap.Strings("failed", summary.Failures()))
				}
			},
		},
	}

	for _, j := range jobs {
		job, err := s.scheduler.NewJob(
			gocron.CronJob(j.expr, false),
			gocron.NewTask(j.task),
			gocron.WithName(j.name))
		if err != nil {
			return err
		}
		logger.Info("job scheduled",
			zap.String("name", job.Name()),
			zap.String("expression", j.expr))
	}

	s.scheduler.Start()
	<-ctx.Done()
	return s.scheduler.Shutdown()
}
