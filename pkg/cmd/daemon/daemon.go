package daemon

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"gedops/internal/app"
	"gedops/internal/config"
	"gedops/internal/httphandlers"
	"gedops/internal/service"
	"gedops/logger"
)

func NewDaemonCmd(a *app.App) *cobra.Command {
	var scheduleFile string

	cmd := &cobra.Command{
		Use:     "daemon",
		Short:   "Run backups and cleanups on a schedule with a status API",
		Example: "gedops daemon --schedule /etc/gedops/schedule.yaml",
		RunE: func(cmd *cobra.Command, args []string) error {
			schedule, err := config.LoadSchedule(scheduleFile)
			if err != nil {
				return err
			}

			backups := a.BackupService()
			cleanups, err := a.CleanupService()
			if err != nil {
				return err
			}

			scheduler, err := service.NewScheduler(schedule, backups, cleanups)
			if err != nil {
				return err
			}

			handler := httphandlers.NewStatusHandler(backups, a.Runs)
			srv := &http.Server{
				Addr:    schedule.ListenAddr,
				Handler: httphandlers.Routes(handler),
			}

			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				logger.Info("status API listening", zap.String("addr", schedule.ListenAddr))
				if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			g.Go(func() error {
				return scheduler.Run(ctx)
			})
			g.Go(func() error {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			})

			return g.Wait()
		},
	}
	cmd.Flags().StringVar(&scheduleFile, "schedule", "", "YAML file with cron expressions (defaults apply when omitted)")
	return cmd
}
