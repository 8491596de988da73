package backup

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"gedops/internal/app"
	"gedops/internal/cmdutil"
)

func NewBackupCmd(a *app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Create backup artifacts",
	}

	cmd.AddCommand(newDatabaseCmd(a))
	cmd.AddCommand(newFilesCmd(a))
	cmd.AddCommand(newAllCmd(a))
	return cmd
}

func newDatabaseCmd(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:     "database",
		Short:   "Back up the GED database using the engine's native dump tool",
		Example: "gedops backup database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdutil.StartLoading("Backing up database...")
			artifact, err := a.BackupService().RunDatabase(cmd.Context())
			cmdutil.StopLoading()
			if err != nil {
				cmdutil.PrintE("database backup failed: " + err.Error())
				return err
			}

			cmdutil.PrintS(fmt.Sprintf("database backup completed: %s (%s)",
				artifact.Location, cmdutil.FormatBytes(artifact.Size)))
			return nil
		},
	}
}

func newFilesCmd(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:     "files",
		Short:   "Archive the document storage directory",
		Example: "gedops backup files",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdutil.StartLoading("Archiving file storage...")
			artifact, err := a.BackupService().RunFiles(cmd.Context())
			cmdutil.StopLoading()
			if err != nil {
				cmdutil.PrintE("file storage backup failed: " + err.Error())
				return err
			}

			cmdutil.PrintS(fmt.Sprintf("file storage backup completed: %s (%s)",
				artifact.Location, cmdutil.FormatBytes(artifact.Size)))
			return nil
		},
	}
}

func newAllCmd(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:     "all",
		Short:   "Run the database and file storage backups in sequence",
		Example: "gedops backup all",
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, err := a.BackupService().RunAll(cmd.Context())
			if err != nil {
				return err
			}

			for _, step := range summary.Steps {
				if step.Err != nil {
					cmdutil.PrintE(fmt.Sprintf("%s: FAILED (%v)", step.Name, step.Err))
				} else {
					cmdutil.PrintS(step.Name + ": OK")
				}
			}

			if !summary.Ok() {
				return errors.Errorf("backup finished with failures: %v", summary.Failures())
			}
			return nil
		},
	}
}
