package cmd

import (
	"github.com/spf13/cobra"

	"gedops/internal/app"
	"gedops/pkg/cmd/artifacts"
	backupcmd "gedops/pkg/cmd/backup"
	cleanupcmd "gedops/pkg/cmd/cleanup"
	"gedops/pkg/cmd/daemon"
)

func New() (*cobra.Command, error) {
	a, err := app.New()
	if err != nil {
		return nil, err
	}

	cmd := &cobra.Command{
		Use:           "gedops",
		Short:         "gedops - backup and maintenance toolkit for Sistema GED",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(backupcmd.NewBackupCmd(a))
	cmd.AddCommand(cleanupcmd.NewCleanupCmd(a))
	cmd.AddCommand(artifacts.NewArtifactsCmd(a))
	cmd.AddCommand(daemon.NewDaemonCmd(a))
	return cmd, nil
}
