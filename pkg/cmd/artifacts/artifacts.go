package artifacts

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"gedops/internal/app"
	"gedops/internal/cmdutil"
	"gedops/internal/types"
)

func NewArtifactsCmd(a *app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "artifacts",
		Short: "Inspect and maintain the backup catalog",
	}

	cmd.AddCommand(newListCmd(a))
	cmd.AddCommand(newVerifyCmd(a))
	cmd.AddCommand(newPruneCmd(a))
	return cmd
}

func newListCmd(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Short:   "List cataloged backup artifacts",
		Example: "gedops artifacts list",
		RunE: func(cmd *cobra.Command, args []string) error {
			artifacts, err := a.BackupService().ListArtifacts(cmd.Context())
			if err != nil {
				return err
			}
			cmdutil.RenderArtifacts(artifacts)
			return nil
		},
	}
}

func newVerifyCmd(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:     "verify <artifact-id>",
		Short:   "Re-run integrity verification on a cataloged artifact",
		Example: "gedops artifacts verify 1b4e28ba-2fa1-11d2-883f-0016d3cca427",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return errors.Wrap(err, "invalid artifact id")
			}

			cmdutil.StartLoading("Verifying artifact...")
			err = a.BackupService().VerifyArtifact(cmd.Context(), id)
			cmdutil.StopLoading()
			if err != nil {
				cmdutil.PrintE("verification failed: " + err.Error())
				return err
			}

			cmdutil.PrintS("artifact verified")
			return nil
		},
	}
}

func newPruneCmd(a *app.App) *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:     "prune",
		Short:   "Delete backup artifacts older than their retention threshold",
		Example: "gedops artifacts prune --source database",
		RunE: func(cmd *cobra.Command, args []string) error {
			sources := []types.ArtifactSource{types.ArtifactSourceDatabase, types.ArtifactSourceFiles}
			if source != "" {
				sources = []types.ArtifactSource{types.ArtifactSource(source)}
			}

			svc := a.BackupService()
			total := 0
			for _, s := range sources {
				pruned, err := svc.PruneArtifacts(cmd.Context(), s)
				if err != nil {
					return err
				}
				total += pruned
			}

			cmdutil.PrintS(fmt.Sprintf("pruned %d artifact(s)", total))
			return nil
		},
	}
	cmd.Flags().StringVar(&source, "source", "", "restrict pruning to one artifact class (database|files)")
	return cmd
}
