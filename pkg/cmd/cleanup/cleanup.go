package cleanup

import (
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"gedops/internal/app"
	"gedops/internal/cleanup"
	"gedops/internal/cmdutil"
)

type flags struct {
	dryRun      bool
	yes         bool
	includeUsed bool
	noArchive   bool
}

func NewCleanupCmd(a *app.App) *cobra.Command {
	f := &flags{}

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete expired trash, tokens and audit logs per retention policy",
	}
	cmd.PersistentFlags().BoolVar(&f.dryRun, "dry-run", false, "list candidates without deleting anything")
	cmd.PersistentFlags().BoolVarP(&f.yes, "yes", "y", false, "skip the confirmation prompt")

	cmd.AddCommand(f.newTrashCmd(a))
	cmd.AddCommand(f.newTokensCmd(a))
	cmd.AddCommand(f.newAuditCmd(a))
	cmd.AddCommand(f.newAllCmd(a))
	return cmd
}

func (f *flags) options() cleanup.Options {
	return cleanup.Options{
		DryRun:      f.dryRun,
		IncludeUsed: f.includeUsed,
		Archive:     !f.noArchive,
	}
}

// confirm gates live runs behind a prompt unless --yes was given.
func (f *flags) confirm(what string) error {
	if f.dryRun || f.yes {
		return nil
	}

	prompt := promptui.Prompt{
		Label:     fmt.Sprintf("Permanently delete %s", what),
		IsConfirm: true,
	}
	if _, err := prompt.Run(); err != nil {
		return errors.New("aborted")
	}
	return nil
}

func (f *flags) newTrashCmd(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:     "trash",
		Short:   "Permanently delete soft-deleted documents past retention",
		Example: "gedops cleanup trash --dry-run",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := f.confirm("expired trash documents"); err != nil {
				return err
			}

			svc, err := a.CleanupService()
			if err != nil {
				return err
			}

			report, err := svc.RunTrash(cmd.Context(), f.options())
			return printReport(report, err)
		},
	}
}

func (f *flags) newTokensCmd(a *app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tokens",
		Short:   "Delete expired (and used) password reset tokens",
		Example: "gedops cleanup tokens --include-used=false",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := f.confirm("password reset tokens"); err != nil {
				return err
			}

			svc, err := a.CleanupService()
			if err != nil {
				return err
			}

			report, err := svc.RunTokens(cmd.Context(), f.options())
			return printReport(report, err)
		},
	}
	cmd.Flags().BoolVar(&f.includeUsed, "include-used", true, "also delete used tokens that have not expired yet")
	return cmd
}

func (f *flags) newAuditCmd(a *app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "audit",
		Short:   "Archive and delete audit logs past retention",
		Example: "gedops cleanup audit --dry-run",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := f.confirm("old audit logs"); err != nil {
				return err
			}

			svc, err := a.CleanupService()
			if err != nil {
				return err
			}

			report, err := svc.RunAudit(cmd.Context(), f.options())
			return printReport(report, err)
		},
	}
	cmd.Flags().BoolVar(&f.noArchive, "no-archive", false, "delete without writing the JSON archive")
	return cmd
}

func (f *flags) newAllCmd(a *app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "all",
		Short:   "Run trash, token and audit log cleanup in sequence",
		Example: "gedops cleanup all --dry-run",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := f.confirm("all expired maintenance data"); err != nil {
				return err
			}

			svc, err := a.CleanupService()
			if err != nil {
				return err
			}

			reports, summary := svc.RunAll(cmd.Context(), f.options())
			total := 0
			for _, report := range reports {
				_ = printReport(report, nil)
				total += report.Deleted
			}

			cmdutil.Print(fmt.Sprintf("total items processed: %d", total))
			if !summary.Ok() {
				return errors.Errorf("cleanup finished with failures: %v", summary.Failures())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&f.includeUsed, "include-used", true, "also delete used tokens that have not expired yet")
	cmd.Flags().BoolVar(&f.noArchive, "no-archive", false, "delete audit logs without writing the JSON archive")
	return cmd
}

func printReport(report cleanup.Report, err error) error {
	if err != nil {
		cmdutil.PrintE(fmt.Sprintf("%s cleanup failed: %v", report.Job, err))
		return err
	}

	if report.DryRun {
		cmdutil.PrintW(fmt.Sprintf("[dry run] %s: %d candidate(s), nothing deleted", report.Job, len(report.Candidates)))
		cmdutil.RenderCandidates(report.Job, report.Candidates)
		return nil
	}

	cmdutil.PrintS(fmt.Sprintf("%s cleanup: deleted %d, failed %d", report.Job, report.Deleted, report.Failed))
	if report.ArchiveLocation != "" {
		cmdutil.Print("archive: " + report.ArchiveLocation)
	}
	if !report.Ok() {
		return errors.Errorf("%s cleanup: %d item(s) failed", report.Job, report.Failed)
	}
	return nil
}
