package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"stale-clean/pkg/constants"
	"stale-clean/pkg/core"
	"stale-clean/pkg/journal"
	"stale-clean/pkg/session"
)

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Scan and permanently delete every listed file",
	Long: `Scan, list the matches and, after confirmation, permanently delete them.
Files are removed directly; there is no trash and no undo. The folder is
scanned again afterwards to show what is left.`,
	RunE: runDelete,
}

type deleteFlags struct {
	yes       bool
	dryRun    bool
	noJournal bool
}

var deleteOpts = &deleteFlags{}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteOpts.yes, "yes", "y", false, "do not ask for confirmation")
	deleteCmd.Flags().BoolVar(&deleteOpts.dryRun, "dry-run", false, "report what would be deleted without deleting")
	deleteCmd.Flags().BoolVar(&deleteOpts.noJournal, "no-journal", false, "do not record the run in the journal")
}

func runDelete(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	p := newPrinter(a.out, a.location)
	deleter := core.NewDeleter(a.logger)
	deleter.DryRun = deleteOpts.dryRun

	opts := session.Options{Logger: a.logger, Deleter: deleter}
	if !deleteOpts.noJournal && a.cfg.JournalPath != "" {
		store, err := journal.Open(constants.ExpandHome(a.cfg.JournalPath))
		if err != nil {
			a.logger.Warn("journal unavailable", slog.Any("error", err))
		} else {
			defer store.Close()
			opts.Journal = store
		}
	}
	sess := session.New(opts)

	p.header(a.cfg.Root)
	rs, err := sess.Scan(cmd.Context(), a.cfg.ScanConfig(), p.progress)
	if err != nil {
		return err
	}
	p.summary(rs, a.cfg.RetentionDays)

	confirm := promptConfirmer(cmd.InOrStdin(), a.out, deleteOpts.yes || deleteOpts.dryRun)
	report, err := sess.Delete(cmd.Context(), confirm, nil)
	switch {
	case errors.Is(err, core.ErrNothingToDelete):
		fmt.Fprintln(a.out, "There are no files to delete.")
		return nil
	case errors.Is(err, core.ErrNotConfirmed):
		fmt.Fprintln(a.out, "Deletion cancelled.")
		return nil
	case report.ID == "":
		return err
	}

	p.deletion(report)
	if err != nil {
		return err
	}
	if !report.DryRun {
		p.summary(sess.Current(), a.cfg.RetentionDays)
	}
	return nil
}

// promptConfirmer asks on out and reads the answer from in.
func promptConfirmer(in io.Reader, out io.Writer, assumeYes bool) core.Confirmer {
	return core.ConfirmFunc(func(ctx context.Context, summary core.Summary) (bool, error) {
		if assumeYes {
			return true, nil
		}
		fmt.Fprintf(out, "%d files (%s) will be permanently deleted.\nAre you sure you want to delete all listed files? [y/N] ",
			summary.Count, core.FormatSize(summary.TotalSize))

		answer, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return false, err
		}
		return isYes(answer), nil
	})
}
