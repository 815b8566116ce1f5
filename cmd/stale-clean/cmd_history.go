package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"stale-clean/pkg/constants"
	"stale-clean/pkg/journal"
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "Show recorded deletion runs, or the failures of one run",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHistory,
}

var historyLimit int

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of runs to show")
}

func runHistory(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.cfg.JournalPath == "" {
		return fmt.Errorf("journal is disabled in %s", globalOpts.configPath)
	}
	store, err := journal.Open(constants.ExpandHome(a.cfg.JournalPath))
	if err != nil {
		return err
	}
	defer store.Close()

	if len(args) == 1 {
		failures, err := store.Failures(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if len(failures) == 0 {
			fmt.Fprintf(a.out, "No failures recorded for %s.\n", args[0])
			return nil
		}
		for _, f := range failures {
			fmt.Fprintf(a.out, "%s: %s\n", f.Path, f.Reason)
		}
		return nil
	}

	runs, err := store.Runs(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(a.out, "No deletion runs recorded.")
		return nil
	}
	p := newPrinter(a.out, a.location)
	for _, r := range runs {
		p.run(r)
	}
	return nil
}
