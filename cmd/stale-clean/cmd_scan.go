package main

import (
	"github.com/spf13/cobra"

	"stale-clean/pkg/session"
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "List files older than the retention period",
	RunE:  runScan,
}

func runScan(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	p := newPrinter(a.out, a.location)
	sess := session.New(session.Options{Logger: a.logger})

	p.header(a.cfg.Root)
	rs, err := sess.Scan(cmd.Context(), a.cfg.ScanConfig(), p.progress)
	if err != nil {
		return err
	}
	p.summary(rs, a.cfg.RetentionDays)
	return nil
}
