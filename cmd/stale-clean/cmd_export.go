package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"stale-clean/pkg/core"
	"stale-clean/pkg/session"
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Scan and write the matches to a CSV file",
	Long: `Scan and write the matches to a semicolon separated CSV file with a
UTF-8 byte order mark. Rows can be sorted by size or by age.`,
	RunE: runExport,
}

type exportFlags struct {
	out  string
	sort string
}

var exportOpts = &exportFlags{}

func init() {
	exportCmd.Flags().StringVarP(&exportOpts.out, "out", "o", "", "destination file (.csv is added when no extension is given)")
	exportCmd.Flags().StringVarP(&exportOpts.sort, "sort", "s", "none", "row order: none, largest or oldest")
	_ = exportCmd.MarkFlagRequired("out")
}

func runExport(cmd *cobra.Command, args []string) error {
	mode, err := core.ParseSortMode(exportOpts.sort)
	if err != nil {
		return err
	}

	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	p := newPrinter(a.out, a.location)
	exporter := core.NewExporter(a.logger, a.location)
	sess := session.New(session.Options{Logger: a.logger, Exporter: exporter})

	rs, err := sess.Scan(cmd.Context(), a.cfg.ScanConfig(), nil)
	if err != nil {
		return err
	}
	p.summary(rs, a.cfg.RetentionDays)

	dest := core.EnsureCSVExt(exportOpts.out)
	if err := sess.Export(mode, dest); err != nil {
		if errors.Is(err, core.ErrNoData) {
			fmt.Fprintln(a.out, "No data to export.")
			return nil
		}
		return err
	}
	fmt.Fprintf(a.out, "✓ Exported to: %s\n", dest)
	return nil
}
