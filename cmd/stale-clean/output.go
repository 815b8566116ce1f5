package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"stale-clean/pkg/core"
)

const separator = "────────────────────────────────────────"

// printer renders scan progress and summaries for a terminal.
type printer struct {
	w   io.Writer
	loc *time.Location
}

func newPrinter(w io.Writer, loc *time.Location) *printer {
	return &printer{w: w, loc: loc}
}

// progress is a core.ProgressFunc printing each match as it is found.
func (p *printer) progress(ev core.Event) {
	switch ev.Kind {
	case core.EventMatched:
		fmt.Fprintf(p.w, "%s\n   Size: %s\n   Last modified: %s\n%s\n",
			ev.Record.RelPath,
			core.FormatSize(ev.Record.Size),
			core.FormatTimestamp(ev.Record.ModTime, p.loc),
			separator)
	case core.EventFailed:
		var merr *core.MetadataError
		if errors.As(ev.Err, &merr) {
			fmt.Fprintf(p.w, "Error reading %s: %v\n%s\n", merr.Path, merr.Err, separator)
			return
		}
		fmt.Fprintf(p.w, "Error reading %s: %v\n%s\n", ev.Path, ev.Err, separator)
	}
}

func (p *printer) header(root string) {
	fmt.Fprintf(p.w, "Scanning folder: %s\n%s\n", root, separator)
}

func (p *printer) summary(rs *core.ResultSet, days int) {
	if rs.Count() == 0 {
		fmt.Fprintf(p.w, "✓ No files older than %d days found.\n", days)
		return
	}
	fmt.Fprintf(p.w, "Files found: %d    Total space: %s\n", rs.Count(), core.FormatSize(rs.TotalSize()))
	if n := len(rs.Errors); n > 0 {
		fmt.Fprintf(p.w, "Unreadable entries: %d\n", n)
	}
}

func (p *printer) deletion(report core.DeletionReport) {
	switch {
	case report.DryRun:
		fmt.Fprintf(p.w, "Dry run: %d files (%s) would be deleted.\n",
			report.Deleted, core.FormatSize(report.FreedBytes))
	case report.Failed == 0:
		fmt.Fprintf(p.w, "✓ All listed files have been deleted (%s freed).\n", core.FormatSize(report.FreedBytes))
	default:
		fmt.Fprintf(p.w, "%d files could not be deleted.\n", report.Failed)
		for _, f := range report.Failures {
			fmt.Fprintf(p.w, "Error deleting %s: %s\n", f.Path, f.Reason)
		}
	}
}

func (p *printer) run(report core.DeletionReport) {
	mode := ""
	if report.DryRun {
		mode = " (dry run)"
	}
	fmt.Fprintf(p.w, "%s  %s  %s%s\n   deleted %d of %d, failed %d, freed %s\n",
		report.ID,
		report.StartedAt.In(p.loc).Format("2006-01-02 15:04:05"),
		report.Root,
		mode,
		report.Deleted, report.Attempted, report.Failed,
		core.FormatSize(report.FreedBytes))
}

func isYes(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}
