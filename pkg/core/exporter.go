package core

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"stale-clean/pkg/constants"
)

// ExportHeader is the first row of every export.
var ExportHeader = []string{"File path", "Size (bytes)", "Last modified"}

// Exporter writes result sets as semicolon separated, BOM-prefixed UTF-8.
type Exporter struct {
	logger   *slog.Logger
	location *time.Location
}

// NewExporter creates an exporter rendering timestamps in loc (local time when nil).
func NewExporter(logger *slog.Logger, loc *time.Location) *Exporter {
	if logger == nil {
		logger = discardLogger()
	}
	if loc == nil {
		loc = time.Local
	}
	return &Exporter{logger: logger, location: loc}
}

// Export writes rs to dest in the order given by mode. An empty result set
// returns ErrNoData without touching dest. A path that is not valid UTF-8
// fails the export before dest is created.
func (e *Exporter) Export(rs *ResultSet, mode SortMode, dest string) (err error) {
	if rs.Count() == 0 {
		e.logger.Info("export skipped", slog.String("reason", ErrNoData.Error()))
		return ErrNoData
	}
	if err := checkUTF8(rs); err != nil {
		return e.failed(dest, err)
	}

	f, err := os.Create(dest)
	if err != nil {
		return e.failed(dest, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = e.failed(dest, closeErr)
		}
	}()

	if err := e.Write(f, rs, mode); err != nil {
		return e.failed(dest, err)
	}

	e.logger.Info("exported",
		slog.String("path", dest),
		slog.Int("rows", rs.Count()),
		slog.String("sort", mode.String()))
	return nil
}

// Write streams the export to w. The BOM is emitted even when w is not a file.
func (e *Exporter) Write(w io.Writer, rs *ResultSet, mode SortMode) error {
	if rs.Count() == 0 {
		return ErrNoData
	}
	if err := checkUTF8(rs); err != nil {
		return err
	}

	// rows are already valid UTF-8, so the encoder only adds the BOM
	bom := transform.NewWriter(w, unicode.UTF8BOM.NewEncoder())
	cw := csv.NewWriter(bom)
	cw.Comma = ';'
	cw.UseCRLF = true

	if err := cw.Write(ExportHeader); err != nil {
		return err
	}
	for _, r := range rs.SortedView(mode) {
		row := []string{
			r.Path,
			strconv.FormatInt(r.Size, 10),
			FormatTimestamp(r.ModTime, e.location),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	return bom.Close()
}

// checkUTF8 rejects paths the BOM encoder would silently rewrite with U+FFFD.
func checkUTF8(rs *ResultSet) error {
	for _, r := range rs.Records {
		if !utf8.ValidString(r.Path) {
			return fmt.Errorf("%w: %q", ErrInvalidUTF8, r.Path)
		}
	}
	return nil
}

func (e *Exporter) failed(dest string, err error) error {
	var exportErr *ExportError
	if errors.As(err, &exportErr) {
		return err
	}
	e.logger.Error("export failed", slog.String("path", dest), slog.Any("error", err))
	return &ExportError{Path: dest, Err: err}
}

// EnsureCSVExt appends .csv when path has no extension.
func EnsureCSVExt(path string) string {
	if path == "" || filepath.Ext(path) != "" {
		return path
	}
	return path + constants.ExportExt
}

// FormatTimestamp renders t the way exports and listings show it.
func FormatTimestamp(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(constants.ExportTimeLayout)
}
