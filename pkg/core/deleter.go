package core

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
)

// Confirmer is asked before anything is removed. Only an explicit true lets
// the deletion proceed.
type Confirmer interface {
	Confirm(ctx context.Context, summary Summary) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, summary Summary) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, summary Summary) (bool, error) {
	return f(ctx, summary)
}

// Deleter removes the files listed in a result set.
type Deleter struct {
	logger *slog.Logger

	// DryRun counts what would be removed without touching the filesystem.
	DryRun bool

	Remove func(path string) error
	Now    func() time.Time
}

// NewDeleter creates a deleter backed by os.Remove.
func NewDeleter(logger *slog.Logger) *Deleter {
	if logger == nil {
		logger = discardLogger()
	}
	return &Deleter{logger: logger, Remove: os.Remove, Now: time.Now}
}

// DeleteAll removes every file in rs after confirm agrees. A failure on one
// path is recorded in the report and the remaining paths are still tried.
// rs itself is left untouched; re-scan to observe the result.
func (d *Deleter) DeleteAll(ctx context.Context, rs *ResultSet, confirm Confirmer) (DeletionReport, error) {
	if rs.Count() == 0 {
		d.logger.Info("nothing to delete")
		return DeletionReport{}, ErrNothingToDelete
	}
	if confirm == nil {
		return DeletionReport{}, ErrNotConfirmed
	}
	ok, err := confirm.Confirm(ctx, rs.Summary())
	if err != nil {
		return DeletionReport{}, fmt.Errorf("confirm deletion: %w", err)
	}
	if !ok {
		d.logger.Info("deletion declined", slog.Int("files", rs.Count()))
		return DeletionReport{}, ErrNotConfirmed
	}

	report := DeletionReport{
		ID:        uuid.NewString(),
		Root:      rs.Root,
		DryRun:    d.DryRun,
		StartedAt: d.Now(),
	}
	d.logger.Info("deletion started",
		slog.String("run", report.ID),
		slog.Int("files", rs.Count()),
		slog.Bool("dry_run", d.DryRun))

	for _, r := range rs.Records {
		if ctxErr := ctx.Err(); ctxErr != nil {
			report.FinishedAt = d.Now()
			d.logger.Warn("deletion cancelled", slog.String("run", report.ID), slog.Int("attempted", report.Attempted))
			return report, ctxErr
		}

		report.Attempted++
		if d.DryRun {
			report.Deleted++
			report.FreedBytes += r.Size
			d.logger.Debug("would delete", slog.String("path", r.Path), slog.Int64("size", r.Size))
			continue
		}

		if err := d.Remove(r.Path); err != nil {
			report.Failed++
			report.Failures = append(report.Failures, DeletionFailure{
				Path:   r.Path,
				Reason: failureReason(err),
				Err:    err,
			})
			d.logger.Warn("delete failed", slog.String("path", r.Path), slog.Any("error", err))
			continue
		}
		report.Deleted++
		report.FreedBytes += r.Size
		d.logger.Debug("deleted", slog.String("path", r.Path), slog.Int64("size", r.Size))
	}

	report.FinishedAt = d.Now()
	d.logger.Info("deletion finished",
		slog.String("run", report.ID),
		slog.Int("deleted", report.Deleted),
		slog.Int("failed", report.Failed),
		slog.Int64("freed", report.FreedBytes))
	return report, nil
}

// failureReason strips the operation and path that *fs.PathError repeats.
func failureReason(err error) string {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Err.Error()
	}
	return err.Error()
}
