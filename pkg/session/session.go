// Package session drives the scan, export and delete workflow around a single
// active result set.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"stale-clean/pkg/core"
)

// ErrBusy is returned when an operation starts while another one is running.
var ErrBusy = errors.New("another operation is in progress")

// Recorder persists finished deletion runs.
type Recorder interface {
	Record(ctx context.Context, report core.DeletionReport) error
}

// Options configures a Session. Nil components get defaults.
type Options struct {
	Logger   *slog.Logger
	Scanner  *core.Scanner
	Exporter *core.Exporter
	Deleter  *core.Deleter
	Journal  Recorder
}

// Session owns the result set of the most recent scan and hands it to the
// exporter and deleter. Operations never overlap.
type Session struct {
	logger   *slog.Logger
	scanner  *core.Scanner
	exporter *core.Exporter
	deleter  *core.Deleter
	journal  Recorder

	opMu sync.Mutex

	stateMu sync.RWMutex
	current *core.ResultSet
	lastCfg core.ScanConfig
}

// New creates a session with no result set.
func New(opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Session{
		logger:   logger,
		scanner:  opts.Scanner,
		exporter: opts.Exporter,
		deleter:  opts.Deleter,
		journal:  opts.Journal,
	}
	if s.scanner == nil {
		s.scanner = core.NewScanner(logger)
	}
	if s.exporter == nil {
		s.exporter = core.NewExporter(logger, nil)
	}
	if s.deleter == nil {
		s.deleter = core.NewDeleter(logger)
	}
	return s
}

// Current returns the result set of the last successful scan, or nil.
func (s *Session) Current() *core.ResultSet {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.current
}

// Scan replaces the current result set. On failure the previous one is kept.
func (s *Session) Scan(ctx context.Context, cfg core.ScanConfig, progress core.ProgressFunc) (*core.ResultSet, error) {
	if !s.opMu.TryLock() {
		return nil, ErrBusy
	}
	defer s.opMu.Unlock()

	return s.scan(ctx, cfg, progress)
}

func (s *Session) scan(ctx context.Context, cfg core.ScanConfig, progress core.ProgressFunc) (*core.ResultSet, error) {
	rs, err := s.scanner.Scan(ctx, cfg, progress)
	if err != nil {
		return nil, err
	}

	s.stateMu.Lock()
	s.current = rs
	s.lastCfg = cfg
	s.stateMu.Unlock()
	return rs, nil
}

// Export writes the current result set to dest.
func (s *Session) Export(mode core.SortMode, dest string) error {
	if !s.opMu.TryLock() {
		return ErrBusy
	}
	defer s.opMu.Unlock()

	return s.exporter.Export(s.Current(), mode, dest)
}

// Delete removes every file of the current result set once confirm agrees,
// journals the run and then re-scans with the same settings so Current
// reflects what is left on disk. Dry runs are neither journaled nor followed
// by a re-scan.
func (s *Session) Delete(ctx context.Context, confirm core.Confirmer, progress core.ProgressFunc) (core.DeletionReport, error) {
	if !s.opMu.TryLock() {
		return core.DeletionReport{}, ErrBusy
	}
	defer s.opMu.Unlock()

	report, err := s.deleter.DeleteAll(ctx, s.Current(), confirm)
	if report.ID == "" {
		return report, err
	}

	if s.journal != nil && !report.DryRun {
		// journal the run even when ctx was cancelled part way
		if jErr := s.journal.Record(context.WithoutCancel(ctx), report); jErr != nil {
			s.logger.Warn("journal write failed", slog.String("run", report.ID), slog.Any("error", jErr))
		}
	}
	if err != nil || report.DryRun {
		return report, err
	}

	s.stateMu.RLock()
	cfg := s.lastCfg
	s.stateMu.RUnlock()

	if _, scanErr := s.scan(ctx, cfg, progress); scanErr != nil {
		s.logger.Warn("re-scan after deletion failed", slog.Any("error", scanErr))
		return report, fmt.Errorf("re-scan after deletion: %w", scanErr)
	}
	return report, nil
}
