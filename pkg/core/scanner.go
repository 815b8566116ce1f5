package core

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/IGLOU-EU/go-wildcard"
)

// EventKind tells a progress listener what happened.
type EventKind int

const (
	EventVisited EventKind = iota // a regular file was discovered
	EventMatched                  // a file passed every filter
	EventFailed                   // metadata for a file or directory could not be read
	EventDone                     // the walk finished; Summary is set
)

// Event is delivered to a ProgressFunc while a scan runs.
type Event struct {
	Kind    EventKind
	Path    string
	Record  MatchRecord
	Err     error
	Summary Summary
}

// ProgressFunc is called synchronously from the scanning goroutine.
type ProgressFunc func(Event)

// Scanner walks a directory tree looking for stale files.
type Scanner struct {
	logger *slog.Logger

	// Now is the clock used to compute the cutoff.
	Now func() time.Time
}

// NewScanner creates a scanner. A nil logger discards output.
func NewScanner(logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = discardLogger()
	}
	return &Scanner{logger: logger, Now: time.Now}
}

// Scan walks cfg.Root and returns every regular file older than the retention
// period, in traversal order. Only an invalid root or a cancelled context
// aborts the scan; unreadable entries are collected in ResultSet.Errors.
// Symbolic links are never followed or reported, including links to regular
// files, so a match is always a file that lives inside the tree.
func (s *Scanner) Scan(ctx context.Context, cfg ScanConfig, progress ProgressFunc) (*ResultSet, error) {
	root, err := validateRoot(cfg.Root)
	if err != nil {
		s.logger.Warn("scan rejected", slog.String("root", cfg.Root), slog.Any("error", err))
		return nil, err
	}
	if progress == nil {
		progress = func(Event) {}
	}

	now := s.Now()
	cutoff := now.Add(-cfg.retention())
	suffix := strings.ToLower(cfg.Extension)

	rs := &ResultSet{
		Root:      root,
		Filter:    cfg.Extension,
		Cutoff:    cutoff,
		ScannedAt: now,
		Records:   []MatchRecord{},
	}

	s.logger.Info("scan started",
		slog.String("root", root),
		slog.String("filter", cfg.Extension),
		slog.Time("cutoff", cutoff))

	fail := func(path string, cause error) {
		merr := &MetadataError{Path: path, Err: cause}
		rs.Errors = append(rs.Errors, merr)
		s.logger.Warn("metadata read failed", slog.String("path", path), slog.Any("error", cause))
		progress(Event{Kind: EventFailed, Path: path, Err: merr})
	}

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if path == root && d == nil {
				return err
			}
			fail(path, err)
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		progress(Event{Kind: EventVisited, Path: path})

		if suffix != "" && !strings.HasSuffix(strings.ToLower(d.Name()), suffix) {
			return nil
		}
		if pattern, ok := excluded(path, cfg.Exclude); ok {
			s.logger.Debug("excluded", slog.String("path", path), slog.String("pattern", pattern))
			return nil
		}

		info, infoErr := d.Info()
		if infoErr != nil {
			fail(path, infoErr)
			return nil
		}
		if !info.ModTime().Before(cutoff) {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		record := MatchRecord{
			Path:    path,
			RelPath: rel,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		}
		rs.Records = append(rs.Records, record)
		s.logger.Debug("stale file", slog.String("path", path), slog.Int64("size", record.Size))
		progress(Event{Kind: EventMatched, Path: path, Record: record})
		return nil
	})
	if walkErr != nil {
		if errors.Is(walkErr, context.Canceled) || errors.Is(walkErr, context.DeadlineExceeded) {
			s.logger.Info("scan cancelled", slog.String("root", root))
			return nil, walkErr
		}
		return nil, fmt.Errorf("walk %s: %w", root, walkErr)
	}

	summary := rs.Summary()
	progress(Event{Kind: EventDone, Summary: summary})
	s.logger.Info("scan finished",
		slog.String("root", root),
		slog.Int("matches", summary.Count),
		slog.Int64("bytes", summary.TotalSize),
		slog.Int("errors", len(rs.Errors)))

	return rs, nil
}

func validateRoot(root string) (string, error) {
	if strings.TrimSpace(root) == "" {
		return "", &ValidationError{Path: root, Reason: "invalid folder"}
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", &ValidationError{Path: root, Reason: "invalid folder"}
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return "", &ValidationError{Path: root, Reason: "invalid folder"}
	}
	return filepath.Clean(abs), nil
}

// excluded reports the first pattern matching either the full path or the
// base name.
func excluded(path string, patterns []string) (string, bool) {
	if len(patterns) == 0 {
		return "", false
	}
	name := filepath.Base(path)
	for _, pattern := range patterns {
		if wildcard.Match(pattern, path) || wildcard.Match(pattern, name) {
			return pattern, true
		}
	}
	return "", false
}
