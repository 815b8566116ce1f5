package core

import (
	"errors"
	"fmt"
)

var (
	// ErrNoData is returned by export when the result set is empty.
	ErrNoData = errors.New("no data to export")
	// ErrNothingToDelete is returned by DeleteAll when the result set is empty.
	ErrNothingToDelete = errors.New("no files to delete")
	// ErrInvalidUTF8 is returned by export when a path cannot be written as UTF-8.
	ErrInvalidUTF8 = errors.New("path is not valid UTF-8")
	// ErrNotConfirmed is returned when the confirmation hook declines a deletion.
	ErrNotConfirmed = errors.New("deletion not confirmed")
)

// ValidationError aborts a scan before any file is visited.
type ValidationError struct {
	Path   string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Reason, e.Path)
}

// MetadataError is a per-file diagnostic collected during a scan.
type MetadataError struct {
	Path string
	Err  error
}

func (e *MetadataError) Error() string {
	return fmt.Sprintf("error reading %s: %v", e.Path, e.Err)
}

func (e *MetadataError) Unwrap() error { return e.Err }

// ExportError reports a failed CSV write. The destination may hold a partial file.
type ExportError struct {
	Path string
	Err  error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export error: %s: %v", e.Path, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }
