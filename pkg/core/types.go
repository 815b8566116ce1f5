package core

import (
	"fmt"
	"strings"
	"time"

	"stale-clean/pkg/constants"
)

// DefaultRetention is the age beyond which a file counts as stale.
const DefaultRetention = constants.DefaultRetention

// ScanConfig describes one scan request.
type ScanConfig struct {
	Root      string        // directory to walk; must exist
	Extension string        // case-insensitive name suffix, empty matches all
	Retention time.Duration // zero means DefaultRetention
	Exclude   []string      // wildcard patterns matched against the full path
}

func (c ScanConfig) retention() time.Duration {
	if c.Retention <= 0 {
		return DefaultRetention
	}
	return c.Retention
}

// MatchRecord is one stale file found by a scan.
type MatchRecord struct {
	Path    string
	RelPath string
	Size    int64
	ModTime time.Time
}

// SortMode controls the row order of an export.
type SortMode int

const (
	SortNone SortMode = iota
	SortLargestFirst
	SortOldestFirst
)

func (m SortMode) String() string {
	switch m {
	case SortLargestFirst:
		return "largest"
	case SortOldestFirst:
		return "oldest"
	default:
		return "none"
	}
}

// ParseSortMode accepts the short names used on the command line as well as
// the long labels shown in the sort picker.
func ParseSortMode(s string) (SortMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "no sorting":
		return SortNone, nil
	case "largest", "size", "largest files first":
		return SortLargestFirst, nil
	case "oldest", "age", "oldest files first":
		return SortOldestFirst, nil
	default:
		return SortNone, fmt.Errorf("unknown sort mode %q", s)
	}
}

// Summary is the end-of-scan figure shown to the user.
type Summary struct {
	Count     int
	TotalSize int64
}

// DeletionFailure records why one path could not be removed.
type DeletionFailure struct {
	Path   string
	Reason string
	Err    error
}

// DeletionReport summarises one DeleteAll call.
type DeletionReport struct {
	ID         string
	Root       string
	DryRun     bool
	StartedAt  time.Time
	FinishedAt time.Time
	Attempted  int
	Deleted    int
	Failed     int
	FreedBytes int64
	Failures   []DeletionFailure
}
