package core

import (
	"slices"
	"time"
)

// ResultSet holds the matches of a single scan in traversal order.
// It is replaced wholesale by the next scan and never edited in place.
type ResultSet struct {
	Root      string
	Filter    string
	Cutoff    time.Time
	ScannedAt time.Time
	Records   []MatchRecord
	Errors    []*MetadataError
}

// Count returns the number of matched files.
func (rs *ResultSet) Count() int {
	if rs == nil {
		return 0
	}
	return len(rs.Records)
}

// TotalSize returns the summed size of all matches.
func (rs *ResultSet) TotalSize() int64 {
	if rs == nil {
		return 0
	}
	var total int64
	for _, r := range rs.Records {
		total += r.Size
	}
	return total
}

func (rs *ResultSet) Summary() Summary {
	return Summary{Count: rs.Count(), TotalSize: rs.TotalSize()}
}

// SortedView returns a copy of the records ordered by mode. Ties keep scan order.
func (rs *ResultSet) SortedView(mode SortMode) []MatchRecord {
	if rs == nil {
		return nil
	}
	view := slices.Clone(rs.Records)
	switch mode {
	case SortLargestFirst:
		slices.SortStableFunc(view, func(a, b MatchRecord) int {
			switch {
			case a.Size > b.Size:
				return -1
			case a.Size < b.Size:
				return 1
			default:
				return 0
			}
		})
	case SortOldestFirst:
		slices.SortStableFunc(view, func(a, b MatchRecord) int {
			return a.ModTime.Compare(b.ModTime)
		})
	}
	return view
}
