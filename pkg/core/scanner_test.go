package core

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC)

func daysAgo(n int) time.Time {
	return testNow.Add(-time.Duration(n) * 24 * time.Hour)
}

func writeFile(t *testing.T, dir, name string, size int, mtime time.Time) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("x", size)), 0o644))
	require.NoError(t, os.Chtimes(path, mtime, mtime))
	return path
}

func newTestScanner() *Scanner {
	s := NewScanner(nil)
	s.Now = func() time.Time { return testNow }
	return s
}

func TestScan_FindsStaleFilesWithExtension(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	a := writeFile(t, dir, "a.pdf", 2048, daysAgo(100))
	writeFile(t, dir, "b.txt", 10, daysAgo(10))
	c := writeFile(t, dir, "c.pdf", 500, daysAgo(200))

	rs, err := newTestScanner().Scan(context.Background(), ScanConfig{Root: dir, Extension: ".pdf"}, nil)
	require.NoError(t, err)

	require.Len(t, rs.Records, 2)
	assert.Equal(t, a, rs.Records[0].Path)
	assert.Equal(t, "a.pdf", rs.Records[0].RelPath)
	assert.Equal(t, int64(2048), rs.Records[0].Size)
	assert.True(t, rs.Records[0].ModTime.Equal(daysAgo(100)))
	assert.Equal(t, c, rs.Records[1].Path)
	assert.Equal(t, int64(500), rs.Records[1].Size)
	assert.Equal(t, int64(2548), rs.TotalSize())
	assert.Equal(t, "2.5 KB", FormatSize(rs.TotalSize()))
	assert.Equal(t, ".pdf", rs.Filter)
	assert.True(t, rs.Cutoff.Equal(daysAgo(90)))
	assert.Empty(t, rs.Errors)
}

func TestScan_UnreadableDirectoryIsRecorded(t *testing.T) {
	t.Parallel()
	if os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}
	dir := t.TempDir()
	stale := writeFile(t, dir, "a.pdf", 1, daysAgo(200))
	locked := filepath.Join(dir, "locked")
	writeFile(t, locked, "hidden.pdf", 1, daysAgo(200))
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	var failed []Event
	rs, err := newTestScanner().Scan(context.Background(), ScanConfig{Root: dir}, func(ev Event) {
		if ev.Kind == EventFailed {
			failed = append(failed, ev)
		}
	})
	require.NoError(t, err)

	require.Len(t, rs.Errors, 1)
	assert.Equal(t, locked, rs.Errors[0].Path)
	assert.ErrorIs(t, rs.Errors[0], os.ErrPermission)
	require.Len(t, failed, 1)
	assert.Equal(t, locked, failed[0].Path)

	require.Len(t, rs.Records, 1)
	assert.Equal(t, stale, rs.Records[0].Path)
}

func TestScan_NoFilterMatchesEveryStaleFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, dir, "a.pdf", 1, daysAgo(200))
	writeFile(t, dir, "b.txt", 1, daysAgo(120))
	writeFile(t, dir, "fresh.log", 1, daysAgo(1))

	rs, err := newTestScanner().Scan(context.Background(), ScanConfig{Root: dir}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.pdf", "b.txt"}, relPaths(rs))
}

func TestScan_ExtensionIsCaseInsensitive(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, dir, "REPORT.PDF", 1, daysAgo(200))
	writeFile(t, dir, "notes.Pdf", 1, daysAgo(200))
	writeFile(t, dir, "pdf.txt", 1, daysAgo(200))

	rs, err := newTestScanner().Scan(context.Background(), ScanConfig{Root: dir, Extension: ".pdf"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"REPORT.PDF", "notes.Pdf"}, relPaths(rs))
}

func TestScan_Recursive(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, dir, "a.pdf", 1, daysAgo(200))
	writeFile(t, dir, filepath.Join("sub", "deep", "d.pdf"), 1, daysAgo(200))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "empty"), 0o755))

	rs, err := newTestScanner().Scan(context.Background(), ScanConfig{Root: dir}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.pdf", filepath.Join("sub", "deep", "d.pdf")}, relPaths(rs))
}

func TestScan_CutoffIsExclusive(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, dir, "exact.txt", 1, daysAgo(90))
	writeFile(t, dir, "older.txt", 1, daysAgo(90).Add(-time.Second))

	rs, err := newTestScanner().Scan(context.Background(), ScanConfig{Root: dir}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"older.txt"}, relPaths(rs))
}

func TestScan_CustomRetention(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", 1, daysAgo(10))
	writeFile(t, dir, "b.txt", 1, daysAgo(3))

	cfg := ScanConfig{Root: dir, Retention: 7 * 24 * time.Hour}
	rs, err := newTestScanner().Scan(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt"}, relPaths(rs))
}

func TestScan_ExcludePatterns(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, dir, "a.pdf", 1, daysAgo(200))
	writeFile(t, dir, "keep-me.pdf", 1, daysAgo(200))
	writeFile(t, dir, filepath.Join("archive", "b.pdf"), 1, daysAgo(200))

	cfg := ScanConfig{
		Root:    dir,
		Exclude: []string{"keep-*", filepath.Join(dir, "archive") + "/*"},
	}
	rs, err := newTestScanner().Scan(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.pdf"}, relPaths(rs))
}

func TestScan_SkipsSymlinks(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	target := writeFile(t, t.TempDir(), "outside.pdf", 1, daysAgo(200))
	writeFile(t, dir, "a.pdf", 1, daysAgo(200))
	require.NoError(t, os.Symlink(target, filepath.Join(dir, "link.pdf")))

	rs, err := newTestScanner().Scan(context.Background(), ScanConfig{Root: dir}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.pdf"}, relPaths(rs))
}

func TestScan_InvalidRoot(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	file := writeFile(t, dir, "file.txt", 1, daysAgo(200))

	for _, root := range []string{"", filepath.Join(dir, "missing"), file} {
		rs, err := newTestScanner().Scan(context.Background(), ScanConfig{Root: root}, nil)
		assert.Nil(t, rs)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr, "root %q", root)
		assert.Equal(t, "invalid folder", verr.Reason)
	}
}

func TestScan_EmptyResultIsNotNil(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, dir, "fresh.txt", 1, daysAgo(1))

	rs, err := newTestScanner().Scan(context.Background(), ScanConfig{Root: dir}, nil)
	require.NoError(t, err)
	require.NotNil(t, rs.Records)
	assert.Equal(t, 0, rs.Count())
}

func TestScan_ProgressEvents(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, dir, "a.pdf", 5, daysAgo(200))
	writeFile(t, dir, "b.txt", 5, daysAgo(200))
	writeFile(t, dir, "c.pdf", 5, daysAgo(1))

	var events []Event
	_, err := newTestScanner().Scan(context.Background(), ScanConfig{Root: dir, Extension: ".pdf"}, func(ev Event) {
		events = append(events, ev)
	})
	require.NoError(t, err)

	counts := map[EventKind]int{}
	for _, ev := range events {
		counts[ev.Kind]++
	}
	assert.Equal(t, 3, counts[EventVisited])
	assert.Equal(t, 1, counts[EventMatched])
	assert.Equal(t, 1, counts[EventDone])

	last := events[len(events)-1]
	assert.Equal(t, EventDone, last.Kind)
	assert.Equal(t, Summary{Count: 1, TotalSize: 5}, last.Summary)
}

func TestScan_Cancelled(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, dir, "a.pdf", 1, daysAgo(200))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rs, err := newTestScanner().Scan(ctx, ScanConfig{Root: dir}, nil)
	assert.Nil(t, rs)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScan_RescanAfterRemoval(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, dir, "a.pdf", 1, daysAgo(200))
	writeFile(t, dir, "c.pdf", 1, daysAgo(100))

	s := newTestScanner()
	cfg := ScanConfig{Root: dir, Extension: ".pdf"}
	rs, err := s.Scan(context.Background(), cfg, nil)
	require.NoError(t, err)
	for _, r := range rs.Records {
		require.NoError(t, os.Remove(r.Path))
	}

	again, err := s.Scan(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, again.Count())
	assert.Equal(t, 2, rs.Count())
}

func relPaths(rs *ResultSet) []string {
	out := make([]string, 0, rs.Count())
	for _, r := range rs.Records {
		out = append(out, r.RelPath)
	}
	return out
}
