package files

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newIndex(t *testing.T, root string) *Index {
	t.Helper()
	idx, err := NewIndex(root, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })
	return idx
}

func TestScanBuildsSortedIndex(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.txt", "second")
	writeFile(t, dir, "a.md", "first")
	writeFile(t, dir, "nested/c.txt", "third")
	writeFile(t, dir, ".hidden", "skipped")

	idx := newIndex(t, dir)

	records := idx.Files()
	require.Len(t, records, 3)
	assert.Equal(t, "a.md", records[0].Name)
	assert.Equal(t, ".md", records[0].Format)
	assert.Equal(t, "b.txt", records[1].Name)
	assert.Equal(t, "c.txt", records[2].Name)
}

func TestNewIndexCreatesMissingRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "not-yet-there")
	idx := newIndex(t, root)
	assert.Empty(t, idx.Files())

	_, err := os.Stat(root)
	assert.NoError(t, err)
}

func TestLookup(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "notes.txt", "hello")
	idx := newIndex(t, dir)

	rec, ok := idx.Lookup(path)
	require.True(t, ok)
	assert.Equal(t, "notes.txt", rec.Name)
	assert.Equal(t, int64(5), rec.Size)

	_, ok = idx.Lookup(filepath.Join(dir, "absent.txt"))
	assert.False(t, ok)
}

func TestContent(t *testing.T) {
	dir := t.TempDir()
	textPath := writeFile(t, dir, "notes.txt", "goroutines and channels")
	binPath := writeFile(t, dir, "slides.pdf", "%PDF-1.4 ...")
	bigPath := writeFile(t, dir, "big.txt", strings.Repeat("x", maxContentBytes+100))
	idx := newIndex(t, dir)

	content, ok := idx.Content(textPath)
	require.True(t, ok)
	assert.Equal(t, "goroutines and channels", content)

	content, ok = idx.Content(binPath)
	require.True(t, ok, "binary files stay indexed")
	assert.Empty(t, content, "but contribute no text")

	content, ok = idx.Content(bigPath)
	require.True(t, ok)
	assert.Len(t, content, maxContentBytes)

	_, ok = idx.Content(filepath.Join(dir, "absent.txt"))
	assert.False(t, ok)
}

func TestWatchPicksUpNewFile(t *testing.T) {
	dir := t.TempDir()
	idx := newIndex(t, dir)

	path := writeFile(t, dir, "late.txt", "arrived after the scan")

	assert.Eventually(t, func() bool {
		_, ok := idx.Lookup(path)
		return ok
	}, 5*time.Second, 50*time.Millisecond)
}

func TestWatchDropsRemovedFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "doomed.txt", "short-lived")
	idx := newIndex(t, dir)

	require.NoError(t, os.Remove(path))

	assert.Eventually(t, func() bool {
		_, ok := idx.Lookup(path)
		return !ok
	}, 5*time.Second, 50*time.Millisecond)
}
