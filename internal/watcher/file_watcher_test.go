package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for FileWatcher:
// - NewFileWatcher succeeds on a directory and fails on a missing one
// - A non-positive debounce falls back to DefaultDebounce
// - Rapid changes to several files arrive as one sorted, deduplicated batch
// - Deleted and renamed files are reported
// - Directories created after Start are watched
// - Extension filtering is case-insensitive and ignores other files
// - Pause accumulates events and Resume fires them
// - Stop is idempotent and context cancellation ends the loop

const testDebounce = 150 * time.Millisecond

// batchRecorder collects callback batches for assertions.
type batchRecorder struct {
	mu      sync.Mutex
	batches [][]string
	calls   chan struct{}
}

func newBatchRecorder() *batchRecorder {
	return &batchRecorder{calls: make(chan struct{}, 16)}
}

func (r *batchRecorder) callback(files []string) {
	r.mu.Lock()
	r.batches = append(r.batches, files)
	r.mu.Unlock()
	r.calls <- struct{}{}
}

func (r *batchRecorder) wait(t *testing.T) {
	t.Helper()
	select {
	case <-r.calls:
	case <-time.After(2 * time.Second):
		t.Fatal("Callback not called after timeout")
	}
}

func (r *batchRecorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var files []string
	for _, b := range r.batches {
		files = append(files, b...)
	}
	return files
}

func (r *batchRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.batches)
}

func startWatcher(t *testing.T, dir string, extensions []string) (FileWatcher, *batchRecorder) {
	t.Helper()
	w, err := NewFileWatcher(dir, extensions, testDebounce)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	rec := newBatchRecorder()
	require.NoError(t, w.Start(context.Background(), rec.callback))
	time.Sleep(100 * time.Millisecond)
	return w, rec
}

func TestNewFileWatcher_Success(t *testing.T) {
	t.Parallel()

	w, err := NewFileWatcher(t.TempDir(), []string{".py"}, 0)
	require.NoError(t, err)
	require.NotNil(t, w)

	assert.Equal(t, DefaultDebounce, w.(*fileWatcher).debounceTime)
	require.NoError(t, w.Stop())
}

func TestNewFileWatcher_InvalidDirectory(t *testing.T) {
	t.Parallel()

	w, err := NewFileWatcher(filepath.Join(t.TempDir(), "nonexistent"), []string{".py"}, testDebounce)
	assert.Error(t, err)
	assert.Nil(t, w)
}

func TestFileWatcher_BatchesChanges(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, rec := startWatcher(t, dir, []string{".py"})

	b := filepath.Join(dir, "b.py")
	a := filepath.Join(dir, "a.py")
	require.NoError(t, os.WriteFile(b, []byte("x = 1\n"), 0644))
	time.Sleep(30 * time.Millisecond)
	require.NoError(t, os.WriteFile(a, []byte("y = 2\n"), 0644))
	time.Sleep(30 * time.Millisecond)
	require.NoError(t, os.WriteFile(b, []byte("x = 3\n"), 0644))

	rec.wait(t)
	time.Sleep(3 * testDebounce)

	assert.Equal(t, 1, rec.count(), "rapid changes should coalesce into one callback")
	assert.Equal(t, []string{a, b}, rec.all())
}

func TestFileWatcher_FileDeleted(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "gone.py")
	require.NoError(t, os.WriteFile(file, []byte("pass\n"), 0644))

	_, rec := startWatcher(t, dir, []string{".py"})
	require.NoError(t, os.Remove(file))

	rec.wait(t)
	assert.Contains(t, rec.all(), file)
}

func TestFileWatcher_FileRenamed(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	oldFile := filepath.Join(dir, "old.py")
	require.NoError(t, os.WriteFile(oldFile, []byte("pass\n"), 0644))

	_, rec := startWatcher(t, dir, []string{".py"})
	require.NoError(t, os.Rename(oldFile, filepath.Join(dir, "new.py")))

	rec.wait(t)
	assert.NotEmpty(t, rec.all())
}

func TestFileWatcher_DirectoryAdded(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, rec := startWatcher(t, dir, []string{".py"})

	newDir := filepath.Join(dir, "pkg")
	require.NoError(t, os.Mkdir(newDir, 0755))
	time.Sleep(300 * time.Millisecond)

	file := filepath.Join(newDir, "mod.py")
	require.NoError(t, os.WriteFile(file, []byte("pass\n"), 0644))

	require.Eventually(t, func() bool {
		for _, f := range rec.all() {
			if f == file {
				return true
			}
		}
		return false
	}, 2*time.Second, 50*time.Millisecond)
}

func TestFileWatcher_ExtensionFiltering(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, rec := startWatcher(t, dir, []string{".py", ".pyi"})

	upper := filepath.Join(dir, "LOUD.PY")
	stub := filepath.Join(dir, "types.pyi")
	txt := filepath.Join(dir, "notes.txt")
	compiled := filepath.Join(dir, "cache.pyc")

	require.NoError(t, os.WriteFile(upper, []byte("pass\n"), 0644))
	require.NoError(t, os.WriteFile(stub, []byte("pass\n"), 0644))
	require.NoError(t, os.WriteFile(txt, []byte("notes"), 0644))
	require.NoError(t, os.WriteFile(compiled, []byte{0x00}, 0644))

	rec.wait(t)
	files := rec.all()
	assert.Contains(t, files, upper)
	assert.Contains(t, files, stub)
	assert.NotContains(t, files, txt)
	assert.NotContains(t, files, compiled)
}

func TestFileWatcher_PauseResume(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w, rec := startWatcher(t, dir, []string{".py"})

	w.Pause()
	file := filepath.Join(dir, "paused.py")
	require.NoError(t, os.WriteFile(file, []byte("pass\n"), 0644))

	time.Sleep(4 * testDebounce)
	assert.Equal(t, 0, rec.count(), "no callbacks should fire while paused")

	w.Resume()
	rec.wait(t)
	assert.Contains(t, rec.all(), file)
}

func TestFileWatcher_StopCleanup(t *testing.T) {
	t.Parallel()

	w, err := NewFileWatcher(t.TempDir(), []string{".py"}, testDebounce)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background(), func([]string) {}))

	start := time.Now()
	require.NoError(t, w.Stop())
	assert.Less(t, time.Since(start), 500*time.Millisecond)

	require.NoError(t, w.Stop())
}

func TestFileWatcher_StopWithoutStart(t *testing.T) {
	t.Parallel()

	w, err := NewFileWatcher(t.TempDir(), []string{".py"}, testDebounce)
	require.NoError(t, err)
	require.NoError(t, w.Stop())
}

func TestFileWatcher_ContextCancellation(t *testing.T) {
	t.Parallel()

	w, err := NewFileWatcher(t.TempDir(), []string{".py"}, testDebounce)
	require.NoError(t, err)
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx, func([]string) {}))

	cancel()
	select {
	case <-w.(*fileWatcher).doneCh:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("watch loop did not exit after cancellation")
	}
}
