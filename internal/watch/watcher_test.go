package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	noop := func(context.Context) {}

	t.Run("requires config", func(t *testing.T) {
		_, err := New(nil)
		assert.Error(t, err)
	})
	t.Run("requires path", func(t *testing.T) {
		_, err := New(&Config{OnChange: noop})
		assert.Error(t, err)
	})
	t.Run("requires callback", func(t *testing.T) {
		_, err := New(&Config{Path: "project.md"})
		assert.Error(t, err)
	})
	t.Run("defaults debounce", func(t *testing.T) {
		w, err := New(&Config{Path: filepath.Join(t.TempDir(), "project.md"), OnChange: noop})
		require.NoError(t, err)
		t.Cleanup(func() { w.Stop() })
		assert.Equal(t, 300*time.Millisecond, w.interval)
	})
}

func startWatcher(t *testing.T, path string, calls *atomic.Int32) {
	t.Helper()
	w, err := New(&Config{
		Path:       path,
		DebounceMs: 50,
		OnChange:   func(context.Context) { calls.Add(1) },
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Start(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-errCh
	})
	// Give the watcher time to register the directory.
	time.Sleep(50 * time.Millisecond)
}

func TestWatcher_DebouncesBurstOfWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "project.md")
	require.NoError(t, os.WriteFile(path, []byte("# Board\n"), 0o644))

	var calls atomic.Int32
	startWatcher(t, path, &calls)

	for i := range 5 {
		require.NoError(t, os.WriteFile(path, []byte("# Board\n\n- [ ] ("+string(rune('1'+i))+") Task\n"), 0o644))
	}
	require.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestWatcher_IgnoresSameContentAndOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "project.md")
	require.NoError(t, os.WriteFile(path, []byte("# Board\n"), 0o644))

	var calls atomic.Int32
	startWatcher(t, path, &calls)

	require.NoError(t, os.WriteFile(path, []byte("# Board\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte("other"), 0o644))
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
}

func TestWatcher_SeesAtomicReplace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "project.md")
	require.NoError(t, os.WriteFile(path, []byte("# Board\n"), 0o644))

	var calls atomic.Int32
	startWatcher(t, path, &calls)

	tmp := filepath.Join(dir, ".project.md.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte("# Board\n\n## Todo\n"), 0o644))
	require.NoError(t, os.Rename(tmp, path))

	require.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestDebouncer_StopCancelsPending(t *testing.T) {
	var calls atomic.Int32
	d := NewDebouncer(30*time.Millisecond, func() { calls.Add(1) })
	d.Trigger()
	d.Stop()
	d.Trigger()
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
}
