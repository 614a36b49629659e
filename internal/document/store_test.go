package document

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tickingClock() func() time.Time {
	t := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func TestStore_ReadMissingDocumentIsEmpty(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "plan.md"))

	lines, err := s.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{""}, lines)
}

func TestStore_UpdateWritesAtomically(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.md")
	s := NewStore(path)
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, "# Plan\n"))
	require.NoError(t, s.Update(ctx, func(lines []string) ([]string, error) {
		return append(lines[:1], "body", ""), nil
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# Plan\nbody\n", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestStore_UpdateErrorLeavesFileUntouched(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.md")
	s := NewStore(path)
	ctx := context.Background()
	require.NoError(t, s.Write(ctx, "keep"))

	boom := errors.New("boom")
	err := s.Update(ctx, func([]string) ([]string, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)

	data, _ := os.ReadFile(path)
	assert.Equal(t, "keep", string(data))
}

func TestStore_ConcurrentUpdatesDoNotLoseWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.md")
	s := NewStore(path)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Update(ctx, func(lines []string) ([]string, error) {
				return append(lines, "x"), nil
			}))
		}()
	}
	wg.Wait()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 20, strings.Count(string(data), "x"))
}

func TestStore_BackupsArePrunedAndDeduplicated(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(filepath.Join(dir, "plan.md"),
		WithBackups(filepath.Join(dir, "backups"), 2),
		WithClock(tickingClock()))
	ctx := context.Background()

	for _, content := range []string{"v1", "v2", "v3", "v4"} {
		require.NoError(t, s.Write(ctx, content))
	}

	backups, err := s.Backups()
	require.NoError(t, err)
	require.Len(t, backups, 2)
	assert.True(t, strings.HasPrefix(filepath.Base(backups[0]), "plan_backup_"))

	oldest, err := os.ReadFile(backups[0])
	require.NoError(t, err)
	assert.Equal(t, "v2", string(oldest))
	newest, err := os.ReadFile(backups[1])
	require.NoError(t, err)
	assert.Equal(t, "v3", string(newest))
}

func TestStore_UnchangedContentIsNotRewritten(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(filepath.Join(dir, "plan.md"), WithBackups(filepath.Join(dir, "backups"), 5), WithClock(tickingClock()))
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, "same"))
	require.NoError(t, s.Write(ctx, "same"))

	backups, err := s.Backups()
	require.NoError(t, err)
	assert.Empty(t, backups)
}

func TestStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewStore(filepath.Join(t.TempDir(), "plan.md"))

	_, err := s.Read(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestContentHash(t *testing.T) {
	assert.Equal(t, ContentHash("a"), ContentHash("a"))
	assert.NotEqual(t, ContentHash("a"), ContentHash("b"))
	assert.Len(t, ContentHash(""), 64)
}
