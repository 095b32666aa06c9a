package gdl

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestStoreFilesPreservesInsertionOrder exercises the concurrent fan-out
// path in StoreFiles (len(filenames) > 1): even though the files are read,
// lexed, and parsed concurrently over internal/parallel's pool, the
// resulting trees must be inserted into the Database in filenames order, as
// if each file had been passed to Store one at a time.
func TestStoreFilesPreservesInsertionOrder(t *testing.T) {
	dir := t.TempDir()

	files := []string{
		filepath.Join(dir, "roles.gdl"),
		filepath.Join(dir, "rules.gdl"),
		filepath.Join(dir, "init.gdl"),
	}
	contents := []string{
		"(role x)\n(role o)\n",
		"(<= (legal ?p (noop)) (role ?p))\n",
		"(init (cell 1 1 b))\n",
	}
	for i, f := range files {
		require.NoError(t, os.WriteFile(f, []byte(contents[i]), 0o644))
	}

	sm, err := NewStateMachine(NewDatabase())
	require.NoError(t, err)
	require.NoError(t, sm.StoreFiles(context.Background(), files))

	require.Equal(t, map[string]bool{"x": true, "o": true}, sm.Players())

	result, err := sm.Database().Query(NewTerm("legal", v("x"), NewTerm("noop")))
	require.NoError(t, err)
	require.True(t, result.Truthy())

	result, err = sm.Database().Query(NewTerm("true", NewTerm("cell", v("1"), v("1"), v("b"))))
	require.NoError(t, err)
	require.True(t, result.Truthy())
}

// TestStoreFilesCancellation confirms the parse fan-out actually observes
// context cancellation: with an already-cancelled context, every job's
// ctx.Err() check fires before any file is read, so StoreFiles returns the
// cancellation error rather than silently succeeding.
func TestStoreFilesCancellation(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		filepath.Join(dir, "a.gdl"),
		filepath.Join(dir, "b.gdl"),
	}
	for _, f := range files {
		require.NoError(t, os.WriteFile(f, []byte("(role x)\n"), 0o644))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sm, err := NewStateMachine(NewDatabase())
	require.NoError(t, err)

	err = sm.StoreFiles(ctx, files)
	require.Error(t, err)
	require.ErrorIs(t, err, context.Canceled)
}

// TestStoreFilesSingleFileBypassesPool confirms the len==1 fast path still
// loads correctly without going through internal/parallel at all.
func TestStoreFilesSingleFileBypassesPool(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "only.gdl")
	require.NoError(t, os.WriteFile(f, []byte("(role x)\n(init (cell 1 1 b))\n"), 0o644))

	sm, err := NewStateMachine(NewDatabase())
	require.NoError(t, err)
	require.NoError(t, sm.StoreFiles(context.Background(), []string{f}))
	require.True(t, sm.Players()["x"])
}
