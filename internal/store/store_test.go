package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clarvel/rotavault/internal/logging"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(t.TempDir(), "latest", nil, logging.Nop{})
}

func mkSnapshot(t *testing.T, s *Store, name string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(s.Root(), name, "data"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(s.Root(), name, "data", "file.txt"), []byte("x"), 0o644))
}

func TestExists(t *testing.T) {
	s := newTestStore(t)
	assert.False(t, s.Exists("2024-01-01"))

	mkSnapshot(t, s, "2024-01-01")
	assert.True(t, s.Exists("2024-01-01"))
}

func TestDeleteIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mkSnapshot(t, s, "2024-01-01")
	require.NoError(t, s.Delete(ctx, "2024-01-01"))
	assert.False(t, s.Exists("2024-01-01"))

	// Second delete of an absent name is success, not an error.
	require.NoError(t, s.Delete(ctx, "2024-01-01"))
	assert.False(t, s.Exists("2024-01-01"))
}

func TestDeleteRecursive(t *testing.T) {
	s := newTestStore(t)

	mkSnapshot(t, s, "2024-01-01")
	require.NoError(t, s.Delete(context.Background(), "2024-01-01"))

	_, err := os.Stat(filepath.Join(s.Root(), "2024-01-01"))
	assert.True(t, os.IsNotExist(err))
}

func TestRefStateAbsent(t *testing.T) {
	s := newTestStore(t)
	assert.Equal(t, RefAbsent, s.RefState())
}

func TestRefStateWrongKind(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, os.Mkdir(s.LatestPath(), 0o755))
	assert.Equal(t, RefWrongKind, s.RefState())
}

func TestLinkLatest(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mkSnapshot(t, s, "2024-01-01")
	require.NoError(t, s.LinkLatest(ctx, "2024-01-01"))
	assert.Equal(t, RefLink, s.RefState())

	target, err := s.LatestTarget()
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", target)
}

func TestLinkLatestRepoints(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mkSnapshot(t, s, "2024-01-01")
	mkSnapshot(t, s, "2024-01-02")

	require.NoError(t, s.LinkLatest(ctx, "2024-01-01"))
	require.NoError(t, s.LinkLatest(ctx, "2024-01-02"))

	target, err := s.LatestTarget()
	require.NoError(t, err)
	assert.Equal(t, "2024-01-02", target)

	// The old snapshot itself is untouched.
	assert.True(t, s.Exists("2024-01-01"))
}

func TestLinkLatestRefusesWrongKind(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, os.WriteFile(s.LatestPath(), []byte("not a link"), 0o644))
	err := s.LinkLatest(context.Background(), "2024-01-01")
	assert.Error(t, err)

	// The stray file survives.
	data, readErr := os.ReadFile(s.LatestPath())
	require.NoError(t, readErr)
	assert.Equal(t, "not a link", string(data))
}

func TestTouch(t *testing.T) {
	s := newTestStore(t)

	mkSnapshot(t, s, "2024-01-01")
	want := time.Date(2024, time.January, 1, 3, 0, 0, 0, time.UTC)
	require.NoError(t, s.Touch("2024-01-01", want))

	info, err := os.Stat(filepath.Join(s.Root(), "2024-01-01"))
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(want))
}

func TestList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mkSnapshot(t, s, "2024-01-02")
	mkSnapshot(t, s, "2024-01-01")
	require.NoError(t, s.LinkLatest(ctx, "2024-01-02"))

	// Stray non-directory entries are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(s.Root(), "notes.txt"), nil, 0o644))

	infos, err := s.List()
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "2024-01-01", infos[0].Name)
	assert.Equal(t, "2024-01-02", infos[1].Name)
}
