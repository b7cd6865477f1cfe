package confwatch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clarvel/rotavault/internal/config"
	"github.com/clarvel/rotavault/internal/logging"
)

const validConfig = `
source: /data
destination:
  root: /backups
`

func writeConfig(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(validConfig), 0o644))
}

func TestStartSignalModeReturnsOnCancel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rotavault.yaml")
	writeConfig(t, path)

	w := New(path, logging.Nop{}, func(*config.Config) {})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, w.Start(ctx, "signal"))
}

func TestStartRejectsUnknownMode(t *testing.T) {
	w := New("x", logging.Nop{}, func(*config.Config) {})
	assert.Error(t, w.Start(context.Background(), "carrier-pigeon"))
}

func TestFileChangeTriggersReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rotavault.yaml")
	writeConfig(t, path)

	var applied atomic.Int32
	w := New(path, logging.Nop{}, func(*config.Config) { applied.Add(1) })
	w.debounce = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- w.Start(ctx, "fsnotify") }()

	// Let the watch register before touching the file.
	time.Sleep(100 * time.Millisecond)
	writeConfig(t, path)

	require.Eventually(t, func() bool { return applied.Load() > 0 },
		2*time.Second, 20*time.Millisecond, "debounced reload never fired")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Start did not return after cancel")
	}
}

func TestCancelDropsPendingReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rotavault.yaml")
	writeConfig(t, path)

	var applied atomic.Int32
	w := New(path, logging.Nop{}, func(*config.Config) { applied.Add(1) })
	w.debounce = 400 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- w.Start(ctx, "fsnotify") }()

	// Queue a reload, then shut down while it is still debouncing.
	time.Sleep(100 * time.Millisecond)
	writeConfig(t, path)
	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Start did not return after cancel")
	}

	// Past the debounce window: the pending reload must not fire.
	time.Sleep(500 * time.Millisecond)
	assert.Zero(t, applied.Load(), "reload fired after shutdown")
}
