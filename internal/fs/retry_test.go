package fs

import (
	"context"
	"errors"
	"fmt"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetrySucceedsFirstTry(t *testing.T) {
	calls := 0
	err := retry(context.Background(), "op", func() error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetryRecoversFromTransient(t *testing.T) {
	calls := 0
	err := retry(context.Background(), "op", func() error {
		calls++
		if calls < 3 {
			return fmt.Errorf("wrapped: %w", syscall.EBUSY)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryStopsOnPermanentError(t *testing.T) {
	calls := 0
	permanent := errors.New("no such file")
	err := retry(context.Background(), "op", func() error {
		calls++
		return permanent
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, calls, "permanent errors must not be retried")
}

func TestRetryHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := retry(ctx, "op", func() error { return syscall.EAGAIN })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsTransient(t *testing.T) {
	assert.True(t, isTransient(syscall.EAGAIN))
	assert.True(t, isTransient(syscall.EBUSY))
	assert.True(t, isTransient(syscall.ETIMEDOUT))
	assert.True(t, isTransient(fmt.Errorf("op: %w", syscall.EBUSY)))
	assert.False(t, isTransient(errors.New("boom")))
	assert.False(t, isTransient(syscall.ENOENT))
}
