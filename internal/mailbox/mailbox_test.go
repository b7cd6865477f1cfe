package mailbox

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutTake(t *testing.T) {
	m := New[int]()
	m.Put(1)

	v, ok := m.Take(context.Background())
	require.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestLatestWins(t *testing.T) {
	m := New[int]()
	m.Put(1)
	m.Put(2)
	m.Put(3)

	v, ok := m.Take(context.Background())
	require.True(t, ok)
	assert.Equal(t, 3, v, "older pending jobs are replaced, not queued")
	assert.False(t, m.Pending())
}

func TestTakeHonorsContext(t *testing.T) {
	m := New[int]()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, ok := m.Take(ctx)
	assert.False(t, ok)
}

func TestTakeUnblocksOnPut(t *testing.T) {
	m := New[string]()

	done := make(chan string, 1)
	go func() {
		v, _ := m.Take(context.Background())
		done <- v
	}()

	m.Put("job")

	select {
	case v := <-done:
		assert.Equal(t, "job", v)
	case <-time.After(time.Second):
		t.Fatal("Take did not unblock")
	}
}

func TestPending(t *testing.T) {
	m := New[int]()
	assert.False(t, m.Pending())
	m.Put(1)
	assert.True(t, m.Pending())
}
