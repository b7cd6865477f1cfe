package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferedMessagesFlushOnActivate(t *testing.T) {
	l := New()
	l.Info("first", "k", "v")
	l.Warn("second")

	var out bytes.Buffer
	require.NoError(t, l.ActivateWriter("info", "json", &out))

	logs := out.String()
	assert.Contains(t, logs, `"message":"first"`)
	assert.Contains(t, logs, `"k":"v"`)
	assert.Contains(t, logs, `"message":"second"`)

	// Buffered order is preserved.
	assert.Less(t, strings.Index(logs, "first"), strings.Index(logs, "second"))
}

func TestDirectWritesAfterActivate(t *testing.T) {
	l := New()
	var out bytes.Buffer
	require.NoError(t, l.ActivateWriter("info", "json", &out))

	l.Info("live")
	assert.Contains(t, out.String(), `"message":"live"`)
}

func TestLevelFilterAppliesToBuffer(t *testing.T) {
	l := New()
	l.Debug("noise")
	l.Info("signal")

	var out bytes.Buffer
	require.NoError(t, l.ActivateWriter("info", "json", &out))

	assert.NotContains(t, out.String(), "noise")
	assert.Contains(t, out.String(), "signal")
}

func TestActivateIsOneWay(t *testing.T) {
	l := New()
	var out bytes.Buffer
	require.NoError(t, l.ActivateWriter("info", "json", &out))
	assert.Error(t, l.ActivateWriter("info", "json", &out))
}

func TestActivateRejectsBadSettings(t *testing.T) {
	var out bytes.Buffer
	assert.Error(t, New().ActivateWriter("loud", "json", &out))
	assert.Error(t, New().ActivateWriter("info", "xml", &out))
}

func TestTextFormat(t *testing.T) {
	l := New()
	l.Info("hello", "snapshot", "2024-01-01")

	var out bytes.Buffer
	require.NoError(t, l.ActivateWriter("debug", "text", &out))

	assert.Contains(t, out.String(), "hello")
	assert.Contains(t, out.String(), "2024-01-01")
}
