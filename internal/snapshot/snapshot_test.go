package snapshot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNameISO(t *testing.T) {
	name, err := Name(time.Date(2024, time.March, 7, 14, 30, 0, 0, time.UTC), "%Y-%m-%d")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-07", name)
	assert.Len(t, name, 10)
}

func TestNameDeterministic(t *testing.T) {
	d := time.Date(2023, time.December, 31, 23, 59, 59, 0, time.UTC)
	first, err := Name(d, "%Y-%m-%d")
	require.NoError(t, err)
	second, err := Name(d, "%Y-%m-%d")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestNameCustomTemplate(t *testing.T) {
	name, err := Name(time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC), "backup-%Y%m%d")
	require.NoError(t, err)
	assert.Equal(t, "backup-20240102", name)
}

func TestNew(t *testing.T) {
	d := time.Date(2024, time.June, 1, 3, 0, 0, 0, time.UTC)
	snap, err := New(d, "%Y-%m-%d")
	require.NoError(t, err)
	assert.Equal(t, d, snap.Date)
	assert.Equal(t, "2024-06-01", snap.Name)
}

func TestValidateTemplate(t *testing.T) {
	assert.NoError(t, ValidateTemplate("%Y-%m-%d"))
	assert.NoError(t, ValidateTemplate("snap_%Y%m%d"))

	assert.Error(t, ValidateTemplate(""), "empty template")
	assert.Error(t, ValidateTemplate("%Y/%m/%d"), "path separator")
	assert.Error(t, ValidateTemplate("a\\b"), "path separator")
}
