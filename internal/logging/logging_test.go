package logging

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDisabledIsNop(t *testing.T) {
	fl, err := New(t.TempDir(), false)
	require.NoError(t, err)
	assert.False(t, fl.Enabled)
	assert.Empty(t, fl.Path)
	fl.Logger.Info("dropped")
	assert.NoError(t, fl.Close())
}

func TestNewDebugWritesFile(t *testing.T) {
	dir := t.TempDir()
	fl, err := New(dir, true)
	require.NoError(t, err)
	require.True(t, fl.Enabled)

	fl.Logger.Info("buffer changed")
	_ = fl.Close()

	data, err := os.ReadFile(fl.Path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "buffer changed")
}
