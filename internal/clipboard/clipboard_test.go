package clipboard

import (
	stderrors "errors"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/errors"
)

func fakeClipboard(t *testing.T, missing bool) *string {
	t.Helper()
	var stored string
	origWrite, origRead, origUnsupported := writeAll, readAll, unsupported
	t.Cleanup(func() {
		writeAll, readAll, unsupported = origWrite, origRead, origUnsupported
	})

	writeAll = func(s string) error { stored = s; return nil }
	readAll = func() (string, error) { return stored, nil }
	unsupported = func() bool { return missing }
	return &stored
}

func TestClipboardError(t *testing.T) {
	err := NewClipboardError(nil)

	assert.Equal(t, errors.ErrCodeClipboard, err.Code)
	assert.Equal(t, runtime.GOOS, err.Context["os"])
	assert.NotEmpty(t, err.Details)
}

func TestCopyAndPaste(t *testing.T) {
	stored := fakeClipboard(t, false)

	require.NoError(t, Copy("Stop-Process -Name \"app\""))
	assert.Equal(t, "Stop-Process -Name \"app\"", *stored)

	text, err := Paste()
	require.NoError(t, err)
	assert.Equal(t, *stored, text)
	assert.True(t, IsClipboardAvailable())
}

func TestCopyWithoutBackend(t *testing.T) {
	fakeClipboard(t, true)

	err := Copy("x")
	assert.True(t, errors.HasCode(err, errors.ErrCodeClipboard))
	assert.False(t, IsClipboardAvailable())
}

func TestCopyFailure(t *testing.T) {
	fakeClipboard(t, false)
	writeAll = func(string) error { return stderrors.New("xclip exited 1") }

	err := Copy("x")
	assert.True(t, errors.HasCode(err, errors.ErrCodeClipboard))
}
