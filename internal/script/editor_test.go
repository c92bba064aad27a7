package script

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/errors"
	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/models"
)

func TestEditorCommitFlattensLine(t *testing.T) {
	w := NewWorkspace()
	_, _ = w.SetText(models.ScriptLaunch, "Write-Host start", SourceEdit)
	line, err := w.Insert(models.ScriptLaunch, startProcess)
	require.NoError(t, err)

	ed, err := OpenEditor(w, models.ScriptLaunch, line, testCatalog())
	require.NoError(t, err)
	assert.True(t, ed.HasUnsetParameters())

	ed.Set("FilePath", "app.exe")
	ed.Set("ArgumentList", "")
	assert.Equal(t, `Start-Process -FilePath "app.exe"`, ed.Preview())
	assert.False(t, ed.HasUnsetParameters())

	text, err := ed.Commit()
	require.NoError(t, err)
	assert.Equal(t, `Start-Process -FilePath "app.exe"`, text)
	assert.Equal(t, "Write-Host start\nStart-Process -FilePath \"app.exe\"", w.Text(models.ScriptLaunch))
	assert.True(t, ed.Closed())
}

func TestEditorCancelLeavesBuffer(t *testing.T) {
	w := NewWorkspace()
	_, _ = w.Insert(models.ScriptRemove, stopProcess)
	before := w.Text(models.ScriptRemove)

	ed, err := OpenEditor(w, models.ScriptRemove, 0, testCatalog())
	require.NoError(t, err)
	ed.Set("Name", "app")
	ed.Cancel()
	ed.Set("Name", "other")

	assert.Equal(t, before, w.Text(models.ScriptRemove))
	assert.Equal(t, "app", ed.Value("Name"))
	assert.Equal(t, "", ed.Value("name"))

	_, err = ed.Commit()
	assert.Error(t, err)
}

func TestEditorCommitDetectsConcurrentEdit(t *testing.T) {
	w := NewWorkspace()
	_, _ = w.Insert(models.ScriptRemove, stopProcess)

	ed, err := OpenEditor(w, models.ScriptRemove, 0, testCatalog())
	require.NoError(t, err)

	_, _ = w.SetText(models.ScriptRemove, "Remove-Item -Path x", SourceEdit)
	ed.Set("Name", "app")

	_, err = ed.Commit()
	assert.True(t, errors.HasCode(err, errors.ErrCodeStaleEdit))
	assert.Equal(t, "Remove-Item -Path x", w.Text(models.ScriptRemove))
}

func TestEditorKeepsCRLF(t *testing.T) {
	w := NewWorkspace()
	_, _ = w.SetText(models.ScriptAdd, "Stop-Process -Name <value>\r\nexit", SourceEdit)

	ed, err := OpenEditor(w, models.ScriptAdd, 0, testCatalog())
	require.NoError(t, err)
	ed.Set("Name", "svc")
	_, err = ed.Commit()
	require.NoError(t, err)

	assert.Equal(t, "Stop-Process -Name \"svc\"\r\nexit", w.Text(models.ScriptAdd))
}

func TestOpenEditorRejectsBadLines(t *testing.T) {
	w := NewWorkspace()
	_, _ = w.SetText(models.ScriptAdd, "# comment", SourceEdit)

	_, err := OpenEditor(w, models.ScriptAdd, 5, testCatalog())
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidInput))

	_, err = OpenEditor(w, models.ScriptAdd, 0, testCatalog())
	assert.True(t, errors.HasCode(err, errors.ErrCodeNotFound))
}
