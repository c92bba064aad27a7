package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/models"
)

func TestRenderText(t *testing.T) {
	r := NewRenderer(models.ScriptAdd, "exit\n")
	out, err := r.Render(FormatText, 80)
	require.NoError(t, err)
	assert.Equal(t, "exit\n", out)
}

func TestRenderMarkdown(t *testing.T) {
	out := NewRenderer(models.ScriptLaunch, "Start-Process -FilePath \"a.exe\"\n\n").RenderMarkdown()
	assert.Equal(t, "# Launch Script\n\n```powershell\nStart-Process -FilePath \"a.exe\"\n```\n", out)

	assert.Contains(t, NewRenderer(models.ScriptRemove, "  ").RenderMarkdown(), "_empty_")
}

func TestRenderPreview(t *testing.T) {
	t.Setenv("GLAMOUR_STYLE", "notty")
	out, err := NewRenderer(models.ScriptRemove, "Remove-Item -Path \"C:\\app\"").Render(FormatPreview, 80)
	require.NoError(t, err)
	assert.Contains(t, out, "Remove-Item")
}

func TestRenderUnknownFormat(t *testing.T) {
	_, err := NewRenderer(models.ScriptAdd, "").Render("html", 80)
	assert.Error(t, err)
}
