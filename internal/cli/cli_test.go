package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/config"
	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/errors"
	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/models"
	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/service"
)

type harness struct {
	svc *service.Service
	out *bytes.Buffer
	in  *strings.Reader
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	cfg := config.Default(t.TempDir())
	cfg.Generator = config.GeneratorNone
	svc, err := service.NewService(service.Options{Config: cfg})
	require.NoError(t, err)
	return &harness{svc: svc, out: &bytes.Buffer{}, in: strings.NewReader("")}
}

func (h *harness) run(args ...string) error {
	c := &CLI{service: h.svc, out: h.out, in: h.in}
	root := &cobra.Command{Use: "forge", SilenceUsage: true, SilenceErrors: true}
	c.AddCommands(root)
	root.SetArgs(args)
	root.SetOut(h.out)
	return root.Execute()
}

func TestCommandsListJSON(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.run("commands", "list", "--format", "json"))

	var commands []models.CommandTemplate
	require.NoError(t, json.Unmarshal(h.out.Bytes(), &commands))
	assert.Len(t, commands, h.svc.Catalog().Len())
}

func TestCommandsCategories(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.run("commands", "categories"))
	for _, name := range h.svc.Catalog().Categories() {
		assert.Contains(t, h.out.String(), name+" (")
	}
}

func TestCommandsAdd(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.run("commands", "add", "Invoke-Setup", "--id", "invoke-setup", "-p", "Path, Silent", "-p", "Log"))

	tmpl, err := h.svc.GetCommand("invoke-setup")
	require.NoError(t, err)
	assert.Equal(t, []string{"Path", "Silent", "Log"}, tmpl.ParameterNames())

	err = h.run("commands", "add", "Invoke-Other", "-p", "Path,path")
	assert.True(t, errors.HasCode(err, errors.ErrCodeDuplicateParameter))
}

func TestScriptInsertAndBind(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.run("script", "insert", "launch", "start-process"))
	require.NoError(t, h.run("script", "bind", "launch", "0", "FilePath=C:\\app.exe", "ArgumentList=/quiet"))

	text, _ := h.svc.Script(models.ScriptLaunch)
	assert.Equal(t, `Start-Process -FilePath "C:\app.exe" -ArgumentList "/quiet"`, text)
}

func TestScriptSetFromStdin(t *testing.T) {
	h := newHarness(t)
	h.in = strings.NewReader("Remove-Item -Path \"C:\\app\"\n")
	require.NoError(t, h.run("script", "set", "remove"))

	h.out.Reset()
	require.NoError(t, h.run("script", "show", "remove"))
	assert.Equal(t, "Remove-Item -Path \"C:\\app\"\n", h.out.String())
}

func TestScriptRejectsUnknownType(t *testing.T) {
	h := newHarness(t)
	err := h.run("script", "show", "upgrade")
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidInput))
}

func TestBundleExportImport(t *testing.T) {
	h := newHarness(t)
	dir := t.TempDir()
	require.NoError(t, h.svc.SetScript(models.ScriptAdd, "Install-Package -Name \"app\""))

	require.NoError(t, h.run("bundle", "export", dir))
	path := filepath.Join(dir, "powershell_forge_scripts.json")
	assert.Contains(t, h.out.String(), path)

	require.NoError(t, h.svc.SetScript(models.ScriptAdd, ""))
	require.NoError(t, h.run("bundle", "import", path))
	text, _ := h.svc.Script(models.ScriptAdd)
	assert.Equal(t, "Install-Package -Name \"app\"", text)
}

func TestAIToggle(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.run("ai", "off"))
	assert.False(t, h.svc.AIEnabled())
	assert.Contains(t, h.out.String(), "AI suggestions: off")

	require.NoError(t, h.svc.SetScript(models.ScriptAdd, "x"))
	err := h.run("suggest", "add")
	assert.True(t, errors.HasCode(err, errors.ErrCodeAIDisabled))
}

func TestParseAssignments(t *testing.T) {
	values, err := parseAssignments([]string{"Name=a=b", "-Path= x "})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Name": "a=b", "Path": " x "}, values)

	_, err = parseAssignments([]string{"novalue"})
	assert.Error(t, err)
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	printError(&buf, errors.EmptyNameError(), false)
	assert.Equal(t, "WARNING: Command name is required\n", buf.String())
}
