package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/ai"
	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/diff"
	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/errors"
	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/models"
)

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Expected Model, got %T", next)
	}
	return model
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	m, err := NewModel(newTestService(t))
	if err != nil {
		t.Fatalf("failed to create model: %v", err)
	}
	return update(t, *m, tea.WindowSizeMsg{Width: 120, Height: 40})
}

func TestModel_InsertSelectedCommand(t *testing.T) {
	m := newTestModel(t)
	selected, ok := m.catalogList.SelectedItem().(models.CommandTemplate)
	if !ok {
		t.Fatal("Expected a selected catalog command")
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	text, _ := m.service.Script(models.ScriptAdd)
	if !strings.HasPrefix(text, selected.Name) {
		t.Errorf("Expected add script to start with %s, got '%s'", selected.Name, text)
	}
	if m.editors[0].Value() != text {
		t.Errorf("Expected editor to show '%s', got '%s'", text, m.editors[0].Value())
	}
}

func TestModel_TabsAndTyping(t *testing.T) {
	m := newTestModel(t)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.activeType() != models.ScriptLaunch {
		t.Fatalf("Expected launch tab, got %s", m.activeType())
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != focusEditor {
		t.Fatal("Expected tab to focus the editor")
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("Write-Host hi")})

	text, _ := m.service.Script(models.ScriptLaunch)
	if text != "Write-Host hi" {
		t.Errorf("Expected typed text in the launch script, got '%s'", text)
	}
}

func TestModel_ToggleAI(t *testing.T) {
	m := newTestModel(t)
	if m.service.AIEnabled() {
		t.Fatal("Expected AI suggestions to start off")
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlX})
	if !m.service.AIEnabled() {
		t.Error("Expected AI suggestions to be on")
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlX})
	if m.service.AIEnabled() {
		t.Error("Expected AI suggestions to be off")
	}

	_ = m.service.SetScript(models.ScriptAdd, "Write-Host hi")
	m.refreshEditor(0)
	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if m.statusType != "info" || !strings.Contains(m.statusMsg, "turned off") {
		t.Errorf("Expected AI disabled status, got %s '%s'", m.statusType, m.statusMsg)
	}
	if m.awaiting(models.ScriptAdd) {
		t.Error("Expected no request to be started")
	}
}

func TestModel_GenerateDialogCancel(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlG})
	if m.viewMode != ViewGenerate {
		t.Fatal("Expected generate dialog")
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if m.viewMode != ViewGenerate || m.statusType != "warning" {
		t.Errorf("Expected empty description warning, got %s '%s'", m.statusType, m.statusMsg)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.viewMode != ViewMain {
		t.Error("Expected esc to close the dialog")
	}
}

func TestModel_StaleResultKeepsBuffer(t *testing.T) {
	m := newTestModel(t)
	_ = m.service.SetScript(models.ScriptAdd, "Write-Host mine")
	m.refreshEditor(0)

	m = update(t, m, aiResultMsg{
		scriptType: models.ScriptAdd,
		operation:  ai.OpSuggest,
		err:        errors.StaleResultError(ai.OpSuggest),
	})
	if m.editors[0].Value() != "Write-Host mine" {
		t.Errorf("Expected buffer to be kept, got '%s'", m.editors[0].Value())
	}
	if m.viewMode != ViewMain || m.statusMsg == "" {
		t.Error("Expected stale result to be reported in the status line")
	}
}

func TestModel_LateCanceledResultKeepsNewerCall(t *testing.T) {
	m := newTestModel(t)
	_, first := m.track(models.ScriptAdd)
	m.cancelAI(models.ScriptAdd)
	ctx, second := m.track(models.ScriptAdd)

	m = update(t, m, aiResultMsg{
		scriptType: models.ScriptAdd,
		call:       first,
		operation:  ai.OpSuggest,
		err:        errors.NewAppError(errors.ErrCodeCanceled, "The suggest request was canceled"),
	})
	if !m.awaiting(models.ScriptAdd) {
		t.Fatal("Expected the newer call to stay tracked")
	}
	if ctx.Err() != nil {
		t.Fatal("Expected the newer call not to be canceled")
	}

	m = update(t, m, aiResultMsg{
		scriptType: models.ScriptAdd,
		call:       second,
		operation:  ai.OpSuggest,
		err:        errors.NewAppError(errors.ErrCodeCanceled, "The suggest request was canceled"),
	})
	if m.awaiting(models.ScriptAdd) {
		t.Error("Expected the matching result to release the call")
	}
}

func TestRenderDiff(t *testing.T) {
	res := ai.Result{
		ScriptType: models.ScriptAdd,
		Operation:  ai.OpGenerate,
		Diff:       diff.Summarize("Write-Host a\n", "Write-Host a\nWrite-Host b\n"),
	}
	out := renderDiff(res)
	if !strings.Contains(out, "+ Write-Host b") {
		t.Errorf("Expected added line in diff, got:\n%s", out)
	}
	if !strings.Contains(out, "Generation: add script (+1 -0)") {
		t.Errorf("Expected header in diff, got:\n%s", out)
	}
}
