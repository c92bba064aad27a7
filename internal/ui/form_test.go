package ui

import (
	"reflect"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/config"
	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/models"
	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/service"
)

func newTestService(t *testing.T) *service.Service {
	t.Helper()
	t.Setenv("GLAMOUR_STYLE", "dark")
	cfg := config.Default(t.TempDir())
	cfg.Generator = config.GeneratorNone
	svc, err := service.NewService(service.Options{Config: cfg})
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	return svc
}

func typeText(update func(tea.Msg) tea.Cmd, text string) {
	update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

func TestParameterForm_PreviewAndCommit(t *testing.T) {
	svc := newTestService(t)
	if err := svc.SetScript(models.ScriptLaunch, "Start-Process -FilePath <value> -ArgumentList <value>"); err != nil {
		t.Fatal(err)
	}
	session, err := svc.OpenEditor(models.ScriptLaunch, 0)
	if err != nil {
		t.Fatal(err)
	}

	form := NewParameterForm(session)
	if form.inputs[0].Value() != "" {
		t.Errorf("Expected placeholder not to be prefilled, got '%s'", form.inputs[0].Value())
	}

	typeText(form.Update, `C:\app.exe`)
	form.Update(tea.KeyMsg{Type: tea.KeyTab})
	typeText(form.Update, "/quiet")

	want := `Start-Process -FilePath "C:\app.exe" -ArgumentList "/quiet"`
	if got := session.Preview(); got != want {
		t.Errorf("Expected preview '%s', got '%s'", want, got)
	}
	if text, _ := svc.Script(models.ScriptLaunch); text == want {
		t.Error("Expected buffer to stay unchanged before commit")
	}

	form.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !form.IsSubmitted() {
		t.Fatal("Expected enter to submit the form")
	}
	if _, err := session.Commit(); err != nil {
		t.Fatal(err)
	}
	if text, _ := svc.Script(models.ScriptLaunch); text != want {
		t.Errorf("Expected buffer '%s', got '%s'", want, text)
	}
}

func TestParameterForm_PrefillsBoundValues(t *testing.T) {
	svc := newTestService(t)
	_ = svc.SetScript(models.ScriptRemove, `Stop-Process -Name "app"`)
	session, err := svc.OpenEditor(models.ScriptRemove, 0)
	if err != nil {
		t.Fatal(err)
	}

	form := NewParameterForm(session)
	if form.inputs[0].Value() != "app" {
		t.Errorf("Expected 'app', got '%s'", form.inputs[0].Value())
	}

	form.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !form.IsCanceled() {
		t.Error("Expected esc to cancel the form")
	}
}

func TestCommandForm_ToRequest(t *testing.T) {
	form := NewCommandForm()
	typeText(form.Update, "Invoke-Setup")
	form.Update(tea.KeyMsg{Type: tea.KeyEnter}) // to ID
	form.Update(tea.KeyMsg{Type: tea.KeyEnter}) // to Category
	typeText(form.Update, "Setup")
	form.Update(tea.KeyMsg{Type: tea.KeyTab})
	form.Update(tea.KeyMsg{Type: tea.KeyTab})
	typeText(form.Update, "Path, -Silent")

	if form.IsSubmitted() {
		t.Fatal("Expected form not to be submitted yet")
	}
	form.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !form.IsSubmitted() {
		t.Fatal("Expected enter on the last field to submit")
	}

	req := form.ToRequest()
	if req.Name != "Invoke-Setup" || req.Category != "Setup" || req.ID != "" {
		t.Errorf("Unexpected request %+v", req)
	}
	if !reflect.DeepEqual(req.Parameters, []string{"Path", "Silent"}) {
		t.Errorf("Expected parameters [Path Silent], got %v", req.Parameters)
	}
}

func TestSelectForm_Wraps(t *testing.T) {
	form := NewSelectForm("Files", []SelectOption{
		{Label: "one", Value: 1},
		{Label: "two", Value: 2},
	})

	form.Update(tea.KeyMsg{Type: tea.KeyUp})
	if got := form.GetSelected().Value; got != 2 {
		t.Errorf("Expected up to wrap to the last option, got %v", got)
	}
	form.Update(tea.KeyMsg{Type: tea.KeyDown})
	if got := form.GetSelected().Value; got != 1 {
		t.Errorf("Expected down to wrap to the first option, got %v", got)
	}

	form.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !form.IsSubmitted() {
		t.Error("Expected enter to submit")
	}
	form.Reset()
	if form.IsSubmitted() || form.IsCanceled() {
		t.Error("Expected reset to clear state")
	}
}

func TestPathForm_Prefill(t *testing.T) {
	form := NewPathForm("Save bundle to", "powershell_forge_scripts.json")
	if form.Value() != "powershell_forge_scripts.json" {
		t.Errorf("Unexpected value '%s'", form.Value())
	}
	form.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !form.IsSubmitted() {
		t.Error("Expected enter to submit")
	}
}
