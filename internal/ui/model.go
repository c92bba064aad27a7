package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/ai"
	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/clipboard"
	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/codec"
	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/diff"
	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/errors"
	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/models"
	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/renderer"
	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/service"
)

// aiResultMsg carries the outcome of a generate or suggest call
type aiResultMsg struct {
	scriptType models.ScriptType
	call       uint64
	operation  string
	result     ai.Result
	err        error
}

// generateCmd runs a generation in the background
func generateCmd(ctx context.Context, svc *service.Service, t models.ScriptType, call uint64, description string) tea.Cmd {
	return func() tea.Msg {
		res, err := svc.Generate(ctx, t, description)
		return aiResultMsg{scriptType: t, call: call, operation: ai.OpGenerate, result: res, err: err}
	}
}

// suggestCmd asks for a refinement of the current buffer in the background
func suggestCmd(ctx context.Context, svc *service.Service, t models.ScriptType, call uint64) tea.Cmd {
	return func() tea.Msg {
		res, err := svc.Suggest(ctx, t)
		return aiResultMsg{scriptType: t, call: call, operation: ai.OpSuggest, result: res, err: err}
	}
}

// ViewMode represents the current view in the TUI
type ViewMode int

const (
	ViewMain ViewMode = iota
	ViewParameters
	ViewNewCommand
	ViewGenerate
	ViewFiles
	ViewPath
	ViewPreview
	ViewDiff
	ViewHelp
)

type focusArea int

const (
	focusCatalog focusArea = iota
	focusEditor
)

// fileAction names an entry of the files menu
type fileAction int

const (
	actionSaveScript fileAction = iota
	actionLoadScript
	actionSaveBundle
	actionLoadBundle
)

// Model represents the TUI application state
type Model struct {
	service      *service.Service
	errorHandler *errors.TUIErrorHandler
	viewMode     ViewMode
	focus        focusArea

	// UI components
	catalogList list.Model
	editors     []textarea.Model
	viewport    viewport.Model
	help        help.Model
	keys        KeyMap

	// Last text pushed to or read from the service, per tab
	synced []string
	active int

	// Dialogs
	paramForm   *ParameterForm
	commandForm *CommandForm
	promptForm  *PromptForm
	selectForm  *SelectForm
	pathForm    *PathForm
	pathAction  fileAction

	// AI calls started from this model that have not reported back
	calls    map[models.ScriptType]aiCall
	lastCall uint64

	// Window dimensions
	width  int
	height int

	// Status messages
	statusMsg     string
	statusType    string
	statusTimeout int
}

// KeyMap defines all key bindings
type KeyMap struct {
	SwitchFocus key.Binding
	NextTab     key.Binding
	Insert      key.Binding
	NewCommand  key.Binding
	Filter      key.Binding
	Parameters  key.Binding
	Generate    key.Binding
	Suggest     key.Binding
	CancelAI    key.Binding
	ToggleAI    key.Binding
	Files       key.Binding
	Copy        key.Binding
	Preview     key.Binding
	Help        key.Binding
	Quit        key.Binding
}

// ShortHelp returns keybindings to show in the mini help view
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns keybindings to show in the full help view
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.SwitchFocus, k.NextTab, k.Insert, k.NewCommand, k.Filter},
		{k.Parameters, k.Generate, k.Suggest, k.CancelAI, k.ToggleAI},
		{k.Files, k.Copy, k.Preview},
		{k.Help, k.Quit},
	}
}

var keys = KeyMap{
	SwitchFocus: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("Tab", "catalog/editor"),
	),
	NextTab: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("Shift+Tab", "next script"),
	),
	Insert: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("Enter", "insert command"),
	),
	NewCommand: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new command"),
	),
	Filter: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "filter catalog"),
	),
	Parameters: key.NewBinding(
		key.WithKeys("ctrl+e"),
		key.WithHelp("Ctrl+e", "edit parameters"),
	),
	Generate: key.NewBinding(
		key.WithKeys("ctrl+g"),
		key.WithHelp("Ctrl+g", "generate script"),
	),
	Suggest: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("Ctrl+s", "suggest refinement"),
	),
	CancelAI: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "cancel AI request"),
	),
	ToggleAI: key.NewBinding(
		key.WithKeys("ctrl+x"),
		key.WithHelp("Ctrl+x", "toggle AI suggestions"),
	),
	Files: key.NewBinding(
		key.WithKeys("ctrl+o"),
		key.WithHelp("Ctrl+o", "save/load"),
	),
	Copy: key.NewBinding(
		key.WithKeys("ctrl+y"),
		key.WithHelp("Ctrl+y", "copy script"),
	),
	Preview: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("Ctrl+r", "preview"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// NewModel creates a new TUI model
func NewModel(svc *service.Service) (*Model, error) {
	// Initialize adaptive colors based on terminal background
	initializeColors()

	commands := svc.ListCommands()
	items := make([]list.Item, len(commands))
	for i, c := range commands {
		items[i] = c
	}

	l := list.New(items, list.NewDefaultDelegate(), 40, 20) // Default size, will be updated on first WindowSizeMsg
	l.Title = "Commands"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)
	keyMap := list.DefaultKeyMap()
	keyMap.Quit = key.NewBinding(key.WithDisabled())
	keyMap.ForceQuit = key.NewBinding(key.WithDisabled())
	l.KeyMap = keyMap

	m := &Model{
		service:      svc,
		errorHandler: errors.NewTUIErrorHandler(false, svc.Logger().Named("ui")),
		viewMode:     ViewMain,
		focus:        focusCatalog,
		catalogList:  l,
		editors:      make([]textarea.Model, len(models.ScriptTypes)),
		synced:       make([]string, len(models.ScriptTypes)),
		viewport:     viewport.New(80, 20),
		help:         help.New(),
		keys:         keys,
		calls:        make(map[models.ScriptType]aiCall),
	}
	m.viewport.Style = lipgloss.NewStyle()

	for i := range m.editors {
		ta := textarea.New()
		ta.Placeholder = "Insert commands from the catalog or type PowerShell here..."
		ta.CharLimit = 0
		ta.MaxHeight = 0
		ta.ShowLineNumbers = true
		ta.SetWidth(60)
		ta.SetHeight(20)
		m.editors[i] = ta
		m.refreshEditor(i)
	}
	return m, nil
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// tickMsg is sent to clear the status message
type tickMsg time.Time

// clearStatusCmd returns a command that clears the status message after a delay
func clearStatusCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) activeType() models.ScriptType {
	return models.ScriptTypes[m.active]
}

func (m *Model) tabIndex(t models.ScriptType) int {
	for i, st := range models.ScriptTypes {
		if st == t {
			return i
		}
	}
	return 0
}

// refreshEditor reloads tab i from the service, keeping the cursor row when
// the line still exists
func (m *Model) refreshEditor(i int) {
	text, err := m.service.Script(models.ScriptTypes[i])
	if err != nil {
		return
	}
	row := m.editors[i].Line()
	m.editors[i].SetValue(text)
	for m.editors[i].Line() > row {
		before := m.editors[i].Line()
		m.editors[i].CursorUp()
		if m.editors[i].Line() == before {
			break
		}
	}
	m.editors[i].CursorStart()
	m.synced[i] = m.editors[i].Value()
}

func (m *Model) refreshAllEditors() {
	for i := range m.editors {
		m.refreshEditor(i)
	}
}

// syncEditor pushes typed changes of tab i into the service
func (m *Model) syncEditor(i int) {
	value := m.editors[i].Value()
	if value == m.synced[i] {
		return
	}
	if err := m.service.SetScript(models.ScriptTypes[i], value); err != nil {
		m.setError(err)
		return
	}
	m.synced[i] = value
}

func (m *Model) refreshCatalog() tea.Cmd {
	commands := m.service.ListCommands()
	items := make([]list.Item, len(commands))
	for i, c := range commands {
		items[i] = c
	}
	return m.catalogList.SetItems(items)
}

func (m *Model) setStatus(msg, statusType string) tea.Cmd {
	m.statusMsg = msg
	m.statusType = statusType
	m.statusTimeout = 4
	return clearStatusCmd()
}

func (m *Model) setError(err error) tea.Cmd {
	m.errorHandler.HandleError(err)
	icon, _ := m.errorHandler.GetErrorStyle(err)
	statusType := "error"
	switch errors.GetAppError(err).Severity {
	case errors.SeverityWarning:
		statusType = "warning"
	case errors.SeverityInfo:
		statusType = "info"
	}
	return m.setStatus(icon+" "+m.errorHandler.FormatError(err), statusType)
}

func (m *Model) setFocus(f focusArea) tea.Cmd {
	m.focus = f
	if f == focusEditor {
		return m.editors[m.active].Focus()
	}
	m.editors[m.active].Blur()
	return nil
}

func (m *Model) switchTab(i int) tea.Cmd {
	m.editors[m.active].Blur()
	m.active = (i + len(m.editors)) % len(m.editors)
	if m.focus == focusEditor {
		return m.editors[m.active].Focus()
	}
	return nil
}

func (m *Model) resize() {
	catalogWidth := m.width * 2 / 5
	if catalogWidth < 30 {
		catalogWidth = 30
	}
	editorWidth := m.width - catalogWidth - 6
	if editorWidth < 20 {
		editorWidth = 20
	}
	bodyHeight := m.height - 8
	if bodyHeight < 5 {
		bodyHeight = 5
	}
	m.catalogList.SetSize(catalogWidth, bodyHeight)
	for i := range m.editors {
		m.editors[i].SetWidth(editorWidth)
		m.editors[i].SetHeight(bodyHeight)
	}
	m.viewport.Width = m.width - 10
	m.viewport.Height = m.height - 10
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tickMsg:
		if m.statusTimeout > 0 {
			m.statusTimeout--
			if m.statusTimeout == 0 {
				m.statusMsg = ""
				return m, nil
			}
			return m, clearStatusCmd()
		}
		return m, nil

	case aiResultMsg:
		return m.handleAIResult(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.cancelAll()
			return m, tea.Quit
		}
		switch m.viewMode {
		case ViewParameters:
			return m.updateParameters(msg)
		case ViewNewCommand:
			return m.updateNewCommand(msg)
		case ViewGenerate:
			return m.updateGenerate(msg)
		case ViewFiles:
			return m.updateFiles(msg)
		case ViewPath:
			return m.updatePath(msg)
		case ViewPreview, ViewDiff, ViewHelp:
			switch msg.String() {
			case "esc", "q", "enter":
				m.viewMode = ViewMain
				return m, nil
			}
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		return m.updateMain(msg)
	}

	// Forward everything else (blink, filter results) to the focused widgets
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.catalogList, cmd = m.catalogList.Update(msg)
	cmds = append(cmds, cmd)
	m.editors[m.active], cmd = m.editors[m.active].Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) updateMain(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// While the catalog filter is being typed every key belongs to the list
	if m.focus == focusCatalog && m.catalogList.SettingFilter() {
		var cmd tea.Cmd
		m.catalogList, cmd = m.catalogList.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.SwitchFocus):
		if m.focus == focusCatalog {
			return m, m.setFocus(focusEditor)
		}
		return m, m.setFocus(focusCatalog)

	case key.Matches(msg, m.keys.NextTab):
		return m, m.switchTab(m.active + 1)

	case key.Matches(msg, m.keys.Parameters):
		return m.openParameters()

	case key.Matches(msg, m.keys.Generate):
		if m.service.AIPending(m.activeType()) {
			return m, m.setError(errors.NewAppError(errors.ErrCodeRequestInFlight,
				"A generation is already running for this script"))
		}
		m.promptForm = NewPromptForm("Generate " + m.activeType().Label())
		m.viewMode = ViewGenerate
		return m, nil

	case key.Matches(msg, m.keys.Suggest):
		return m.startSuggest()

	case key.Matches(msg, m.keys.CancelAI):
		t := m.activeType()
		if m.service.AIPending(t) {
			m.cancelAI(t)
			return m, m.setStatus("Canceled AI request for the "+string(t)+" script", "info")
		}
		if m.focus == focusCatalog && m.catalogList.FilterState() != list.Unfiltered {
			m.catalogList.ResetFilter()
		}
		return m, nil

	case key.Matches(msg, m.keys.ToggleAI):
		enabled := !m.service.AIEnabled()
		m.service.SetAIEnabled(enabled)
		return m, m.setStatus("AI suggestions "+onOff(enabled), "info")

	case key.Matches(msg, m.keys.Files):
		m.selectForm = NewSelectForm("Files", []SelectOption{
			{Label: "Save script", Description: "Write the " + string(m.activeType()) + " script to a .ps1 file", Value: actionSaveScript},
			{Label: "Load script", Description: "Replace the " + string(m.activeType()) + " script from a .ps1 or .txt file", Value: actionLoadScript},
			{Label: "Save bundle", Description: "Write all three scripts to a .json bundle", Value: actionSaveBundle},
			{Label: "Load bundle", Description: "Replace all three scripts from a .json bundle", Value: actionLoadBundle},
		})
		m.viewMode = ViewFiles
		return m, nil

	case key.Matches(msg, m.keys.Copy):
		if err := m.service.CopyScript(m.activeType()); err != nil {
			return m, m.setError(err)
		}
		return m, m.setStatus("✓ Copied "+m.activeType().Label()+" to clipboard", "success")

	case key.Matches(msg, m.keys.Preview):
		text, _ := m.service.Script(m.activeType())
		out, err := renderer.NewRenderer(m.activeType(), text).RenderTerminal(m.viewport.Width)
		if err != nil {
			return m, m.setError(errors.Wrap(err, errors.ErrCodeInternalError, "Failed to render preview"))
		}
		m.viewport.SetContent(out)
		m.viewport.GotoTop()
		m.viewMode = ViewPreview
		return m, nil
	}

	if m.focus == focusEditor {
		var cmd tea.Cmd
		m.editors[m.active], cmd = m.editors[m.active].Update(msg)
		m.syncEditor(m.active)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.cancelAll()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = true
		m.viewport.SetContent(m.help.View(m.keys))
		m.viewport.GotoTop()
		m.viewMode = ViewHelp
		return m, nil
	case key.Matches(msg, m.keys.Insert):
		return m.insertSelected()
	case key.Matches(msg, m.keys.NewCommand):
		m.commandForm = NewCommandForm()
		m.viewMode = ViewNewCommand
		return m, nil
	}

	switch msg.String() {
	case "1", "2", "3":
		return m, m.switchTab(int(msg.String()[0] - '1'))
	}

	var cmd tea.Cmd
	m.catalogList, cmd = m.catalogList.Update(msg)
	return m, cmd
}

func (m Model) insertSelected() (tea.Model, tea.Cmd) {
	tmpl, ok := m.catalogList.SelectedItem().(models.CommandTemplate)
	if !ok {
		return m, nil
	}
	t := m.activeType()
	line, err := m.service.Insert(t, tmpl.ID)
	if err != nil {
		return m, m.setError(err)
	}
	m.refreshEditor(m.active)
	for m.editors[m.active].Line() < line {
		before := m.editors[m.active].Line()
		m.editors[m.active].CursorDown()
		if m.editors[m.active].Line() == before {
			break
		}
	}
	return m, m.setStatus(fmt.Sprintf("Inserted %s at line %d of the %s script", tmpl.Name, line+1, t), "success")
}

func (m Model) openParameters() (tea.Model, tea.Cmd) {
	session, err := m.service.OpenEditor(m.activeType(), m.editors[m.active].Line())
	if err != nil {
		return m, m.setError(err)
	}
	m.paramForm = NewParameterForm(session)
	m.viewMode = ViewParameters
	return m, nil
}

func (m Model) updateParameters(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cmd := m.paramForm.Update(msg)
	switch {
	case m.paramForm.IsCanceled():
		m.paramForm.Session().Cancel()
		m.paramForm = nil
		m.viewMode = ViewMain
		return m, nil
	case m.paramForm.IsSubmitted():
		session := m.paramForm.Session()
		m.paramForm = nil
		m.viewMode = ViewMain
		if _, err := session.Commit(); err != nil {
			return m, m.setError(err)
		}
		m.refreshEditor(m.active)
		return m, m.setStatus("✓ Updated "+session.Template().Name, "success")
	}
	return m, cmd
}

func (m Model) updateNewCommand(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cmd := m.commandForm.Update(msg)
	switch {
	case m.commandForm.IsCanceled():
		m.commandForm = nil
		m.viewMode = ViewMain
		return m, nil
	case m.commandForm.IsSubmitted():
		tmpl, err := m.service.AddCustomCommand(m.commandForm.ToRequest())
		if err != nil {
			// Keep the form open so the input can be corrected
			m.commandForm.Resubmit()
			return m, m.setError(err)
		}
		m.commandForm = nil
		m.viewMode = ViewMain
		return m, tea.Batch(m.refreshCatalog(), m.setStatus("✓ Added "+tmpl.Name+" to the catalog", "success"))
	}
	return m, cmd
}

func (m Model) updateGenerate(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	t := m.activeType()
	if m.awaiting(t) {
		if msg.String() == "esc" {
			m.cancelAI(t)
			m.promptForm = nil
			m.viewMode = ViewMain
			return m, m.setStatus("Canceled generation of the "+string(t)+" script", "info")
		}
		return m, nil
	}

	cmd := m.promptForm.Update(msg)
	switch {
	case m.promptForm.IsCanceled():
		m.promptForm = nil
		m.viewMode = ViewMain
		return m, nil
	case m.promptForm.IsSubmitted():
		description := m.promptForm.Value()
		if description == "" {
			m.promptForm.submitted = false
			return m, m.setError(errors.EmptyDescriptionError())
		}
		ctx, call := m.track(t)
		return m, tea.Batch(generateCmd(ctx, m.service, t, call, description),
			m.setStatus("Generating "+string(t)+" script...", "info"))
	}
	return m, cmd
}

func (m Model) startSuggest() (tea.Model, tea.Cmd) {
	t := m.activeType()
	if !m.service.AIEnabled() {
		return m, m.setError(errors.NewAppError(errors.ErrCodeAIDisabled, "AI suggestions are turned off (Ctrl+x to enable)"))
	}
	if m.service.AIPending(t) {
		return m, m.setError(errors.NewAppError(errors.ErrCodeRequestInFlight,
			"A generation is already running for this script"))
	}
	ctx, call := m.track(t)
	return m, tea.Batch(suggestCmd(ctx, m.service, t, call),
		m.setStatus("Requesting suggestion for the "+string(t)+" script...", "info"))
}

// aiCall is an AI request started from the model
type aiCall struct {
	id     uint64
	cancel context.CancelFunc
}

// track registers a new AI call for t and returns its context and id
func (m *Model) track(t models.ScriptType) (context.Context, uint64) {
	ctx, cancel := context.WithCancel(context.Background())
	m.lastCall++
	m.calls[t] = aiCall{id: m.lastCall, cancel: cancel}
	return ctx, m.lastCall
}

// awaiting reports whether this model started an AI call for t that has not
// reported back yet
func (m *Model) awaiting(t models.ScriptType) bool {
	_, ok := m.calls[t]
	return ok
}

func (m *Model) cancelAI(t models.ScriptType) {
	if call, ok := m.calls[t]; ok {
		call.cancel()
		delete(m.calls, t)
	}
	m.service.CancelAI(t)
}

func (m *Model) cancelAll() {
	for t := range m.calls {
		m.cancelAI(t)
	}
}

func (m Model) handleAIResult(msg aiResultMsg) (tea.Model, tea.Cmd) {
	// A late result of an earlier call must not release the current one
	current := false
	if call, ok := m.calls[msg.scriptType]; ok && call.id == msg.call {
		call.cancel()
		delete(m.calls, msg.scriptType)
		current = true
	}
	if current && msg.operation == ai.OpGenerate && m.viewMode == ViewGenerate && m.activeType() == msg.scriptType {
		m.promptForm = nil
		m.viewMode = ViewMain
	}

	if msg.err != nil {
		if errors.HasCode(msg.err, errors.ErrCodeCanceled) {
			return m, nil
		}
		return m, m.setError(msg.err)
	}

	i := m.tabIndex(msg.scriptType)
	m.refreshEditor(i)
	if m.viewMode == ViewMain {
		m.viewport.SetContent(renderDiff(msg.result))
		m.viewport.GotoTop()
		m.viewMode = ViewDiff
	}
	return m, m.setStatus(fmt.Sprintf("✓ %s applied to the %s script (%s)",
		operationLabel(msg.operation), msg.scriptType, msg.result.Diff), "success")
}

func (m Model) updateFiles(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.selectForm.Update(msg)
	switch {
	case m.selectForm.IsCanceled():
		m.selectForm = nil
		m.viewMode = ViewMain
	case m.selectForm.IsSubmitted():
		action := m.selectForm.GetSelected().Value.(fileAction)
		m.selectForm = nil
		m.pathAction = action
		var title, initial string
		switch action {
		case actionSaveScript:
			title, initial = "Save "+m.activeType().Label()+" to", codec.ScriptFileName(m.activeType())
		case actionLoadScript:
			title, initial = "Load "+m.activeType().Label()+" from", codec.ScriptFileName(m.activeType())
		case actionSaveBundle:
			title, initial = "Save bundle to", codec.BundleFileName
		case actionLoadBundle:
			title, initial = "Load bundle from", codec.BundleFileName
		}
		m.pathForm = NewPathForm(title, initial)
		m.viewMode = ViewPath
	}
	return m, nil
}

func (m Model) updatePath(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cmd := m.pathForm.Update(msg)
	switch {
	case m.pathForm.IsCanceled():
		m.pathForm = nil
		m.viewMode = ViewMain
		return m, nil
	case m.pathForm.IsSubmitted():
		path := m.pathForm.Value()
		m.pathForm = nil
		m.viewMode = ViewMain
		return m, m.runFileAction(m.pathAction, path)
	}
	return m, cmd
}

func (m *Model) runFileAction(action fileAction, path string) tea.Cmd {
	t := m.activeType()
	switch action {
	case actionSaveScript:
		saved, err := m.service.SaveScriptFile(t, path)
		if err != nil {
			return m.setError(err)
		}
		return m.setStatus("✓ Saved "+saved, "success")
	case actionLoadScript:
		if err := m.service.LoadScriptFile(t, path); err != nil {
			return m.setError(err)
		}
		m.refreshEditor(m.active)
		return m.setStatus("✓ Loaded "+path, "success")
	case actionSaveBundle:
		saved, err := m.service.SaveBundleFile(path)
		if err != nil {
			return m.setError(err)
		}
		return m.setStatus("✓ Saved "+saved, "success")
	case actionLoadBundle:
		if err := m.service.LoadBundleFile(path); err != nil {
			return m.setError(err)
		}
		m.refreshAllEditors()
		return m.setStatus("✓ Loaded "+path, "success")
	}
	return nil
}

// View renders the current screen
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	switch m.viewMode {
	case ViewParameters:
		return CenterModal(StyleModal.Render(m.paramForm.View()), m.width, m.height)
	case ViewNewCommand:
		return CenterModal(StyleModal.Render(m.commandForm.View()), m.width, m.height)
	case ViewGenerate:
		content := m.promptForm.View()
		if m.awaiting(m.activeType()) {
			content += "\n\n" + StyleLoading.Render("Generating... (esc to cancel)")
		}
		return CenterModal(StyleModal.Render(content), m.width, m.height)
	case ViewFiles:
		return CenterModal(StyleModal.Render(m.selectForm.View()), m.width, m.height)
	case ViewPath:
		return CenterModal(StyleModal.Render(m.pathForm.View()), m.width, m.height)
	case ViewPreview, ViewDiff, ViewHelp:
		return CenterModal(StyleModal.Render(m.viewport.View()+"\n\n"+
			StyleFormHelp.Render("↑/↓ scroll • esc close")), m.width, m.height)
	}
	return m.renderMainView()
}

func (m Model) renderMainView() string {
	header := CreateMainHeader("PowerShell Forge") +
		StyleTextMuted.Render("AI suggestions "+onOff(m.service.AIEnabled()))
	if hint := clipboardHint(); hint != "" {
		header += StyleTextDim.Render(" • " + hint)
	}

	labels := make([]string, len(models.ScriptTypes))
	pending := make([]bool, len(models.ScriptTypes))
	for i, t := range models.ScriptTypes {
		labels[i] = fmt.Sprintf("%d %s", i+1, t.Label())
		pending[i] = m.service.AIPending(t)
	}
	tabs := CreateTabs(labels, m.active, pending)

	catalogStyle, editorStyle := StylePane, StylePaneFocused
	if m.focus == focusCatalog {
		catalogStyle, editorStyle = StylePaneFocused, StylePane
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		catalogStyle.Render(m.catalogList.View()),
		editorStyle.Render(m.editors[m.active].View()),
	)

	status := ""
	if m.statusMsg != "" {
		status = CreateStatus(m.statusMsg, m.statusType)
	}

	var essential []string
	if m.focus == focusCatalog {
		essential = []string{"enter insert", "/ filter", "n new command", "tab editor", "q quit"}
	} else {
		essential = []string{"ctrl+e parameters", "ctrl+g generate", "ctrl+s suggest", "tab catalog"}
	}
	additional := []string{
		"shift+tab next script • ctrl+o save/load • ctrl+y copy • ctrl+r preview",
		"ctrl+x toggle AI • esc cancel AI request • ctrl+c quit",
	}
	helpText := CreateContextualHelp(essential, additional, m.focus == focusEditor, m.width)

	return AddMainPadding(strings.Join([]string{header, tabs, body, status, helpText}, "\n"))
}

// renderDiff colors the line diff of an applied AI result
func renderDiff(res ai.Result) string {
	var b strings.Builder
	b.WriteString(StyleFormLabel.Render(fmt.Sprintf("%s: %s script (%s)",
		operationLabel(res.Operation), res.ScriptType, res.Diff)) + "\n\n")
	if !res.Diff.Changed() {
		b.WriteString(StyleTextMuted.Render("No changes") + "\n")
		return b.String()
	}
	for _, line := range res.Diff.Lines {
		switch line.Type {
		case diff.LineAdded:
			b.WriteString(StyleDiffAdded.Render("+ "+line.Text) + "\n")
		case diff.LineRemoved:
			b.WriteString(StyleDiffRemoved.Render("- "+line.Text) + "\n")
		default:
			b.WriteString(StyleTextDim.Render("  "+line.Text) + "\n")
		}
	}
	return b.String()
}

func operationLabel(op string) string {
	if op == ai.OpSuggest {
		return "Suggestion"
	}
	return "Generation"
}

func onOff(enabled bool) string {
	if enabled {
		return "on"
	}
	return "off"
}

// clipboardHint is shown when copying is not possible in this session
func clipboardHint() string {
	if clipboard.IsClipboardAvailable() {
		return ""
	}
	return "clipboard unavailable"
}
