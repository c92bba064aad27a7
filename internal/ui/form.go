package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/catalog"
	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/script"
)

// ParameterForm edits the parameter values of one script line. Every
// keystroke is applied to the editor session so Preview stays current; the
// buffer only changes when the caller commits the session.
type ParameterForm struct {
	session   *script.EditorSession
	names     []string
	inputs    []textinput.Model
	focused   int
	submitted bool
	canceled  bool
}

// NewParameterForm creates a form with one input per declared parameter,
// prefilled with the values currently bound on the line
func NewParameterForm(session *script.EditorSession) *ParameterForm {
	names := session.Template().ParameterNames()
	inputs := make([]textinput.Model, len(names))
	for i, name := range names {
		inputs[i] = textinput.New()
		inputs[i].Prompt = ""
		inputs[i].Placeholder = script.Placeholder
		inputs[i].CharLimit = 512
		inputs[i].Width = 50
		if v := session.Value(name); v != script.Placeholder {
			inputs[i].SetValue(v)
		}
	}
	if len(inputs) > 0 {
		inputs[0].Focus()
	}
	return &ParameterForm{session: session, names: names, inputs: inputs}
}

// Update handles form updates
func (f *ParameterForm) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch keyMsg.String() {
	case "tab", "down":
		f.move(1)
		return nil
	case "shift+tab", "up":
		f.move(-1)
		return nil
	case "ctrl+s", "enter":
		f.submitted = true
		return nil
	case "esc":
		f.canceled = true
		return nil
	}

	if len(f.inputs) == 0 {
		return nil
	}
	var cmd tea.Cmd
	f.inputs[f.focused], cmd = f.inputs[f.focused].Update(msg)
	f.session.Set(f.names[f.focused], f.inputs[f.focused].Value())
	return cmd
}

func (f *ParameterForm) move(delta int) {
	if len(f.inputs) == 0 {
		return
	}
	f.inputs[f.focused].Blur()
	f.focused = (f.focused + delta + len(f.inputs)) % len(f.inputs)
	f.inputs[f.focused].Focus()
}

// View renders the form with a live preview of the line
func (f *ParameterForm) View() string {
	var b strings.Builder
	b.WriteString(StyleFormLabel.Render("Edit parameters: "+f.session.Template().Name) + "\n\n")
	if len(f.inputs) == 0 {
		b.WriteString(StyleTextMuted.Render("This command declares no parameters.") + "\n")
	}
	for i, name := range f.names {
		label := "-" + name
		if i == f.focused {
			label = StyleFocused.Render(label)
		} else {
			label = StyleUnselected.Render(label)
		}
		b.WriteString(label + "\n  " + f.inputs[i].View() + "\n")
	}
	b.WriteString("\n" + StyleTextMuted.Render("Preview") + "\n")
	b.WriteString(StyleCode.Render(f.session.Preview()) + "\n\n")
	b.WriteString(StyleFormHelp.Render("tab next • enter/ctrl+s apply • esc cancel"))
	return b.String()
}

// Session returns the editor session the form writes to
func (f *ParameterForm) Session() *script.EditorSession {
	return f.session
}

// IsSubmitted reports whether the user asked to apply the values
func (f *ParameterForm) IsSubmitted() bool {
	return f.submitted
}

// IsCanceled reports whether the user dismissed the form
func (f *ParameterForm) IsCanceled() bool {
	return f.canceled
}

// CommandForm collects a custom catalog command
type CommandForm struct {
	inputs    []textinput.Model
	focused   int
	submitted bool
	canceled  bool
}

// Form field indices
const (
	nameField = iota
	idField
	categoryField
	descriptionField
	parametersField
)

var commandFieldLabels = []string{"Name", "ID", "Category", "Description", "Parameters"}

// NewCommandForm creates an empty custom command form
func NewCommandForm() *CommandForm {
	inputs := make([]textinput.Model, len(commandFieldLabels))
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].Prompt = ""
		inputs[i].Width = 50
	}
	inputs[nameField].Placeholder = "Invoke-Setup"
	inputs[nameField].CharLimit = 100
	inputs[idField].Placeholder = "generated when empty"
	inputs[idField].CharLimit = 64
	inputs[categoryField].Placeholder = "Custom"
	inputs[categoryField].CharLimit = 50
	inputs[descriptionField].Placeholder = "What the command does"
	inputs[descriptionField].CharLimit = 255
	inputs[parametersField].Placeholder = "Path, Silent, LogFile"
	inputs[parametersField].CharLimit = 300
	inputs[nameField].Focus()
	return &CommandForm{inputs: inputs}
}

// Update handles form updates
func (f *CommandForm) Update(msg tea.Msg) tea.Cmd {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "tab", "down":
			f.move(1)
			return nil
		case "shift+tab", "up":
			f.move(-1)
			return nil
		case "ctrl+s":
			f.submitted = true
			return nil
		case "enter":
			if f.focused == len(f.inputs)-1 {
				f.submitted = true
			} else {
				f.move(1)
			}
			return nil
		case "esc":
			f.canceled = true
			return nil
		}
	}
	var cmd tea.Cmd
	f.inputs[f.focused], cmd = f.inputs[f.focused].Update(msg)
	return cmd
}

func (f *CommandForm) move(delta int) {
	f.inputs[f.focused].Blur()
	f.focused = (f.focused + delta + len(f.inputs)) % len(f.inputs)
	f.inputs[f.focused].Focus()
}

// View renders the form
func (f *CommandForm) View() string {
	var b strings.Builder
	b.WriteString(StyleFormLabel.Render("New custom command") + "\n\n")
	for i, label := range commandFieldLabels {
		if i == f.focused {
			label = StyleFocused.Render(label)
		} else {
			label = StyleUnselected.Render(label)
		}
		b.WriteString(label + "\n  " + f.inputs[i].View() + "\n")
	}
	b.WriteString("\n" + StyleFormHelp.Render("tab next • ctrl+s save • esc cancel"))
	return b.String()
}

// ToRequest converts the form values into a builder request
func (f *CommandForm) ToRequest() catalog.CustomCommandRequest {
	return catalog.CustomCommandRequest{
		ID:          strings.TrimSpace(f.inputs[idField].Value()),
		Name:        strings.TrimSpace(f.inputs[nameField].Value()),
		Category:    strings.TrimSpace(f.inputs[categoryField].Value()),
		Description: strings.TrimSpace(f.inputs[descriptionField].Value()),
		Parameters:  catalog.ParseParameterList(f.inputs[parametersField].Value()),
	}
}

// IsSubmitted reports whether the form was submitted
func (f *CommandForm) IsSubmitted() bool {
	return f.submitted
}

// IsCanceled reports whether the user dismissed the form
func (f *CommandForm) IsCanceled() bool {
	return f.canceled
}

// Resubmit clears the submitted flag so a rejected request can be corrected
func (f *CommandForm) Resubmit() {
	f.submitted = false
}

// PromptForm collects a free-text description for script generation
type PromptForm struct {
	title     string
	textarea  textarea.Model
	submitted bool
	canceled  bool
}

// NewPromptForm creates a description form headed by title
func NewPromptForm(title string) *PromptForm {
	ta := textarea.New()
	ta.Placeholder = "Describe what the script should do..."
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.SetWidth(70)
	ta.SetHeight(6)
	ta.Focus()
	return &PromptForm{title: title, textarea: ta}
}

// Update handles form updates
func (f *PromptForm) Update(msg tea.Msg) tea.Cmd {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "ctrl+s":
			f.submitted = true
			return nil
		case "esc":
			f.canceled = true
			return nil
		}
	}
	var cmd tea.Cmd
	f.textarea, cmd = f.textarea.Update(msg)
	return cmd
}

// View renders the form
func (f *PromptForm) View() string {
	return StyleFormLabel.Render(f.title) + "\n\n" +
		f.textarea.View() + "\n\n" +
		StyleFormHelp.Render("ctrl+s generate • esc cancel")
}

// Value returns the entered description
func (f *PromptForm) Value() string {
	return strings.TrimSpace(f.textarea.Value())
}

// IsSubmitted reports whether the form was submitted
func (f *PromptForm) IsSubmitted() bool {
	return f.submitted
}

// IsCanceled reports whether the user dismissed the form
func (f *PromptForm) IsCanceled() bool {
	return f.canceled
}

// PathForm asks for a file or directory path
type PathForm struct {
	title     string
	input     textinput.Model
	submitted bool
	canceled  bool
}

// NewPathForm creates a path form prefilled with initial
func NewPathForm(title, initial string) *PathForm {
	input := textinput.New()
	input.Prompt = "> "
	input.CharLimit = 1024
	input.Width = 60
	input.SetValue(initial)
	input.CursorEnd()
	input.Focus()
	return &PathForm{title: title, input: input}
}

// Update handles form updates
func (f *PathForm) Update(msg tea.Msg) tea.Cmd {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter", "ctrl+s":
			f.submitted = true
			return nil
		case "esc":
			f.canceled = true
			return nil
		}
	}
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	return cmd
}

// View renders the form
func (f *PathForm) View() string {
	return StyleFormLabel.Render(f.title) + "\n\n" +
		f.input.View() + "\n\n" +
		StyleFormHelp.Render("enter confirm • esc cancel")
}

// Value returns the entered path
func (f *PathForm) Value() string {
	return strings.TrimSpace(f.input.Value())
}

// IsSubmitted reports whether the form was submitted
func (f *PathForm) IsSubmitted() bool {
	return f.submitted
}

// IsCanceled reports whether the user dismissed the form
func (f *PathForm) IsCanceled() bool {
	return f.canceled
}

// SelectForm handles selection from a list of options
type SelectForm struct {
	title     string
	options   []SelectOption
	selected  int
	submitted bool
	canceled  bool
}

// SelectOption represents an option in the select form
type SelectOption struct {
	Label       string
	Description string
	Value       interface{}
}

// NewSelectForm creates a new select form
func NewSelectForm(title string, options []SelectOption) *SelectForm {
	return &SelectForm{title: title, options: options}
}

// Update handles select form updates
func (f *SelectForm) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if f.selected > 0 {
				f.selected--
			} else {
				// Wrap to bottom
				f.selected = len(f.options) - 1
			}
		case "down", "j":
			if f.selected < len(f.options)-1 {
				f.selected++
			} else {
				// Wrap to top
				f.selected = 0
			}
		case "enter":
			f.submitted = true
		case "esc", "q":
			f.canceled = true
		}
	}
	return nil
}

// View renders the options
func (f *SelectForm) View() string {
	lines := []string{StyleFormLabel.Render(f.title), ""}
	for i, opt := range f.options {
		lines = append(lines, CreateOption(opt.Label, opt.Description, i == f.selected)...)
	}
	lines = append(lines, "", StyleFormHelp.Render("↑/↓ select • enter choose • esc cancel"))
	return strings.Join(lines, "\n")
}

// GetSelected returns the selected option
func (f *SelectForm) GetSelected() *SelectOption {
	if f.selected >= 0 && f.selected < len(f.options) {
		return &f.options[f.selected]
	}
	return nil
}

// IsSubmitted returns whether an option has been selected
func (f *SelectForm) IsSubmitted() bool {
	return f.submitted
}

// IsCanceled reports whether the user dismissed the menu
func (f *SelectForm) IsCanceled() bool {
	return f.canceled
}

// Reset resets the select form
func (f *SelectForm) Reset() {
	f.selected = 0
	f.submitted = false
	f.canceled = false
}
