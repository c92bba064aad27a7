package script

import (
	"fmt"
	"strings"

	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/errors"
	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/models"
)

// EditorSession is a parameter editor opened against one line of a buffer.
// Values are edited on a copy; the buffer only changes on Commit, and only
// if the line still reads as it did when the editor was opened.
type EditorSession struct {
	workspace  *Workspace
	scriptType models.ScriptType
	line       int
	original   string
	parsed     *ParsedLine
	closed     bool
}

// OpenEditor parses line index of buffer t and opens an editor for it
func OpenEditor(w *Workspace, t models.ScriptType, index int, r Resolver) (*EditorSession, error) {
	b, err := w.Buffer(t)
	if err != nil {
		return nil, err
	}

	lines := strings.Split(b.Text(), "\n")
	if index < 0 || index >= len(lines) {
		return nil, errors.NewAppError(errors.ErrCodeInvalidInput,
			fmt.Sprintf("Line %d does not exist in the %s script", index+1, t))
	}

	original := strings.TrimSuffix(lines[index], "\r")
	parsed, err := ParseLine(original, r)
	if err != nil {
		return nil, err
	}

	return &EditorSession{
		workspace:  w,
		scriptType: t,
		line:       index,
		original:   original,
		parsed:     parsed,
	}, nil
}

// ScriptType returns the buffer the editor is attached to
func (s *EditorSession) ScriptType() models.ScriptType {
	return s.scriptType
}

// Line returns the zero-based line index being edited
func (s *EditorSession) Line() int {
	return s.line
}

// Template returns the catalog command of the line
func (s *EditorSession) Template() models.CommandTemplate {
	return s.parsed.Template
}

// Values returns a copy of the current parameter values
func (s *EditorSession) Values() map[string]string {
	return s.parsed.Command.CloneValues()
}

// Value returns the current value for name
func (s *EditorSession) Value(name string) string {
	return s.parsed.Command.Value(name)
}

// Set binds value to name. It has no effect once the session is closed.
func (s *EditorSession) Set(name, value string) {
	if s.closed {
		return
	}
	Bind(s.parsed.Template, s.parsed.Command, name, value)
}

// Preview returns the line as it would read after Commit
func (s *EditorSession) Preview() string {
	return s.parsed.Render()
}

// HasUnsetParameters reports whether every declared parameter is still unset
func (s *EditorSession) HasUnsetParameters() bool {
	return HasUnsetParameters(s.parsed.Template, s.parsed.Command)
}

// Commit writes the flattened line back into the buffer and closes the
// session. It fails with STALE_EDIT when the line changed in the meantime.
func (s *EditorSession) Commit() (string, error) {
	if s.closed {
		return "", errors.NewAppError(errors.ErrCodeInvalidInput, "The parameter editor is already closed")
	}
	s.closed = true

	text := s.parsed.Render()
	if err := s.workspace.ReplaceLine(s.scriptType, s.line, s.original, text, SourceParameters); err != nil {
		return "", err
	}
	return text, nil
}

// Cancel discards the edited values
func (s *EditorSession) Cancel() {
	s.closed = true
}

// Closed reports whether Commit or Cancel has been called
func (s *EditorSession) Closed() bool {
	return s.closed
}
