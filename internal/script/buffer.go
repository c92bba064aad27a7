// Package script implements the three script buffers and the rules that move
// text between catalog commands, placed command instances and free text.
//
// A buffer's flat text is the only authoritative representation. Placed
// command instances exist only while a parameter editor is open against one
// line, and are flattened back into that line on commit.
package script

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/errors"
	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/models"
)

// Source names what caused a buffer change
type Source string

const (
	SourceEdit       Source = "edit"
	SourceInsert     Source = "insert"
	SourceParameters Source = "parameters"
	SourceGenerate   Source = "generate"
	SourceSuggest    Source = "suggest"
	SourceImport     Source = "import"
	SourceRestore    Source = "restore"
)

// Change describes one applied buffer mutation
type Change struct {
	Type    models.ScriptType
	Text    string
	Version uint64
	Source  Source
}

// Listener is notified after a change has been applied
type Listener func(Change)

// Buffer holds the text of one script. Every mutation bumps the version so
// that late asynchronous results can detect they are stale.
type Buffer struct {
	mu      sync.RWMutex
	kind    models.ScriptType
	text    string
	version uint64
}

// Type returns the script type the buffer belongs to
func (b *Buffer) Type() models.ScriptType {
	return b.kind
}

// Text returns the current content
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.text
}

// Snapshot returns the content together with its version
func (b *Buffer) Snapshot() (string, uint64) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.text, b.version
}

// setLocked replaces the text; b.mu must be held for writing
func (b *Buffer) setLocked(text string) uint64 {
	b.text = text
	b.version++
	return b.version
}

// Workspace owns the add, launch and remove buffers. The buffers are
// independent; only ReplaceAll touches more than one of them.
type Workspace struct {
	buffers map[models.ScriptType]*Buffer

	lmu       sync.RWMutex
	listeners []Listener
}

// NewWorkspace creates three empty buffers
func NewWorkspace() *Workspace {
	w := &Workspace{buffers: make(map[models.ScriptType]*Buffer, len(models.ScriptTypes))}
	for _, t := range models.ScriptTypes {
		w.buffers[t] = &Buffer{kind: t}
	}
	return w
}

// OnChange registers l to be called after every applied change
func (w *Workspace) OnChange(l Listener) {
	w.lmu.Lock()
	defer w.lmu.Unlock()
	w.listeners = append(w.listeners, l)
}

func (w *Workspace) notify(changes ...Change) {
	w.lmu.RLock()
	listeners := append([]Listener(nil), w.listeners...)
	w.lmu.RUnlock()

	for _, c := range changes {
		for _, l := range listeners {
			l(c)
		}
	}
}

// Buffer returns the buffer for t
func (w *Workspace) Buffer(t models.ScriptType) (*Buffer, error) {
	b, ok := w.buffers[t]
	if !ok {
		return nil, errors.ValidationError(fmt.Sprintf("Unknown script type '%s'", t))
	}
	return b, nil
}

// Text returns the content of buffer t, or "" for an unknown type
func (w *Workspace) Text(t models.ScriptType) string {
	b, err := w.Buffer(t)
	if err != nil {
		return ""
	}
	return b.Text()
}

// Snapshot returns the content and version of buffer t
func (w *Workspace) Snapshot(t models.ScriptType) (string, uint64, error) {
	b, err := w.Buffer(t)
	if err != nil {
		return "", 0, err
	}
	text, version := b.Snapshot()
	return text, version, nil
}

// Texts returns the content of all three buffers
func (w *Workspace) Texts() map[models.ScriptType]string {
	out := make(map[models.ScriptType]string, len(w.buffers))
	for t, b := range w.buffers {
		out[t] = b.Text()
	}
	return out
}

// SetText replaces the content of buffer t unconditionally
func (w *Workspace) SetText(t models.ScriptType, text string, source Source) (uint64, error) {
	b, err := w.Buffer(t)
	if err != nil {
		return 0, err
	}

	b.mu.Lock()
	version := b.setLocked(text)
	b.mu.Unlock()

	w.notify(Change{Type: t, Text: text, Version: version, Source: source})
	return version, nil
}

// ReplaceIfVersion replaces the content of buffer t only if the buffer is
// still at version and ctx has not been canceled. It reports whether the
// replacement was applied.
func (w *Workspace) ReplaceIfVersion(ctx context.Context, t models.ScriptType, version uint64, text string, source Source) (bool, error) {
	b, err := w.Buffer(t)
	if err != nil {
		return false, err
	}

	b.mu.Lock()
	if err := ctx.Err(); err != nil {
		b.mu.Unlock()
		return false, err
	}
	if b.version != version {
		b.mu.Unlock()
		return false, nil
	}
	newVersion := b.setLocked(text)
	b.mu.Unlock()

	w.notify(Change{Type: t, Text: text, Version: newVersion, Source: source})
	return true, nil
}

// Insert appends tmpl to buffer t using the insertion rules and returns the
// zero-based line index of the inserted command
func (w *Workspace) Insert(t models.ScriptType, tmpl models.CommandTemplate) (int, error) {
	b, err := w.Buffer(t)
	if err != nil {
		return 0, err
	}

	b.mu.Lock()
	text := AppendInsertion(b.text, tmpl)
	version := b.setLocked(text)
	b.mu.Unlock()

	w.notify(Change{Type: t, Text: text, Version: version, Source: SourceInsert})
	return strings.Count(text, "\n"), nil
}

// ReplaceLine swaps line index of buffer t for replacement, provided the line
// still reads expected. A mismatch means the buffer was edited underneath
// the caller and yields a STALE_EDIT error.
func (w *Workspace) ReplaceLine(t models.ScriptType, index int, expected, replacement string, source Source) error {
	b, err := w.Buffer(t)
	if err != nil {
		return err
	}

	b.mu.Lock()
	lines := strings.Split(b.text, "\n")
	if index < 0 || index >= len(lines) || strings.TrimSuffix(lines[index], "\r") != expected {
		b.mu.Unlock()
		return errors.NewAppError(errors.ErrCodeStaleEdit, "The script changed while the parameter editor was open").
			WithContext("line", index+1)
	}
	if strings.HasSuffix(lines[index], "\r") {
		replacement += "\r"
	}
	lines[index] = replacement
	text := strings.Join(lines, "\n")
	version := b.setLocked(text)
	b.mu.Unlock()

	w.notify(Change{Type: t, Text: text, Version: version, Source: source})
	return nil
}

// ReplaceAll replaces all three buffers at once. texts must hold exactly the
// three script types; otherwise nothing changes.
func (w *Workspace) ReplaceAll(texts map[models.ScriptType]string, source Source) error {
	if len(texts) != len(models.ScriptTypes) {
		return errors.ValidationError("A full replacement needs add, launch and remove")
	}
	for _, t := range models.ScriptTypes {
		if _, ok := texts[t]; !ok {
			return errors.ValidationError(fmt.Sprintf("Missing script '%s'", t))
		}
	}

	// Lock in a fixed order so concurrent ReplaceAll calls cannot deadlock.
	for _, t := range models.ScriptTypes {
		w.buffers[t].mu.Lock()
	}
	changes := make([]Change, 0, len(models.ScriptTypes))
	for _, t := range models.ScriptTypes {
		b := w.buffers[t]
		version := b.setLocked(texts[t])
		changes = append(changes, Change{Type: t, Text: texts[t], Version: version, Source: source})
	}
	for i := len(models.ScriptTypes) - 1; i >= 0; i-- {
		w.buffers[models.ScriptTypes[i]].mu.Unlock()
	}

	w.notify(changes...)
	return nil
}
