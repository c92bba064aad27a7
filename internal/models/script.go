package models

import (
	"fmt"
	"strings"
)

// ScriptType identifies one of the three script buffers
type ScriptType string

const (
	ScriptAdd    ScriptType = "add"
	ScriptLaunch ScriptType = "launch"
	ScriptRemove ScriptType = "remove"
)

// ScriptTypes lists every script type in display order
var ScriptTypes = []ScriptType{ScriptAdd, ScriptLaunch, ScriptRemove}

// ParseScriptType converts user input into a ScriptType
func ParseScriptType(s string) (ScriptType, error) {
	switch ScriptType(strings.ToLower(strings.TrimSpace(s))) {
	case ScriptAdd:
		return ScriptAdd, nil
	case ScriptLaunch:
		return ScriptLaunch, nil
	case ScriptRemove:
		return ScriptRemove, nil
	default:
		return "", fmt.Errorf("unknown script type %q (expected add, launch or remove)", s)
	}
}

// Valid reports whether t is one of the known script types
func (t ScriptType) Valid() bool {
	switch t {
	case ScriptAdd, ScriptLaunch, ScriptRemove:
		return true
	}
	return false
}

// Label returns the title shown for the script in user interfaces
func (t ScriptType) Label() string {
	switch t {
	case ScriptAdd:
		return "Add Script"
	case ScriptLaunch:
		return "Launch Script"
	case ScriptRemove:
		return "Remove Script"
	default:
		return string(t)
	}
}

// PlacedCommand is a catalog command as inserted into a script together with
// its bound parameter values. Values for names the template does not declare
// are kept but otherwise ignored.
type PlacedCommand struct {
	Command string            `json:"command"`
	Values  map[string]string `json:"parameterValues,omitempty"`
}

// NewPlacedCommand creates an instance of tmpl with no bound values
func NewPlacedCommand(tmpl CommandTemplate) *PlacedCommand {
	return &PlacedCommand{
		Command: tmpl.Name,
		Values:  make(map[string]string),
	}
}

// Value returns the bound value for name, or "" when unset
func (p *PlacedCommand) Value(name string) string {
	if p == nil || p.Values == nil {
		return ""
	}
	return p.Values[name]
}

// CloneValues returns a copy of the bound values
func (p *PlacedCommand) CloneValues() map[string]string {
	out := make(map[string]string)
	if p == nil {
		return out
	}
	for k, v := range p.Values {
		out[k] = v
	}
	return out
}
