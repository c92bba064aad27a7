package models

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// CommandParameter is a named parameter slot of a catalog command
type CommandParameter struct {
	Name string `yaml:"name" json:"name"`
}

// CommandTemplate represents a catalog entry: a named command with an ordered
// set of parameter names
type CommandTemplate struct {
	ID         string             `yaml:"id" json:"id"`
	Name       string             `yaml:"name" json:"name"`
	Parameters []CommandParameter `yaml:"parameters,omitempty" json:"parameters"`
	Summary    string             `yaml:"description,omitempty" json:"description,omitempty"`
	Category   string             `yaml:"category,omitempty" json:"category,omitempty"`
}

// ParameterNames returns the declared parameter names in order
func (t CommandTemplate) ParameterNames() []string {
	names := make([]string, len(t.Parameters))
	for i, p := range t.Parameters {
		names[i] = p.Name
	}
	return names
}

// HasParameter reports whether name is a declared parameter (case-sensitive)
func (t CommandTemplate) HasParameter(name string) bool {
	for _, p := range t.Parameters {
		if p.Name == name {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no slices with t
func (t CommandTemplate) Clone() CommandTemplate {
	c := t
	if t.Parameters != nil {
		c.Parameters = append([]CommandParameter(nil), t.Parameters...)
	}
	return c
}

// Implement list.Item interface for bubbles list component

// FilterValue returns the value used for filtering in lists
func (t CommandTemplate) FilterValue() string {
	return cleanString(t.Name + " " + t.Category)
}

// Title satisfies the list.Item interface
func (t CommandTemplate) Title() string {
	if t.Name != "" {
		return cleanString(t.Name)
	}
	return cleanString(t.ID)
}

// Description satisfies the list.Item interface
func (t CommandTemplate) Description() string {
	var parts []string

	if t.Category != "" {
		parts = append(parts, "["+cleanString(t.Category)+"]")
	}

	if t.Summary != "" {
		parts = append(parts, truncate(cleanString(t.Summary), 60))
	}

	if len(t.Parameters) > 0 {
		parts = append(parts, "-"+strings.Join(t.ParameterNames(), " -"))
	}

	result := strings.Join(parts, " • ")

	// Leave space for list indicator and margins
	return truncate(result, 100)
}

// truncate shortens s to at most width cells, ending it with an ellipsis
func truncate(s string, width int) string {
	if ansi.StringWidth(s) <= width {
		return s
	}
	return ansi.Truncate(s, width, "...")
}

// cleanString removes characters that break single-line rendering
func cleanString(s string) string {
	if s == "" {
		return ""
	}

	var b strings.Builder
	for _, r := range s {
		if r == '\n' || r == '\r' || r == '\t' {
			b.WriteRune(' ')
		} else if r >= 32 && r != 127 {
			b.WriteRune(r)
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}
