package models

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestCommandTemplateDescription(t *testing.T) {
	tmpl := CommandTemplate{
		ID:         "stop-process",
		Name:       "Stop-Process",
		Summary:    "Stops a\nrunning process",
		Category:   "Processes",
		Parameters: []CommandParameter{{Name: "Name"}, {Name: "Id"}},
	}
	assert.Equal(t, "[Processes] • Stops a running process • -Name -Id", tmpl.Description())
	assert.Equal(t, "Stop-Process", tmpl.Title())
}

func TestCommandTemplateDescriptionKeepsRunesWhole(t *testing.T) {
	tmpl := CommandTemplate{ID: "x", Name: "Write-Host", Summary: strings.Repeat("é", 80)}

	got := tmpl.Description()
	assert.True(t, utf8.ValidString(got), "description split a multi-byte character: %q", got)
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.LessOrEqual(t, utf8.RuneCountInString(got), 60)
}

func TestHasParameterIsCaseSensitive(t *testing.T) {
	tmpl := CommandTemplate{Name: "Stop-Process", Parameters: []CommandParameter{{Name: "Name"}}}
	assert.True(t, tmpl.HasParameter("Name"))
	assert.False(t, tmpl.HasParameter("name"))
}
