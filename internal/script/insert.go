package script

import (
	"strings"

	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/models"
)

// Placeholder stands in for a parameter value that has not been bound yet
const Placeholder = "<value>"

// RenderInsertion renders tmpl as a single line with every declared
// parameter followed by Placeholder, e.g. "Stop-Process -Name <value>"
func RenderInsertion(tmpl models.CommandTemplate) string {
	var b strings.Builder
	b.WriteString(tmpl.Name)
	for _, p := range tmpl.Parameters {
		b.WriteString(" -")
		b.WriteString(p.Name)
		b.WriteString(" ")
		b.WriteString(Placeholder)
	}
	return b.String()
}

// AppendInsertion appends the rendered form of tmpl to text on its own line.
// Existing content is never modified.
func AppendInsertion(text string, tmpl models.CommandTemplate) string {
	line := RenderInsertion(tmpl)
	switch {
	case text == "":
		return line
	case strings.HasSuffix(text, "\n"):
		return text + line
	default:
		return text + "\n" + line
	}
}
