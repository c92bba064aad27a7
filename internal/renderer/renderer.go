package renderer

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/models"
)

// Output formats understood by Render
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
	FormatPreview  = "preview"
)

// Renderer handles script rendering
type Renderer struct {
	scriptType models.ScriptType
	text       string
}

// NewRenderer creates a new renderer instance
func NewRenderer(t models.ScriptType, text string) *Renderer {
	return &Renderer{scriptType: t, text: text}
}

// Render renders the script in the named format
func (r *Renderer) Render(format string, wordWrap int) (string, error) {
	switch format {
	case "", FormatText:
		return r.RenderText(), nil
	case FormatMarkdown:
		return r.RenderMarkdown(), nil
	case FormatPreview:
		return r.RenderTerminal(wordWrap)
	default:
		return "", fmt.Errorf("unknown format %q (expected text, markdown or preview)", format)
	}
}

// RenderText returns the script exactly as stored
func (r *Renderer) RenderText() string {
	return r.text
}

// RenderMarkdown wraps the script in a titled powershell code block
func (r *Renderer) RenderMarkdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", r.scriptType.Label())
	if strings.TrimSpace(r.text) == "" {
		b.WriteString("_empty_\n")
		return b.String()
	}
	b.WriteString("```powershell\n")
	b.WriteString(strings.TrimRight(r.text, "\n"))
	b.WriteString("\n```\n")
	return b.String()
}

// RenderTerminal renders the Markdown form with syntax highlighting for
// display in a terminal
func (r *Renderer) RenderTerminal(wordWrap int) (string, error) {
	tr, err := NewTermRenderer(wordWrap)
	if err != nil {
		return "", fmt.Errorf("failed to create renderer: %w", err)
	}
	out, err := tr.Render(r.RenderMarkdown())
	if err != nil {
		return "", fmt.Errorf("failed to render script: %w", err)
	}
	return out, nil
}

// NewTermRenderer creates a glamour renderer with improved contrast handling
func NewTermRenderer(wordWrap int) (*glamour.TermRenderer, error) {
	// Check for environment variable override first
	if style := os.Getenv("GLAMOUR_STYLE"); style != "" {
		return glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(wordWrap),
		)
	}

	profile := termenv.ColorProfile()

	var styleOption glamour.TermRendererOption
	switch {
	case profile != termenv.TrueColor && profile != termenv.ANSI256:
		// Limited color terminals
		styleOption = glamour.WithAutoStyle()
	case lipgloss.HasDarkBackground():
		styleOption = glamour.WithStandardStyle("dark")
	default:
		styleOption = glamour.WithStandardStyle("light")
	}

	return glamour.NewTermRenderer(
		styleOption,
		glamour.WithColorProfile(profile),
		glamour.WithWordWrap(wordWrap),
	)
}
