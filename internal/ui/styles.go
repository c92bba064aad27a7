package ui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Design System Colors - Adaptive based on terminal background
var (
	ColorPrimary   lipgloss.Color
	ColorSecondary lipgloss.Color
	ColorAccent    lipgloss.Color

	ColorSuccess lipgloss.Color
	ColorWarning lipgloss.Color
	ColorError   lipgloss.Color
	ColorInfo    lipgloss.Color

	ColorText       lipgloss.Color
	ColorTextMuted  lipgloss.Color
	ColorTextDim    lipgloss.Color
	ColorBorder     lipgloss.Color
	ColorBackground lipgloss.Color
	ColorSurface    lipgloss.Color
)

// initializeColors sets up adaptive colors based on terminal background and
// rebuilds the component styles from them
func initializeColors() {
	switch os.Getenv("GLAMOUR_STYLE") {
	case "light":
		setLightThemeColors()
	case "dark":
		setDarkThemeColors()
	default:
		if lipgloss.HasDarkBackground() {
			setDarkThemeColors()
		} else {
			setLightThemeColors()
		}
	}
	buildStyles()
}

func setDarkThemeColors() {
	ColorPrimary = lipgloss.Color("39")   // Bright blue
	ColorSecondary = lipgloss.Color("33") // Cyan/blue
	ColorAccent = lipgloss.Color("214")   // Orange

	ColorSuccess = lipgloss.Color("10")
	ColorWarning = lipgloss.Color("11")
	ColorError = lipgloss.Color("9")
	ColorInfo = lipgloss.Color("12")

	ColorText = lipgloss.Color("252")
	ColorTextMuted = lipgloss.Color("244")
	ColorTextDim = lipgloss.Color("240")
	ColorBorder = lipgloss.Color("238")
	ColorBackground = lipgloss.Color("235")
	ColorSurface = lipgloss.Color("236")
}

func setLightThemeColors() {
	ColorPrimary = lipgloss.Color("25")
	ColorSecondary = lipgloss.Color("24")
	ColorAccent = lipgloss.Color("130")

	ColorSuccess = lipgloss.Color("22")
	ColorWarning = lipgloss.Color("136")
	ColorError = lipgloss.Color("160")
	ColorInfo = lipgloss.Color("24")

	ColorText = lipgloss.Color("232")
	ColorTextMuted = lipgloss.Color("240")
	ColorTextDim = lipgloss.Color("244")
	ColorBorder = lipgloss.Color("248")
	ColorBackground = lipgloss.Color("255")
	ColorSurface = lipgloss.Color("254")
}

// Component Styles
var (
	StyleTitle     lipgloss.Style
	StyleText      lipgloss.Style
	StyleTextMuted lipgloss.Style
	StyleTextDim   lipgloss.Style

	StyleTabActive   lipgloss.Style
	StyleTabInactive lipgloss.Style
	StyleTabPending  lipgloss.Style

	StyleFocused    lipgloss.Style
	StyleUnselected lipgloss.Style

	StyleSuccess lipgloss.Style
	StyleWarning lipgloss.Style
	StyleError   lipgloss.Style
	StyleInfo    lipgloss.Style

	StylePane        lipgloss.Style
	StylePaneFocused lipgloss.Style
	StyleModal       lipgloss.Style

	StyleFormLabel lipgloss.Style
	StyleFormHelp  lipgloss.Style
	StyleLoading   lipgloss.Style
	StyleCode      lipgloss.Style

	StyleDiffAdded   lipgloss.Style
	StyleDiffRemoved lipgloss.Style
)

func buildStyles() {
	StyleTitle = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true).Padding(0, 1)
	StyleText = lipgloss.NewStyle().Foreground(ColorText)
	StyleTextMuted = lipgloss.NewStyle().Foreground(ColorTextMuted)
	StyleTextDim = lipgloss.NewStyle().Foreground(ColorTextDim)

	StyleTabActive = lipgloss.NewStyle().
		Foreground(lipgloss.Color("15")).
		Background(ColorPrimary).
		Bold(true).
		Padding(0, 2)
	StyleTabInactive = lipgloss.NewStyle().
		Foreground(ColorTextMuted).
		Background(ColorSurface).
		Padding(0, 2)
	StyleTabPending = StyleTabInactive.Foreground(ColorAccent)

	StyleFocused = lipgloss.NewStyle().
		Foreground(lipgloss.Color("15")).
		Background(ColorSecondary).
		Bold(true).
		Padding(0, 1)
	StyleUnselected = lipgloss.NewStyle().Foreground(ColorTextMuted).Padding(0, 1)

	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true).Padding(0, 1)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning).Bold(true).Padding(0, 1)
	StyleError = lipgloss.NewStyle().Foreground(ColorError).Bold(true).Padding(0, 1)
	StyleInfo = lipgloss.NewStyle().Foreground(ColorInfo).Bold(true).Padding(0, 1)

	StylePane = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder)
	StylePaneFocused = StylePane.BorderForeground(ColorPrimary)
	StyleModal = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(1, 2)

	StyleFormLabel = lipgloss.NewStyle().Foreground(ColorText).Bold(true)
	StyleFormHelp = lipgloss.NewStyle().Foreground(ColorTextDim).Italic(true)
	StyleLoading = lipgloss.NewStyle().Foreground(ColorInfo).Italic(true).Padding(0, 1)
	StyleCode = lipgloss.NewStyle().Foreground(ColorAccent)

	StyleDiffAdded = lipgloss.NewStyle().Foreground(ColorSuccess)
	StyleDiffRemoved = lipgloss.NewStyle().Foreground(ColorError)
}

func init() {
	setDarkThemeColors()
	buildStyles()
}

// CreateMainHeader renders the application title
func CreateMainHeader(titleText string) string {
	return StyleTitle.Render(titleText)
}

// CreateTabs renders the script tabs; pending marks tabs with an AI call in
// flight
func CreateTabs(labels []string, active int, pending []bool) string {
	tabs := make([]string, len(labels))
	for i, label := range labels {
		switch {
		case i == active:
			tabs[i] = StyleTabActive.Render(label)
		case i < len(pending) && pending[i]:
			tabs[i] = StyleTabPending.Render(label + " …")
		default:
			tabs[i] = StyleTabInactive.Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// CreateContextualHelp renders essential keybinds on one row and, when
// expanded, each additional row below
func CreateContextualHelp(essential []string, additional []string, showExpanded bool, width int) string {
	var lines []string

	firstRowParts := essential
	if len(additional) > 0 && !showExpanded {
		firstRowParts = append(append([]string{}, essential...), "? for more")
	}
	lines = append(lines, truncate(strings.Join(firstRowParts, " • "), width-4))

	if showExpanded {
		for _, row := range additional {
			lines = append(lines, truncate(row, width-4))
		}
	}
	return StyleTextDim.Render(strings.Join(lines, "\n"))
}

func truncate(s string, width int) string {
	if width <= 3 || ansi.StringWidth(s) <= width {
		return s
	}
	return ansi.Truncate(s, width, "...")
}

// CreateStatus renders a status line in the style for statusType
func CreateStatus(text string, statusType string) string {
	switch statusType {
	case "success":
		return StyleSuccess.Render(text)
	case "warning":
		return StyleWarning.Render(text)
	case "error":
		return StyleError.Render(text)
	case "info":
		return StyleInfo.Render(text)
	default:
		return StyleText.Render(text)
	}
}

// CreateOption renders a selectable menu entry
func CreateOption(label, description string, isSelected bool) []string {
	var style lipgloss.Style
	var prefix string

	if isSelected {
		style = StyleFocused
		prefix = "▶ "
	} else {
		style = StyleUnselected
		prefix = "  "
	}

	lines := []string{style.Render(prefix + label)}
	if description != "" {
		lines = append(lines, StyleFormHelp.Padding(0, 3).Render(description))
	}
	return lines
}

// CenterModal places content in the middle of the screen
func CenterModal(content string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

// AddMainPadding adds the left margin used by the main views
func AddMainPadding(content string) string {
	return lipgloss.NewStyle().PaddingLeft(1).Render(content)
}
