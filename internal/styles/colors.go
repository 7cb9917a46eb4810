package styles

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Monokai Pro color palette
const (
	Background = "#2D2A2E"
	Foreground = "#FCFCFA"

	Red    = "#FF6188" // Errors
	Orange = "#FC9867" // Diagnostics
	Yellow = "#FFD866" // Highlights
	Green  = "#A9DC76" // Success
	Cyan   = "#78DCE8" // Paths
	Purple = "#AB9DF2" // Titles

	Comment = "#727072" // Dim text, help
	Border  = "#5B595C" // Borders, separators
)

// Common styles
var (
	SuccessStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(Green))
	ErrorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color(Red))
	WarningStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(Orange))
	DimStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color(Comment))
	PathStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color(Cyan))
	TitleStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(Purple))
	HighlightStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color(Yellow)).Bold(true)
	SpinnerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(Purple))
	HelpStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color(Comment))
	NormalTextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(Foreground))

	// Preview frame
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(Purple)).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color(Border))

	FooterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Comment)).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(lipgloss.Color(Border))
)

// Diagnostic formats one diagnostic line: kind, span and message
func Diagnostic(kind string, start, end int, message string) string {
	return WarningStyle.Render("warning") + " " +
		HighlightStyle.Render(kind) +
		DimStyle.Render(fmt.Sprintf(" (%d, %d) ", start, end)) +
		message
}
