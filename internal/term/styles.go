package term

import "github.com/charmbracelet/lipgloss"

var (
	accent  = lipgloss.NewStyle().Foreground(lipgloss.Color("#A78BFA"))
	muted   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))
	bold    = lipgloss.NewStyle().Bold(true)
	success = lipgloss.NewStyle().Foreground(lipgloss.Color("#A6E3A1")).Bold(true)
	warning = lipgloss.NewStyle().Foreground(lipgloss.Color("#F9E2AF")).Bold(true)
	failure = lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8")).Bold(true)
	under   = lipgloss.NewStyle().Underline(true).Bold(true)
)

// Status symbols.
const (
	SymbolSuccess = "✓"
	SymbolError   = "✗"
	SymbolWarning = "⚠"
	SymbolInfo    = "ℹ"
	SymbolWork    = "…"
	SymbolItem    = "•"
)
