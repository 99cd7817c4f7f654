package output

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles holds the lipgloss styles for text output
var Styles = struct {
	Header  lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Danger  lipgloss.Style
	Muted   lipgloss.Style
}{
	Header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).BorderForeground(lipgloss.Color("239")),
	Label:   lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
	Value:   lipgloss.NewStyle().Bold(true),
	Success: lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),  // Green
	Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true), // Orange
	Danger:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true), // Red
	Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("243")),
}

// StatusIcon returns the icon for a check status ("ok", "warning", "error").
// Icons are styled only when color is true.
func StatusIcon(status string, color bool) string {
	var icon string
	var style lipgloss.Style
	switch status {
	case "ok":
		icon, style = "✓", Styles.Success
	case "warning":
		icon, style = "⚠", Styles.Warning
	case "error":
		icon, style = "✗", Styles.Danger
	default:
		icon, style = "?", Styles.Muted
	}
	if !color {
		return icon
	}
	return style.Render(icon)
}
