package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nvidal/jobtrack/internal/model"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue   = lipgloss.AdaptiveColor{Dark: "#60A5FA", Light: "#2B6CB0"}
	ColorGreen  = lipgloss.AdaptiveColor{Dark: "#34D399", Light: "#2F855A"}
	ColorYellow = lipgloss.AdaptiveColor{Dark: "#FBBF24", Light: "#B7791F"}
	ColorRed    = lipgloss.AdaptiveColor{Dark: "#F87171", Light: "#C53030"}
	ColorGray   = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite  = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
	ColorAccent = lipgloss.AdaptiveColor{Dark: "#818CF8", Light: "#4C51BF"}
)

// HeaderStyle is used for the top application bar.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorAccent).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// CardStyle wraps dashboard stat cards and form panels.
var CardStyle = lipgloss.NewStyle().
	Padding(0, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// ModalStyle wraps the delete confirmation dialog.
var ModalStyle = lipgloss.NewStyle().
	Padding(1, 3).
	Border(lipgloss.DoubleBorder()).
	BorderForeground(ColorRed)

// ListItemStyle is the base style for table rows.
var ListItemStyle = lipgloss.NewStyle().
	PaddingLeft(2)

// SelectedItemStyle highlights the currently focused table row.
var SelectedItemStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	Bold(true).
	Foreground(ColorAccent).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorAccent)

// HelpStyle is used for keyboard shortcut hints and muted text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// ErrorStyle renders inline form errors.
var ErrorStyle = lipgloss.NewStyle().
	Foreground(ColorRed).
	Bold(true)

// TitleStyle renders panel titles.
var TitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	MarginBottom(1)

// StatusColor returns the accent color for a pipeline stage.
func StatusColor(s model.Status) lipgloss.AdaptiveColor {
	switch s {
	case model.StatusApplied:
		return ColorBlue
	case model.StatusInterview:
		return ColorYellow
	case model.StatusOffer:
		return ColorGreen
	case model.StatusRejected:
		return ColorRed
	default:
		return ColorGray
	}
}

// StatusBadge renders a color-coded badge for the given pipeline stage.
func StatusBadge(s model.Status) string {
	return lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1).
		Foreground(StatusColor(s)).
		Render(string(s))
}
