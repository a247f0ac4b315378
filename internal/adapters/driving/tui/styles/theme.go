// Package styles holds the colour palette and lipgloss styles shared by
// every view.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme is the colour palette. Roles, not widgets: views pick a Styles
// entry and the palette decides how it looks.
type Theme struct {
	// Accent marks titles and the selection cursor.
	Accent lipgloss.Color

	// AccentAlt marks secondary headers.
	AccentAlt lipgloss.Color

	// Text is the default foreground.
	Text lipgloss.Color

	// Dim is for annotations and help lines.
	Dim lipgloss.Color

	// Good, Warn and Bad colour outcome messages.
	Good lipgloss.Color
	Warn lipgloss.Color
	Bad  lipgloss.Color
}

// DefaultTheme returns the spindraft palette.
func DefaultTheme() *Theme {
	return &Theme{
		Accent:    lipgloss.Color("#2DD4BF"), // Teal
		AccentAlt: lipgloss.Color("#818CF8"), // Indigo
		Text:      lipgloss.Color("#CDD6F4"), // Light gray
		Dim:       lipgloss.Color("#6C7086"), // Medium gray
		Good:      lipgloss.Color("#A6E3A1"), // Green
		Warn:      lipgloss.Color("#F9E2AF"), // Yellow
		Bad:       lipgloss.Color("#F38BA8"), // Red
	}
}

// Styles contains the pre-configured lipgloss styles the views render
// with.
type Styles struct {
	theme *Theme

	// Title style for view headers.
	Title lipgloss.Style

	// Subtitle style for section headers inside a view.
	Subtitle lipgloss.Style

	// Normal style for table rows and regular text.
	Normal lipgloss.Style

	// Muted style for annotations.
	Muted lipgloss.Style

	// Selected style for the cursor row.
	Selected lipgloss.Style

	// Error, Success and Warning style outcome messages.
	Error   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style

	// Help style for the key hints at the bottom of a view.
	Help lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	return &Styles{
		theme: theme,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Accent),

		Subtitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.AccentAlt),

		Normal: lipgloss.NewStyle().
			Foreground(theme.Text),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Dim),

		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Accent),

		Error: lipgloss.NewStyle().
			Foreground(theme.Bad),

		Success: lipgloss.NewStyle().
			Foreground(theme.Good),

		Warning: lipgloss.NewStyle().
			Foreground(theme.Warn),

		Help: lipgloss.NewStyle().
			Foreground(theme.Dim),
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the theme used by these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}
