// Package styles provides colour themes and styling for the TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/copilot-cli/internal/core/domain"
)

// Theme defines the colour palette for the TUI.
type Theme struct {
	// Primary is the main accent colour.
	Primary lipgloss.Color

	// Secondary is used for citations and links.
	Secondary lipgloss.Color

	// Foreground is the default text colour.
	Foreground lipgloss.Color

	// Muted is for less important text.
	Muted lipgloss.Color

	// Success marks processed documents and findings.
	Success lipgloss.Color

	// Warning marks processing documents and limitations.
	Warning lipgloss.Color

	// Error marks failures.
	Error lipgloss.Color

	// Info marks methods.
	Info lipgloss.Color

	// Border is the border colour.
	Border lipgloss.Color

	// Bar is the status bar background.
	Bar lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:    lipgloss.Color("#7C3AED"), // Purple
		Secondary:  lipgloss.Color("#06B6D4"), // Cyan
		Foreground: lipgloss.Color("#CDD6F4"),
		Muted:      lipgloss.Color("#6C7086"),
		Success:    lipgloss.Color("#A6E3A1"),
		Warning:    lipgloss.Color("#F9E2AF"),
		Error:      lipgloss.Color("#F38BA8"),
		Info:       lipgloss.Color("#89B4FA"),
		Border:     lipgloss.Color("#45475A"),
		Bar:        lipgloss.Color("#181825"),
	}
}

// Styles contains pre-configured lipgloss styles.
type Styles struct {
	theme *Theme

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Normal   lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Help     lipgloss.Style

	// Tab and ActiveTab render the workspace tab bar.
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style

	// Pane frames the sidebar and workspace; FocusedPane is the one taking keys.
	Pane        lipgloss.Style
	FocusedPane lipgloss.Style

	InputField lipgloss.Style
	StatusBar  lipgloss.Style

	UserLabel      lipgloss.Style
	AssistantLabel lipgloss.Style
	Citation       lipgloss.Style
	Quote          lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	pane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)

	return &Styles{
		theme: theme,

		Title:    lipgloss.NewStyle().Bold(true).Foreground(theme.Primary),
		Subtitle: lipgloss.NewStyle().Bold(true).Foreground(theme.Secondary),
		Normal:   lipgloss.NewStyle().Foreground(theme.Foreground),
		Muted:    lipgloss.NewStyle().Foreground(theme.Muted),
		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Foreground).
			Background(theme.Primary),
		Error:   lipgloss.NewStyle().Foreground(theme.Error),
		Success: lipgloss.NewStyle().Foreground(theme.Success),
		Warning: lipgloss.NewStyle().Foreground(theme.Warning),
		Help:    lipgloss.NewStyle().Foreground(theme.Muted),

		Tab: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 2),
		ActiveTab: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Foreground).
			Background(theme.Primary).
			Padding(0, 2),

		Pane:        pane,
		FocusedPane: pane.BorderForeground(theme.Primary),

		InputField: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),
		StatusBar: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Background(theme.Bar).
			Padding(0, 1),

		UserLabel:      lipgloss.NewStyle().Bold(true).Foreground(theme.Primary),
		AssistantLabel: lipgloss.NewStyle().Bold(true).Foreground(theme.Secondary),
		Citation:       lipgloss.NewStyle().Foreground(theme.Secondary),
		Quote:          lipgloss.NewStyle().Italic(true).Foreground(theme.Muted),
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

// StatusPill renders a document status badge.
func (s *Styles) StatusPill(status domain.DocumentStatus) string {
	colour := s.theme.Error
	switch status {
	case domain.StatusReady:
		colour = s.theme.Success
	case domain.StatusProcessing:
		colour = s.theme.Warning
	}
	return pill(colour).Render(status.Label())
}

// CategoryBadge renders a claim category badge. Unknown categories get the
// neutral muted colour.
func (s *Styles) CategoryBadge(category domain.ClaimCategory) string {
	label := category.Label()
	if !category.Known() && category != "" {
		label = string(category)
	}
	return pill(s.CategoryColour(category)).Render(label)
}

// CategoryColour returns the accent colour for category.
func (s *Styles) CategoryColour(category domain.ClaimCategory) lipgloss.Color {
	switch category {
	case domain.CategoryFinding:
		return s.theme.Success
	case domain.CategoryMethod:
		return s.theme.Info
	case domain.CategoryLimitation:
		return s.theme.Warning
	case domain.CategoryBackground:
		return s.theme.Secondary
	default:
		return s.theme.Muted
	}
}

func pill(colour lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("#1E1E2E")).
		Background(colour).
		Padding(0, 1)
}
