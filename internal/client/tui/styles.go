package tui

import "github.com/charmbracelet/lipgloss"

// Styles groups every style the personnel screen renders with.
type Styles struct {
	Title       lipgloss.Style
	Label       lipgloss.Style
	Button      lipgloss.Style
	ButtonBusy  lipgloss.Style
	Success     lipgloss.Style
	Error       lipgloss.Style
	Prompt      lipgloss.Style
	Placeholder lipgloss.Style
	Help        lipgloss.Style
	Frame       lipgloss.Style
}

var (
	colorPrimary = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7D79F6"}
	colorSuccess = lipgloss.AdaptiveColor{Light: "#1B873F", Dark: "#3FB950"}
	colorError   = lipgloss.AdaptiveColor{Light: "#CF222E", Dark: "#F85149"}
	colorWarning = lipgloss.AdaptiveColor{Light: "#9A6700", Dark: "#D29922"}
	colorMuted   = lipgloss.AdaptiveColor{Light: "#6E7781", Dark: "#8B949E"}
)

// DefaultStyles returns the standard palette.
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true).
			MarginBottom(1),
		Label: lipgloss.NewStyle().
			Foreground(colorMuted).
			Width(8),
		Button: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Background(colorPrimary).
			Padding(0, 2),
		ButtonBusy: lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 2),
		Success: lipgloss.NewStyle().
			Foreground(colorSuccess).
			Bold(true),
		Error: lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true),
		Prompt: lipgloss.NewStyle().
			Foreground(colorWarning).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorWarning).
			Padding(0, 1),
		Placeholder: lipgloss.NewStyle().
			Foreground(colorMuted).
			Italic(true).
			Padding(1, 2),
		Help: lipgloss.NewStyle().
			Foreground(colorMuted),
		Frame: lipgloss.NewStyle().
			Padding(1, 2),
	}
}
