package theme

import (
	"github.com/charmbracelet/lipgloss"
)

// Warm base16 palette
var (
	ColorBase00 = lipgloss.Color("#1a1816") // Dark background
	ColorBase01 = lipgloss.Color("#282420") // Lighter background
	ColorBase02 = lipgloss.Color("#36302a") // Selection background
	ColorBase03 = lipgloss.Color("#5c5044") // Comments, invisibles
	ColorBase04 = lipgloss.Color("#83715f") // Dark foreground
	ColorBase05 = lipgloss.Color("#ab937b") // Default foreground
	ColorBase07 = lipgloss.Color("#f5d7b9") // Lightest foreground

	ColorRed    = lipgloss.Color("#d95f5f")
	ColorOrange = lipgloss.Color("#eb8755")
	ColorYellow = lipgloss.Color("#f5b761")
	ColorGreen  = lipgloss.Color("#93b56b")
	ColorCyan   = lipgloss.Color("#61afaf")
	ColorBlue   = lipgloss.Color("#6b93b5")
	ColorPurple = lipgloss.Color("#976bb5")
	ColorGray   = lipgloss.Color("#8a8580")

	ColorBorder  = ColorBase03
	ColorFocus   = ColorOrange
	ColorSuccess = ColorGreen
	ColorWarning = ColorYellow
	ColorError   = ColorRed
	ColorInfo    = ColorCyan
	ColorMuted   = ColorBase04
)

// Styles defines the Lipgloss styles for the TUI components
type Styles struct {
	// Panels
	Panel        lipgloss.Style
	PanelFocused lipgloss.Style
	PanelTitle   lipgloss.Style

	// Upload zone
	UploadHint  lipgloss.Style
	UploadFile  lipgloss.Style
	UploadSize  lipgloss.Style
	UploadError lipgloss.Style
	Button      lipgloss.Style

	// Chat input
	InputPrompt      lipgloss.Style
	InputPlaceholder lipgloss.Style
	InputDisabled    lipgloss.Style

	// Timeline and lineage
	EmptyState lipgloss.Style
	Muted      lipgloss.Style
	Help       lipgloss.Style

	// Status bar
	StatusBar   lipgloss.Style
	StatusState lipgloss.Style
	StatusError lipgloss.Style
}

// DefaultStyles returns the default Lipgloss styles
func DefaultStyles() *Styles {
	return &Styles{
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1),

		PanelFocused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorFocus).
			Padding(0, 1),

		PanelTitle: lipgloss.NewStyle().
			Foreground(ColorFocus).
			Bold(true),

		UploadHint: lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true),

		UploadFile: lipgloss.NewStyle().
			Foreground(ColorBase07).
			Bold(true),

		UploadSize: lipgloss.NewStyle().
			Foreground(ColorMuted),

		UploadError: lipgloss.NewStyle().
			Foreground(ColorError),

		Button: lipgloss.NewStyle().
			Foreground(ColorBase00).
			Background(ColorFocus).
			Padding(0, 1).
			Bold(true),

		InputPrompt: lipgloss.NewStyle().
			Foreground(ColorFocus).
			Bold(true),

		InputPlaceholder: lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true),

		InputDisabled: lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true),

		EmptyState: lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true),

		Muted: lipgloss.NewStyle().
			Foreground(ColorMuted),

		Help: lipgloss.NewStyle().
			Foreground(ColorBase03),

		StatusBar: lipgloss.NewStyle().
			Foreground(ColorBase05).
			Background(ColorBase01).
			Padding(0, 1),

		StatusState: lipgloss.NewStyle().
			Foreground(ColorFocus).
			Bold(true),

		StatusError: lipgloss.NewStyle().
			Foreground(ColorError),
	}
}

// Pick returns focused when active, otherwise base
func Pick(active bool, focused, base lipgloss.Style) lipgloss.Style {
	if active {
		return focused
	}
	return base
}
