package theme

import "github.com/charmbracelet/lipgloss"

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorOrange  = lipgloss.AdaptiveColor{Dark: "#FFA94D", Light: "#C05621"}
	ColorMagenta = lipgloss.AdaptiveColor{Dark: "#CC5DE8", Light: "#805AD5"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
)

// HeaderStyle is used for section headers in command output.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorBlue)

// TeamStyle highlights team names in the run output.
var TeamStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorMagenta)

// KeyStyle highlights issue keys.
var KeyStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorBlue)

// WarnStyle marks non-fatal problems.
var WarnStyle = lipgloss.NewStyle().
	Foreground(ColorYellow)

// ErrorStyle marks fatal problems.
var ErrorStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorRed)

// SuccessStyle marks completed work.
var SuccessStyle = lipgloss.NewStyle().
	Foreground(ColorGreen)

// SubtleStyle is for secondary detail lines.
var SubtleStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// TierStyle returns a color-coded style for a compliance tier label.
// Higher tiers render greener; NL renders red.
func TierStyle(tier string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch tier {
	case "NL":
		return base.Foreground(ColorRed)
	case "L1":
		return base.Foreground(ColorOrange)
	case "L2":
		return base.Foreground(ColorYellow)
	default:
		return base.Foreground(ColorGreen)
	}
}
