package theme

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Apply switches rendering to the named theme before any view draws.
// "dark" and "light" pin the adaptive palette to one side, "mono"
// strips color entirely, and anything else keeps terminal detection.
func Apply(name string) {
	switch name {
	case "dark":
		lipgloss.SetHasDarkBackground(true)
	case "light":
		lipgloss.SetHasDarkBackground(false)
	case "mono":
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

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
	ColorSubtle  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for top-level section headers and the application title.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// PanelStyle wraps bordered content areas such as the notification menu.
var PanelStyle = lipgloss.NewStyle().
	Padding(1, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// ListItemStyle is the base style for items in a list.
var ListItemStyle = lipgloss.NewStyle().
	PaddingLeft(2)

// SelectedItemStyle highlights the currently focused list item.
var SelectedItemStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	Bold(true).
	Foreground(ColorBlue).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorBlue)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// ToastStyle wraps the transient alert shown when a push arrives.
var ToastStyle = lipgloss.NewStyle().
	Bold(true).
	Padding(0, 1).
	Border(lipgloss.RoundedBorder())

// UnreadStyle marks notifications not yet read.
var UnreadStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite)

// DimmedStyle is used for secondary text such as timestamps.
var DimmedStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// OnlineStyle returns a color-coded style for a device's reachability.
func OnlineStyle(online bool) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)
	if online {
		return base.Foreground(ColorGreen)
	}
	return base.Foreground(ColorGray)
}

// DeviceTypeStyle returns a color-coded style for the given device type.
func DeviceTypeStyle(deviceType string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch deviceType {
	case "light":
		return base.Foreground(ColorYellow)
	case "fan":
		return base.Foreground(ColorBlue)
	case "sensor":
		return base.Foreground(ColorGreen)
	case "gate":
		return base.Foreground(ColorMagenta)
	case "camera":
		return base.Foreground(ColorRed)
	default:
		return base.Foreground(ColorGray)
	}
}

// AlertStyle returns a color-coded style for the given notification type.
func AlertStyle(alertType string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch alertType {
	case "FIRE", "CRITICAL":
		return base.Foreground(ColorRed)
	case "WARNING":
		return base.Foreground(ColorOrange)
	case "INFO":
		return base.Foreground(ColorBlue)
	default:
		return base.Foreground(ColorGray)
	}
}

// RoleStyle returns a color-coded style for an account role label.
func RoleStyle(role string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)
	if role == "admin" {
		return base.Foreground(ColorMagenta)
	}
	return base.Foreground(ColorGray)
}
