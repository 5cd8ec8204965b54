package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
)

type ThemeName string

const (
	ThemePorcelain ThemeName = "porcelain"
	ThemeMidnight  ThemeName = "midnight"
)

type Theme struct {
	Name ThemeName

	// Colors
	TextPrimary lipgloss.AdaptiveColor
	TextMuted   lipgloss.AdaptiveColor
	TextFaint   lipgloss.AdaptiveColor

	Accent   lipgloss.AdaptiveColor
	Success  lipgloss.AdaptiveColor
	Warn     lipgloss.AdaptiveColor
	Error    lipgloss.AdaptiveColor
	Border   lipgloss.AdaptiveColor
	BorderHi lipgloss.AdaptiveColor

	// Styles
	TopBar      lipgloss.Style
	TopBarTitle lipgloss.Style
	TopBarBadge lipgloss.Style
	TopBarMeta  lipgloss.Style

	Pane        lipgloss.Style
	PaneFocused lipgloss.Style
	PaneTitle   lipgloss.Style
	PaneTitleF  lipgloss.Style
	PaneDivider lipgloss.Style
	Footer      lipgloss.Style
	InputBox    lipgloss.Style
	InputBoxF   lipgloss.Style
	Spinner     lipgloss.Style

	RoleScammer lipgloss.Style
	RoleAurora  lipgloss.Style
	RoleSys     lipgloss.Style
	RoleErr     lipgloss.Style

	RiskLow    lipgloss.Style
	RiskMedium lipgloss.Style
	RiskHigh   lipgloss.Style

	MetricLabel lipgloss.Style
	MetricValue lipgloss.Style
	BarFill     lipgloss.Style
	BarEmpty    lipgloss.Style

	StatusOnline   lipgloss.Style
	StatusOffline  lipgloss.Style
	StatusChecking lipgloss.Style

	IntelType  lipgloss.Style
	IntelValue lipgloss.Style

	ToastInfo  lipgloss.Style
	ToastError lipgloss.Style

	FinalHeader lipgloss.Style
	FinalLabel  lipgloss.Style
	FinalValue  lipgloss.Style
	FinalBox    lipgloss.Style
}

func NewTheme() Theme {
	name := ThemeName(os.Getenv("AURORA_THEME"))
	if name == "" {
		name = ThemePorcelain
	}
	if os.Getenv("AURORA_NO_COLOR") == "1" {
		return newNoColorTheme()
	}
	switch name {
	case ThemeMidnight:
		return newMidnightTheme()
	default:
		return newPorcelainTheme()
	}
}

func finishTheme(t Theme) Theme {
	t.TopBar = lipgloss.NewStyle().Foreground(t.TextMuted)
	t.TopBarTitle = lipgloss.NewStyle().Bold(true).Foreground(t.TextPrimary)
	t.TopBarBadge = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)
	t.TopBarMeta = lipgloss.NewStyle().Foreground(t.TextMuted)

	t.Pane = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(t.Border).Padding(0, 1)
	t.PaneFocused = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(t.BorderHi).Padding(0, 1)
	t.PaneTitle = lipgloss.NewStyle().Bold(true).Foreground(t.TextMuted)
	t.PaneTitleF = lipgloss.NewStyle().Bold(true).Foreground(t.TextPrimary)
	t.PaneDivider = lipgloss.NewStyle().Foreground(t.Border)
	t.Footer = lipgloss.NewStyle().Foreground(t.TextMuted)
	t.InputBox = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(t.Border).Padding(0, 1)
	t.InputBoxF = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(t.BorderHi).Padding(0, 1)
	t.Spinner = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)

	t.RoleScammer = lipgloss.NewStyle().Bold(true).Foreground(t.Warn)
	t.RoleAurora = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)
	t.RoleSys = lipgloss.NewStyle().Foreground(t.TextMuted)
	t.RoleErr = lipgloss.NewStyle().Bold(true).Foreground(t.Error)

	t.RiskLow = lipgloss.NewStyle().Foreground(t.Success)
	t.RiskMedium = lipgloss.NewStyle().Bold(true).Foreground(t.Warn)
	t.RiskHigh = lipgloss.NewStyle().Bold(true).Foreground(t.Error)

	t.MetricLabel = lipgloss.NewStyle().Foreground(t.TextMuted)
	t.MetricValue = lipgloss.NewStyle().Bold(true).Foreground(t.TextPrimary)
	t.BarFill = lipgloss.NewStyle().Foreground(t.Accent)
	t.BarEmpty = lipgloss.NewStyle().Foreground(t.TextFaint)

	t.StatusOnline = lipgloss.NewStyle().Bold(true).Foreground(t.Success)
	t.StatusOffline = lipgloss.NewStyle().Bold(true).Foreground(t.Error)
	t.StatusChecking = lipgloss.NewStyle().Foreground(t.TextMuted)

	t.IntelType = lipgloss.NewStyle().Bold(true).Foreground(t.TextPrimary)
	t.IntelValue = lipgloss.NewStyle().Foreground(t.TextMuted)

	t.ToastInfo = lipgloss.NewStyle().Foreground(t.Success)
	t.ToastError = lipgloss.NewStyle().Bold(true).Foreground(t.Error)

	t.FinalHeader = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)
	t.FinalLabel = lipgloss.NewStyle().Foreground(t.TextMuted)
	t.FinalValue = lipgloss.NewStyle().Foreground(t.TextPrimary)
	t.FinalBox = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.BorderHi).Padding(0, 1)
	return t
}

func newPorcelainTheme() Theme {
	return finishTheme(Theme{
		Name:        ThemePorcelain,
		TextPrimary: lipgloss.AdaptiveColor{Light: "#1d2433", Dark: "#f2f2f2"},
		TextMuted:   lipgloss.AdaptiveColor{Light: "#4a5568", Dark: "#c7c7c7"},
		TextFaint:   lipgloss.AdaptiveColor{Light: "#718096", Dark: "#9aa0a6"},
		Accent:      lipgloss.AdaptiveColor{Light: "#1f6feb", Dark: "#7aa2ff"},
		Success:     lipgloss.AdaptiveColor{Light: "#0f766e", Dark: "#46d1b7"},
		Warn:        lipgloss.AdaptiveColor{Light: "#b45309", Dark: "#f4b27d"},
		Error:       lipgloss.AdaptiveColor{Light: "#b42318", Dark: "#ff7a7a"},
		Border:      lipgloss.AdaptiveColor{Light: "#cbd5e0", Dark: "#3a3a3a"},
		BorderHi:    lipgloss.AdaptiveColor{Light: "#1f6feb", Dark: "#7aa2ff"},
	})
}

func newMidnightTheme() Theme {
	return finishTheme(Theme{
		Name:        ThemeMidnight,
		TextPrimary: lipgloss.AdaptiveColor{Light: "#111827", Dark: "#eaeaea"},
		TextMuted:   lipgloss.AdaptiveColor{Light: "#374151", Dark: "#b7b7b7"},
		TextFaint:   lipgloss.AdaptiveColor{Light: "#6b7280", Dark: "#8d8d8d"},
		Accent:      lipgloss.AdaptiveColor{Light: "#0ea5e9", Dark: "#5cc8ff"},
		Success:     lipgloss.AdaptiveColor{Light: "#059669", Dark: "#46d1b7"},
		Warn:        lipgloss.AdaptiveColor{Light: "#d97706", Dark: "#f4b27d"},
		Error:       lipgloss.AdaptiveColor{Light: "#dc2626", Dark: "#ff7a7a"},
		Border:      lipgloss.AdaptiveColor{Light: "#9ca3af", Dark: "#2a2a2a"},
		BorderHi:    lipgloss.AdaptiveColor{Light: "#2563eb", Dark: "#7aa2ff"},
	})
}

func newNoColorTheme() Theme {
	return finishTheme(Theme{
		Name:        "no-color",
		TextPrimary: lipgloss.AdaptiveColor{Light: "#000000", Dark: "#ffffff"},
		TextMuted:   lipgloss.AdaptiveColor{Light: "#333333", Dark: "#dddddd"},
		TextFaint:   lipgloss.AdaptiveColor{Light: "#555555", Dark: "#bbbbbb"},
		Border:      lipgloss.AdaptiveColor{Light: "#555555", Dark: "#777777"},
		BorderHi:    lipgloss.AdaptiveColor{Light: "#000000", Dark: "#ffffff"},
	})
}
