package output

import "github.com/charmbracelet/lipgloss"

// Palette colours.
var (
	colorPrimary = lipgloss.Color("#00083e")
	colorSuccess = lipgloss.Color("#8BC34A")
	colorWarning = lipgloss.Color("#FFC107")
	colorError   = lipgloss.Color("#e53935")
	colorInfo    = lipgloss.Color("#2196F3")
	colorMuted   = lipgloss.Color("#8a8f98")
)

// Styles holds the lipgloss styles used for terminal output.
type Styles struct {
	Header1       lipgloss.Style
	Header2       lipgloss.Style
	Bold          lipgloss.Style
	Muted         lipgloss.Style
	Success       lipgloss.Style
	Warning       lipgloss.Style
	Error         lipgloss.Style
	Info          lipgloss.Style
	StatusSuccess lipgloss.Style
	StatusFailed  lipgloss.Style
}

// DefaultStyles returns the coloured terminal styles.
func DefaultStyles() *Styles {
	return &Styles{
		Header1:       lipgloss.NewStyle().Bold(true).Foreground(colorInfo).Underline(true),
		Header2:       lipgloss.NewStyle().Bold(true).Foreground(colorInfo),
		Bold:          lipgloss.NewStyle().Bold(true),
		Muted:         lipgloss.NewStyle().Foreground(colorMuted),
		Success:       lipgloss.NewStyle().Foreground(colorSuccess),
		Warning:       lipgloss.NewStyle().Foreground(colorWarning),
		Error:         lipgloss.NewStyle().Foreground(colorError).Bold(true),
		Info:          lipgloss.NewStyle().Foreground(colorPrimary),
		StatusSuccess: lipgloss.NewStyle().Foreground(colorSuccess).SetString("✓"),
		StatusFailed:  lipgloss.NewStyle().Foreground(colorError).SetString("✗"),
	}
}

// PlainStyles returns styles that render text unchanged apart from the
// status glyphs.
func PlainStyles() *Styles {
	plain := lipgloss.NewStyle()
	return &Styles{
		Header1:       plain,
		Header2:       plain,
		Bold:          plain,
		Muted:         plain,
		Success:       plain,
		Warning:       plain,
		Error:         plain,
		Info:          plain,
		StatusSuccess: plain.SetString("✓"),
		StatusFailed:  plain.SetString("✗"),
	}
}
