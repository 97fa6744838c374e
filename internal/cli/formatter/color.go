package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/trygginn/trygginn/internal/domain"
	"github.com/trygginn/trygginn/internal/prefs"
)

// Palette is one set of colors for the whole UI.
type Palette struct {
	Green  lipgloss.Color
	Yellow lipgloss.Color
	Red    lipgloss.Color
	Blue   lipgloss.Color
	Accent lipgloss.Color
	Dim    lipgloss.Color
	Fg     lipgloss.Color
	Header lipgloss.Color
}

// Gruvbox dark and its light counterpart.
var (
	DarkPalette = Palette{
		Green:  "#8ec07c",
		Yellow: "#fabd2f",
		Red:    "#fb4934",
		Blue:   "#83a598",
		Accent: "#d3869b",
		Dim:    "#928374",
		Fg:     "#ebdbb2",
		Header: "#fe8019",
	}
	LightPalette = Palette{
		Green:  "#427b58",
		Yellow: "#b57614",
		Red:    "#9d0006",
		Blue:   "#076678",
		Accent: "#8f3f71",
		Dim:    "#7c6f64",
		Fg:     "#3c3836",
		Header: "#af3a03",
	}
)

// Active styles. ApplyTheme swaps them; views read them at render time.
var (
	active Palette

	ColorDim lipgloss.Color

	StyleGreen  lipgloss.Style
	StyleYellow lipgloss.Style
	StyleRed    lipgloss.Style
	StyleBlue   lipgloss.Style
	StyleAccent lipgloss.Style
	StyleDim    lipgloss.Style
	StyleFg     lipgloss.Style
	StyleHeader lipgloss.Style
	StyleBold   lipgloss.Style
)

func init() {
	ApplyTheme(prefs.ThemeDark)
}

// ApplyTheme selects the palette for t. It is not safe to call while
// another goroutine renders; the TUI calls it from Update.
func ApplyTheme(t prefs.Theme) {
	p := DarkPalette
	if t == prefs.ThemeLight {
		p = LightPalette
	}
	active = p
	ColorDim = p.Dim
	StyleGreen = lipgloss.NewStyle().Foreground(p.Green)
	StyleYellow = lipgloss.NewStyle().Foreground(p.Yellow)
	StyleRed = lipgloss.NewStyle().Foreground(p.Red)
	StyleBlue = lipgloss.NewStyle().Foreground(p.Blue)
	StyleAccent = lipgloss.NewStyle().Foreground(p.Accent)
	StyleDim = lipgloss.NewStyle().Foreground(p.Dim)
	StyleFg = lipgloss.NewStyle().Foreground(p.Fg)
	StyleHeader = lipgloss.NewStyle().Foreground(p.Header).Bold(true)
	StyleBold = lipgloss.NewStyle().Foreground(p.Fg).Bold(true)
}

// Active returns the palette last selected by ApplyTheme.
func Active() Palette { return active }

// StatusBadge renders a child's check-in status for the parent list.
func StatusBadge(s domain.ChildStatus) string {
	if s == domain.StatusCheckedIn {
		return StyleGreen.Render("● Inne")
	}
	return StyleDim.Render("○ Ikke inne")
}

// PresenceBadge renders a staff row's presence.
func PresenceBadge(p domain.Presence) string {
	switch p {
	case domain.PresenceIn:
		return StyleGreen.Render("● INN")
	case domain.PresenceOut:
		return StyleYellow.Render("◐ UT")
	default:
		return StyleDim.Render("○ –")
	}
}

// Header renders a section header with the header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}

// Error renders a blocking notification line.
func Error(text string) string {
	return StyleRed.Render("✖ " + text)
}

// Success renders a confirmation line.
func Success(text string) string {
	return StyleGreen.Render("✔ " + text)
}
