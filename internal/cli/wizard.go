package cli

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/trygginn/trygginn/internal/cli/formatter"
)

// huhTheme builds a huh theme from the active palette, so forms opened
// after a theme toggle follow it.
func huhTheme() *huh.Theme {
	p := formatter.Active()
	t := huh.ThemeBase()

	// Focused state: header accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(p.Header).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(p.Header)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(p.Green)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(p.Fg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(p.Fg).Background(p.Header).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(p.Dim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(p.Header)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(p.Header)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(p.Fg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(p.Dim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(p.Dim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(p.Red)
	t.Focused.ErrorIndicator = lipgloss.NewStyle().Foreground(p.Red)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(p.Dim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(p.Dim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(p.Dim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(p.Dim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(p.Dim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(p.Dim)

	return t
}

// newForm applies the shared theme and hides huh's own help line; the
// status bar shows the keys instead.
func newForm(groups ...*huh.Group) *huh.Form {
	return huh.NewForm(groups...).WithTheme(huhTheme()).WithShowHelp(false)
}
