package cli

import (
	"context"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/trygginn/trygginn/internal/cli/formatter"
	"github.com/trygginn/trygginn/internal/prefs"
)

// appModel is the root bubbletea Model for the TUI.
// It manages a view stack, the notification line and the global
// theme and language keys.
type appModel struct {
	state     *SharedState
	viewStack []View
	quitting  bool
}

func newAppModel(ctx context.Context, app *App) appModel {
	state := &SharedState{App: app, Ctx: ctx}
	formatter.ApplyTheme(app.Prefs.Theme())
	return appModel{
		state:     state,
		viewStack: []View{newAccessCodeView(state)},
	}
}

// activeView returns the top view on the stack, or nil.
func (m appModel) activeView() View {
	if len(m.viewStack) == 0 {
		return nil
	}
	return m.viewStack[len(m.viewStack)-1]
}

// setActiveView replaces the top of the view stack.
// If the stack is empty, this is a no-op.
func (m *appModel) setActiveView(v View) {
	if len(m.viewStack) > 0 {
		m.viewStack[len(m.viewStack)-1] = v
	}
}

func (m appModel) Init() tea.Cmd {
	if v := m.activeView(); v != nil {
		return v.Init()
	}
	return nil
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.state.Width = msg.Width
		m.state.Height = msg.Height
		if v := m.activeView(); v != nil {
			updated, cmd := v.Update(msg)
			m.setActiveView(updated.(View))
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case pushViewMsg:
		m.viewStack = append(m.viewStack, msg.view)
		return m, msg.view.Init()

	case resetViewsMsg:
		m.viewStack = msg.views
		var cmds []tea.Cmd
		for _, v := range msg.views {
			cmds = append(cmds, v.Init())
		}
		return m, tea.Batch(cmds...)

	case noticeMsg:
		m.state.Notice = msg.text
		m.state.NoticeErr = msg.err
		return m, nil

	case refreshViewMsg:
		var cmds []tea.Cmd
		for i, v := range m.viewStack {
			updated, cmd := v.Update(msg)
			m.viewStack[i] = updated.(View)
			if cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
		return m, tea.Batch(cmds...)

	case wizardCompleteMsg:
		if len(m.viewStack) > 1 {
			m.viewStack = m.viewStack[:len(m.viewStack)-1]
		}
		return m, tea.Batch(msg.nextCmd, refresh)
	}

	// Results of background commands go to the view that started them,
	// which may no longer be on top.
	var cmds []tea.Cmd
	for i, v := range m.viewStack {
		updated, cmd := v.Update(msg)
		m.viewStack[i] = updated.(View)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return m, tea.Batch(cmds...)
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		m.closeViews()
		return m, tea.Quit
	case "ctrl+t":
		return m, m.toggleTheme()
	case "ctrl+l":
		return m, m.toggleLanguage()
	}

	// A notification blocks until it is dismissed.
	if m.state.Notice != "" {
		m.state.Notice = ""
		m.state.NoticeErr = false
		return m, nil
	}

	v := m.activeView()
	if v != nil && viewCapturesInput(v) {
		updated, cmd := v.Update(msg)
		m.setActiveView(updated.(View))
		return m, cmd
	}

	switch {
	case msg.String() == "q":
		m.quitting = true
		m.closeViews()
		return m, tea.Quit

	case msg.Type == tea.KeyEsc:
		if b, ok := v.(backHandler); ok {
			if handled, cmd := b.Back(); handled {
				return m, cmd
			}
		}
		if len(m.viewStack) > 1 {
			m.viewStack = m.viewStack[:len(m.viewStack)-1]
		}
		return m, nil
	}

	if v != nil {
		updated, cmd := v.Update(msg)
		m.setActiveView(updated.(View))
		return m, cmd
	}
	return m, nil
}

func (m *appModel) toggleTheme() tea.Cmd {
	t, err := m.state.App.Prefs.ToggleTheme(m.state.Ctx)
	if err != nil {
		return notifyErr(err)
	}
	formatter.ApplyTheme(t)
	return nil
}

func (m *appModel) toggleLanguage() tea.Cmd {
	next := prefs.LanguageEN
	if m.state.App.Prefs.Language() == prefs.LanguageEN {
		next = prefs.LanguageNB
	}
	if err := m.state.App.Prefs.SetLanguage(m.state.Ctx, next); err != nil {
		return notifyErr(err)
	}
	return nil
}

// closeViews lets dashboards drop responses that arrive after exit.
func (m *appModel) closeViews() {
	for _, v := range m.viewStack {
		if c, ok := v.(interface{ close() }); ok {
			c.close()
		}
	}
}

func (m appModel) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{m.renderHeader()}
	if m.state.Notice != "" {
		if m.state.NoticeErr {
			sections = append(sections, formatter.Error(m.state.Notice))
		} else {
			sections = append(sections, formatter.Success(m.state.Notice))
		}
	}
	if v := m.activeView(); v != nil {
		sections = append(sections, v.View())
	}
	sections = append(sections, m.renderStatusBar())

	result := strings.Join(sections, "\n")

	// Pad to terminal height to prevent stale line artifacts from
	// bubbletea's line-diff renderer in alt-screen mode.
	if m.state.Height > 0 {
		lines := strings.Count(result, "\n") + 1
		if lines < m.state.Height {
			result += strings.Repeat("\n", m.state.Height-lines)
		}
	}
	return result
}

func (m *appModel) renderHeader() string {
	title := formatter.StyleAccent.Render("trygginn")
	if d := m.state.Daycare; d != nil {
		title += " " + formatter.Bold(d.Name)
	}

	var crumbs []string
	for _, v := range m.viewStack {
		if t := v.Title(); t != "" {
			crumbs = append(crumbs, t)
		}
	}
	if len(crumbs) > 0 {
		title += " " + formatter.Dim("› "+strings.Join(crumbs, " › "))
	}

	p := m.state.App.Prefs
	right := formatter.Dim("[" + string(p.Theme()) + " · " + string(p.Language()) + "]")
	if s := m.state.Session; s != nil {
		right = formatter.StyleGreen.Render(s.UserName) + " " + right
	}
	header := title + "  " + right

	sep := formatter.Dim(strings.Repeat("─", max(m.state.Width, 20)))
	return header + "\n" + sep
}

func (m *appModel) renderStatusBar() string {
	var hints []string
	if v := m.activeView(); v != nil {
		for _, b := range v.ShortHelp() {
			hints = append(hints, formatter.Dim(b.Help().Key+": "+b.Help().Desc))
		}
	}
	if len(m.viewStack) > 1 {
		hints = append(hints, formatter.Dim("esc: tilbake"))
	}
	hints = append(hints, formatter.Dim("ctrl+t: tema"), formatter.Dim("ctrl+l: språk"))

	sepStyle := lipgloss.NewStyle().Foreground(formatter.ColorDim)
	sep := sepStyle.Render(strings.Repeat("─", max(m.state.Width, 20)))
	return sep + "\n" + strings.Join(hints, "  ")
}

// viewCapturesInput returns true if the active view has its own text input
// and should receive all key events (bypassing global keybindings like q/Esc).
func viewCapturesInput(v View) bool {
	return v != nil && (v.ID() == ViewForm || v.ID() == ViewAccessCode)
}

// RunTUI runs the interactive client until the user quits.
func RunTUI(ctx context.Context, app *App, in io.Reader, out io.Writer) error {
	p := tea.NewProgram(newAppModel(ctx, app), tea.WithAltScreen(), tea.WithInput(in), tea.WithOutput(out), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
