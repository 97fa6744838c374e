package cli

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/trygginn/trygginn/internal/cli/formatter"
)

// accessCodeCheckedMsg carries the result of validating an access code.
type accessCodeCheckedMsg struct {
	daycare *Daycare
	err     error
}

// accessCodeView is the first screen: the parent or staff member types the
// kindergarten's access code. The code is only validated here; it is
// redeemed for a guardian when a new account is registered.
type accessCodeView struct {
	state    *SharedState
	form     *huh.Form
	code     string
	checking bool
}

func newAccessCodeView(state *SharedState) *accessCodeView {
	v := &accessCodeView{state: state}
	v.resetForm()
	return v
}

func (v *accessCodeView) resetForm() {
	v.code = ""
	v.form = newForm(huh.NewGroup(
		huh.NewInput().
			Title("Tilgangskode").
			Description("Koden får du av barnehagen.").
			Value(&v.code).
			Validate(validateRequired("Tilgangskode")),
	))
}

func (v *accessCodeView) Init() tea.Cmd { return v.form.Init() }

func (v *accessCodeView) check() tea.Cmd {
	code := strings.TrimSpace(v.code)
	state := v.state
	return func() tea.Msg {
		resp, err := state.App.API.UseAccessCode(state.Ctx, code, nil)
		if err != nil {
			return accessCodeCheckedMsg{err: err}
		}
		return accessCodeCheckedMsg{daycare: &Daycare{ID: resp.DaycareID, Name: resp.DaycareName, Code: code}}
	}
}

func (v *accessCodeView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case accessCodeCheckedMsg:
		v.checking = false
		if msg.err != nil {
			v.resetForm()
			return v, tea.Batch(v.form.Init(), notifyErr(msg.err))
		}
		v.state.Daycare = msg.daycare
		v.state.App.logger().Info("daycare selected", "daycare_id", msg.daycare.ID)
		return v, resetViews(newWelcomeView(v.state))
	}

	if v.checking {
		return v, nil
	}

	form, cmd := v.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		v.form = f
	}
	if v.form.State == huh.StateCompleted {
		v.checking = true
		return v, v.check()
	}
	return v, cmd
}

func (v *accessCodeView) View() string {
	var b strings.Builder
	b.WriteString(formatter.Header("Velkommen til trygginn"))
	b.WriteString("\n\n")
	if v.checking {
		b.WriteString(formatter.Dim("Sjekker koden …"))
		return b.String()
	}
	b.WriteString(v.form.View())
	return b.String()
}

func (v *accessCodeView) ID() ViewID    { return ViewAccessCode }
func (v *accessCodeView) Title() string { return "" }
func (v *accessCodeView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "fortsett")),
		key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "avslutt")),
	}
}

// ── Welcome ──────────────────────────────────────────────────────────────────

type welcomeItem struct {
	key   string
	label string
	run   func(v *welcomeView) tea.Cmd
}

// welcomeView is the kindergarten's landing page: log in, register,
// reset password or pick another kindergarten.
type welcomeView struct {
	state  *SharedState
	items  []welcomeItem
	cursor int
	busy   string
}

func newWelcomeView(state *SharedState) *welcomeView {
	return &welcomeView{
		state: state,
		items: []welcomeItem{
			{"l", "Logg inn", (*welcomeView).startLogin},
			{"r", "Ny bruker", (*welcomeView).startRegister},
			{"g", "Glemt passord", (*welcomeView).startReset},
			{"b", "Bytt barnehage", (*welcomeView).switchDaycare},
		},
	}
}

func (v *welcomeView) Init() tea.Cmd { return nil }

func (v *welcomeView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if v.busy != "" {
			return v, nil
		}
		switch msg.String() {
		case "up", "k":
			if v.cursor > 0 {
				v.cursor--
			}
			return v, nil
		case "down", "j":
			if v.cursor < len(v.items)-1 {
				v.cursor++
			}
			return v, nil
		case "enter":
			return v, v.items[v.cursor].run(v)
		}
		for _, it := range v.items {
			if msg.String() == it.key {
				return v, it.run(v)
			}
		}

	case loggedInMsg:
		v.busy = ""
		if msg.err != nil {
			return v, notifyErr(msg.err)
		}
		return v, v.enterDashboard(msg)

	case registeredMsg:
		v.busy = ""
		if msg.err != nil {
			return v, notifyErr(msg.err)
		}
		return v, notify("Brukeren er opprettet. Du kan nå logge inn.")
	}
	return v, nil
}

func (v *welcomeView) switchDaycare() tea.Cmd {
	v.state.Daycare = nil
	return resetViews(newAccessCodeView(v.state))
}

func (v *welcomeView) View() string {
	var b strings.Builder
	name := "barnehagen"
	if v.state.Daycare != nil {
		name = v.state.Daycare.Name
	}
	b.WriteString(formatter.Header("Velkommen til " + name))
	b.WriteString("\n\n")
	if v.busy != "" {
		b.WriteString(formatter.Dim(v.busy))
		return b.String()
	}
	for i, it := range v.items {
		line := formatter.Dim("["+it.key+"]") + " " + it.label
		if i == v.cursor {
			line = formatter.StyleAccent.Render("› ") + formatter.Bold(it.label) + " " + formatter.Dim("["+it.key+"]")
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func (v *welcomeView) ID() ViewID    { return ViewWelcome }
func (v *welcomeView) Title() string { return "" }
func (v *welcomeView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑/↓", "velg")),
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "åpne")),
		key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "avslutt")),
	}
}
