package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/trygginn/trygginn/internal/cli/formatter"
	"github.com/trygginn/trygginn/internal/dashboard"
	"github.com/trygginn/trygginn/internal/derive"
	"github.com/trygginn/trygginn/internal/domain"
)

type staffLoadedMsg struct {
	err error
}

type staffDoneMsg struct {
	childID int64
	notice  string
	err     error
}

// staffView renders the department overview, the calendar editor and the
// profile screen of the staff dashboard.
type staffView struct {
	state   *SharedState
	ctrl    *dashboard.Staff
	cursor  int // index into rows in department order
	event   int // index into calendarEvents
	loading bool
	loadErr error
	pending map[int64]bool
}

func newStaffView(state *SharedState) *staffView {
	return &staffView{
		state:   state,
		ctrl:    dashboard.NewStaff(state.App.API, *state.Session, state.App.options()),
		pending: map[int64]bool{},
	}
}

func (v *staffView) Init() tea.Cmd { return v.load() }

func (v *staffView) load() tea.Cmd {
	v.loading = true
	ctrl, ctx := v.ctrl, v.state.Ctx
	return func() tea.Msg {
		return staffLoadedMsg{err: ctrl.Load(ctx)}
	}
}

func (v *staffView) run(childID int64, notice string, fn func() error) tea.Cmd {
	if childID != 0 {
		v.pending[childID] = true
	}
	return func() tea.Msg {
		return staffDoneMsg{childID: childID, notice: notice, err: fn()}
	}
}

func (v *staffView) close() { v.ctrl.Close() }

// orderedRows flattens the department cards in display order so the
// cursor moves down the screen.
func (v *staffView) orderedRows() []domain.StaffChild {
	var rows []domain.StaffChild
	for _, g := range v.ctrl.Departments() {
		rows = append(rows, g.Children...)
	}
	return rows
}

// calendarEvents lists upcoming events, then past ones.
func (v *staffView) calendarEvents() []domain.KindergartenEvent {
	upcoming, past := derive.SplitEvents(v.ctrl.Events(), v.ctrl.Today())
	return append(upcoming, past...)
}

func (v *staffView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case staffLoadedMsg:
		v.loading = false
		if errors.Is(msg.err, dashboard.ErrStale) {
			return v, nil
		}
		v.loadErr = msg.err
		if n := len(v.orderedRows()); v.cursor >= n {
			v.cursor = max(n-1, 0)
		}
		if msg.err != nil {
			return v, notifyErr(msg.err)
		}
		return v, nil

	case staffDoneMsg:
		delete(v.pending, msg.childID)
		if n := len(v.calendarEvents()); v.event >= n {
			v.event = max(n-1, 0)
		}
		switch {
		case errors.Is(msg.err, dashboard.ErrStale):
			return v, nil
		case msg.err != nil:
			return v, notifyErr(msg.err)
		case msg.notice != "":
			return v, notify(msg.notice)
		}
		return v, nil

	case tea.KeyMsg:
		if v.loading {
			return v, nil
		}
		switch v.ctrl.State().Screen {
		case dashboard.ScreenCalendar:
			return v, v.handleCalendarKey(msg)
		case dashboard.ScreenProfile:
			return v, v.handleProfileKey(msg)
		default:
			return v, v.handleListKey(msg)
		}
	}
	return v, nil
}

func (v *staffView) handleListKey(msg tea.KeyMsg) tea.Cmd {
	rows := v.orderedRows()
	switch msg.String() {
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
		return nil
	case "down", "j":
		if v.cursor < len(rows)-1 {
			v.cursor++
		}
		return nil
	case "n":
		return v.startChildForm()
	case "a":
		return v.startAccessCodeForm()
	case "K":
		return v.screen(v.ctrl.OpenCalendar())
	case "p":
		return v.screen(v.ctrl.OpenProfile())
	case "r":
		return v.load()
	case "x":
		v.ctrl.Close()
		v.state.SignOut()
		return resetViews(newWelcomeView(v.state))
	case "enter", " ", "space":
		if len(rows) == 0 {
			return nil
		}
		row := rows[v.cursor]
		if v.pending[row.ID] {
			return notifyErr(dashboard.ErrMutationInFlight)
		}
		return v.startToggleForm(row)
	}
	return nil
}

func (v *staffView) handleCalendarKey(msg tea.KeyMsg) tea.Cmd {
	events := v.calendarEvents()
	switch msg.String() {
	case "up", "k":
		if v.event > 0 {
			v.event--
		}
	case "down", "j":
		if v.event < len(events)-1 {
			v.event++
		}
	case "n":
		return v.startEventForm(nil)
	case "enter", "e":
		if len(events) > 0 {
			ev := events[v.event]
			return v.startEventForm(&ev)
		}
	case "d":
		if len(events) > 0 {
			return v.startDeleteEvent(events[v.event])
		}
	}
	return nil
}

func (v *staffView) handleProfileKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "e":
		return v.startProfileForm()
	case "w":
		return v.startPasswordForm()
	}
	return nil
}

func (v *staffView) screen(err error) tea.Cmd {
	if err != nil {
		return notifyErr(err)
	}
	v.event = 0
	return nil
}

// Back implements backHandler.
func (v *staffView) Back() (bool, tea.Cmd) {
	if v.ctrl.State().Screen == dashboard.ScreenList {
		return false, nil
	}
	return true, v.screen(v.ctrl.Back())
}

// ── Rendering ────────────────────────────────────────────────────────────────

func (v *staffView) View() string {
	if v.loading && len(v.ctrl.Rows()) == 0 {
		return formatter.Dim("Henter avdelinger …")
	}
	switch v.ctrl.State().Screen {
	case dashboard.ScreenCalendar:
		return v.renderCalendar()
	case dashboard.ScreenProfile:
		return v.renderProfile()
	default:
		return v.renderOverview()
	}
}

func (v *staffView) renderOverview() string {
	var b strings.Builder
	in, total := v.ctrl.Counts()
	b.WriteString(formatter.Header("Oversikt") + "\n" + formatter.RenderAttendance(in, total, 16))
	b.WriteString("\n\n")
	if v.loadErr != nil {
		b.WriteString(formatter.Error(errorText(v.loadErr)))
		return b.String()
	}
	groups := v.ctrl.Departments()
	if len(groups) == 0 {
		b.WriteString(formatter.Dim("Ingen barn er registrert ennå."))
		return b.String()
	}

	i := 0
	for gi, g := range groups {
		if gi > 0 {
			b.WriteString("\n")
		}
		b.WriteString(formatter.StyleHeader.Render(g.Name) + "  " + formatter.RenderAttendance(g.In(), len(g.Children), 10) + "\n")
		rows := make([][]string, 0, len(g.Children))
		for _, c := range g.Children {
			marker := " "
			if i == v.cursor {
				marker = formatter.StyleAccent.Render("›")
			}
			note := c.Note
			if v.pending[c.ID] {
				note = formatter.Dim("Registrerer …")
			}
			rows = append(rows, []string{marker, c.Name, formatter.PresenceBadge(c.Presence), note})
			i++
		}
		b.WriteString(formatter.RenderTable([]string{"", "NAVN", "STATUS", "SIST"}, rows))
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func (v *staffView) renderCalendar() string {
	events := v.calendarEvents()
	lang := v.state.App.Prefs.Language()
	today := v.ctrl.Today()

	var b strings.Builder
	b.WriteString(formatter.Header("Kalender"))
	b.WriteString("\n")
	if len(events) == 0 {
		b.WriteString(formatter.Dim("Ingen hendelser. Trykk n for å legge til."))
		return b.String()
	}
	for i, ev := range events {
		prefix := "  "
		if i == v.event {
			prefix = formatter.StyleAccent.Render("› ")
		}
		fmt.Fprintf(&b, "%s%s  %s  %s\n", prefix,
			formatter.StyleBlue.Render(formatter.RelativeDay(ev.Start, today, lang)),
			formatter.Bold(ev.Title),
			formatter.Dim(ev.Scope))
	}
	b.WriteString("\n")
	b.WriteString(formatter.Dim("n: ny hendelse  enter: rediger  d: slett"))
	return b.String()
}

func (v *staffView) renderProfile() string {
	p := v.ctrl.Profile()
	body := fmt.Sprintf("%s\n%s\n%s\n%s",
		formatter.Bold(p.Name),
		domain.CoalesceStr(p.Email, formatter.EmptyCell),
		domain.CoalesceStr(p.Phone, formatter.EmptyCell),
		formatter.Dim(string(p.Role)))
	return formatter.RenderBox("Min profil", body) + "\n\n" + formatter.Dim("e: rediger profil  w: bytt passord")
}

func (v *staffView) ID() ViewID { return ViewStaff }

func (v *staffView) Title() string {
	switch v.ctrl.State().Screen {
	case dashboard.ScreenCalendar:
		return "Kalender"
	case dashboard.ScreenProfile:
		return "Profil"
	}
	return "Avdelinger"
}

func (v *staffView) ShortHelp() []key.Binding {
	if v.ctrl.State().Screen != dashboard.ScreenList {
		return []key.Binding{key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "tilbake"))}
	}
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "inn/ut")),
		key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "nytt barn")),
		key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "tilgangskode")),
		key.NewBinding(key.WithKeys("K"), key.WithHelp("K", "kalender")),
		key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "profil")),
		key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "oppdater")),
		key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "logg ut")),
	}
}
