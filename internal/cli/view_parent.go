package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/trygginn/trygginn/internal/cli/formatter"
	"github.com/trygginn/trygginn/internal/dashboard"
	"github.com/trygginn/trygginn/internal/derive"
	"github.com/trygginn/trygginn/internal/domain"
)

// parentLoadedMsg is sent when a parent dashboard Load finishes.
type parentLoadedMsg struct {
	err error
}

// parentDoneMsg is sent when a parent mutation finishes.
type parentDoneMsg struct {
	childID int64
	notice  string
	err     error
}

// parentView renders the guardian dashboard. All state lives in the
// dashboard.Parent controller; the view keeps only cursors and which
// children have a registration in flight.
type parentView struct {
	state    *SharedState
	ctrl     *dashboard.Parent
	cursor   int
	activity int
	loading  bool
	loadErr  error
	pending  map[int64]bool
	calendar viewport.Model
}

func newParentView(state *SharedState) *parentView {
	return &parentView{
		state:    state,
		ctrl:     dashboard.NewParent(state.App.API, *state.Session, state.App.options()),
		pending:  map[int64]bool{},
		calendar: viewport.New(80, 20),
	}
}

func (v *parentView) Init() tea.Cmd {
	return v.load()
}

func (v *parentView) load() tea.Cmd {
	v.loading = true
	ctrl, ctx := v.ctrl, v.state.Ctx
	return func() tea.Msg {
		return parentLoadedMsg{err: ctrl.Load(ctx)}
	}
}

// run executes a controller call off the UI goroutine.
func (v *parentView) run(childID int64, notice string, fn func() error) tea.Cmd {
	if childID != 0 {
		v.pending[childID] = true
	}
	return func() tea.Msg {
		return parentDoneMsg{childID: childID, notice: notice, err: fn()}
	}
}

func (v *parentView) close() { v.ctrl.Close() }

func (v *parentView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.calendar.Width = msg.Width
		v.calendar.Height = max(v.state.ContentHeight()-2, 3)
		return v, nil

	case parentLoadedMsg:
		v.loading = false
		if errors.Is(msg.err, dashboard.ErrStale) {
			return v, nil
		}
		v.loadErr = msg.err
		v.clampCursor()
		if msg.err != nil {
			return v, notifyErr(msg.err)
		}
		return v, nil

	case parentDoneMsg:
		delete(v.pending, msg.childID)
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
		return v, v.handleKey(msg)
	}
	return v, nil
}

func (v *parentView) handleKey(msg tea.KeyMsg) tea.Cmd {
	if v.loading {
		return nil
	}
	if v.ctrl.Success() != nil {
		if k := msg.String(); k == "enter" || k == " " || k == "space" {
			v.ctrl.DismissSuccess()
		}
		return nil
	}

	switch v.ctrl.State().Screen {
	case dashboard.ScreenList:
		return v.handleListKey(msg)
	case dashboard.ScreenCheckIn:
		return v.handleCheckInKey(msg)
	case dashboard.ScreenCalendar:
		var cmd tea.Cmd
		v.calendar, cmd = v.calendar.Update(msg)
		return cmd
	case dashboard.ScreenProfile:
		switch msg.String() {
		case "e":
			return v.startProfileForm()
		case "w":
			return v.startPasswordForm()
		case "d":
			return v.startDetailsForm()
		}
	}
	return nil
}

func (v *parentView) handleListKey(msg tea.KeyMsg) tea.Cmd {
	children := v.ctrl.Children()
	switch msg.String() {
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
		return nil
	case "down", "j":
		if v.cursor < len(children)-1 {
			v.cursor++
		}
		return nil
	case "K":
		return v.screen(v.ctrl.OpenCalendar())
	case "p":
		return v.screen(v.ctrl.OpenProfile())
	case "r":
		return v.load()
	case "x":
		return v.logout()
	}

	if len(children) == 0 {
		return nil
	}
	c := children[v.cursor]
	switch msg.String() {
	case "enter":
		return v.screen(v.ctrl.OpenInfo(c.ID))
	case "c":
		v.activity = 0
		return v.screen(v.ctrl.OpenCheckIn(c.ID))
	case "t", " ", "space":
		if v.pending[c.ID] {
			return notifyErr(dashboard.ErrMutationInFlight)
		}
		ctrl, ctx := v.ctrl, v.state.Ctx
		return v.run(c.ID, "", func() error { return ctrl.ToggleCheckStatus(ctx, c.ID) })
	}
	return nil
}

func (v *parentView) handleCheckInKey(msg tea.KeyMsg) tea.Cmd {
	c, ok := v.ctrl.ActiveChild()
	if !ok {
		return nil
	}
	activities := c.VisibleActivities()
	switch msg.String() {
	case "up", "k":
		if v.activity > 0 {
			v.activity--
		}
	case "down", "j":
		if v.activity < len(activities)-1 {
			v.activity++
		}
	case "o":
		if len(activities) > 0 {
			return v.screen(v.ctrl.OpenActivity(activities[v.activity].ID))
		}
	case "K":
		return v.screen(v.ctrl.OpenCalendar())
	case "enter":
		if v.pending[c.ID] {
			return notifyErr(dashboard.ErrMutationInFlight)
		}
		return v.startCheckInForm(c)
	}
	return nil
}

// screen reports a refused transition; a successful one just re-renders.
func (v *parentView) screen(err error) tea.Cmd {
	if err != nil {
		return notifyErr(err)
	}
	if v.ctrl.State().Screen == dashboard.ScreenCalendar {
		v.calendar.SetContent(formatter.FormatCalendar(v.ctrl.Events(), v.ctrl.Today(), v.state.App.Prefs.Language()))
		v.calendar.GotoTop()
	}
	return nil
}

func (v *parentView) logout() tea.Cmd {
	v.ctrl.Close()
	v.state.SignOut()
	return resetViews(newWelcomeView(v.state))
}

// Back implements backHandler: Esc walks the dashboard's own screens.
func (v *parentView) Back() (bool, tea.Cmd) {
	if v.ctrl.Success() != nil {
		v.ctrl.DismissSuccess()
		return true, nil
	}
	if v.ctrl.State().Screen == dashboard.ScreenList {
		return false, nil
	}
	return true, v.screen(v.ctrl.Back())
}

func (v *parentView) clampCursor() {
	n := len(v.ctrl.Children())
	if v.cursor >= n {
		v.cursor = max(n-1, 0)
	}
}

// ── Rendering ────────────────────────────────────────────────────────────────

func (v *parentView) View() string {
	if v.loading && len(v.ctrl.Children()) == 0 {
		return formatter.Dim("Henter barna dine …")
	}
	if s := v.ctrl.Success(); s != nil {
		return formatter.FormatCheckInSuccess(s.ChildName, s.Department, s.Time) + "\n" + formatter.Dim("enter: lukk")
	}

	lang := v.state.App.Prefs.Language()
	today := v.ctrl.Today()
	switch v.ctrl.State().Screen {
	case dashboard.ScreenInfo:
		c, ok := v.ctrl.ActiveChild()
		if !ok {
			return ""
		}
		return formatter.FormatChildInfo(c, today, lang)
	case dashboard.ScreenCheckIn:
		return v.renderCheckIn()
	case dashboard.ScreenGallery:
		return v.renderGallery()
	case dashboard.ScreenCalendar:
		return formatter.Header("Kalender") + "\n" + v.calendar.View()
	case dashboard.ScreenProfile:
		return v.renderProfile()
	default:
		return v.renderList()
	}
}

func (v *parentView) renderList() string {
	var b strings.Builder
	b.WriteString(formatter.Header("Mine barn"))
	b.WriteString("\n")
	if v.loadErr != nil {
		b.WriteString(formatter.Error(errorText(v.loadErr)))
		return b.String()
	}
	children := v.ctrl.Children()
	if len(children) == 0 {
		b.WriteString(formatter.Dim("Ingen barn er knyttet til kontoen."))
		return b.String()
	}
	rows := make([][]string, 0, len(children))
	for i, c := range children {
		marker := " "
		if i == v.cursor {
			marker = formatter.StyleAccent.Render("›")
		}
		note := c.Note
		if v.pending[c.ID] {
			note = formatter.Dim("Registrerer …")
		}
		pickup := ""
		if p, ok := derive.NextPickupPlan(c.PickupPlans, v.ctrl.Today()); ok {
			pickup = derive.PickupLabel(p)
		}
		rows = append(rows, []string{marker, formatter.Bold(c.Name), c.Department, formatter.StatusBadge(c.Status), note, pickup})
	}
	b.WriteString(formatter.RenderTable([]string{"", "NAVN", "AVDELING", "STATUS", "SIST", "HENTING"}, rows))
	return b.String()
}

func (v *parentView) renderCheckIn() string {
	c, ok := v.ctrl.ActiveChild()
	if !ok {
		return ""
	}
	lang := v.state.App.Prefs.Language()
	today := v.ctrl.Today()

	var b strings.Builder
	b.WriteString(formatter.Header("Innsjekk for " + c.Name))
	b.WriteString("\n")
	b.WriteString(formatter.StatusBadge(c.Status) + "  " + c.Note + "\n\n")

	upcoming := derive.UpcomingEvents(v.ctrl.Events(), today, 3)
	b.WriteString(formatter.FormatEvents("Neste hendelser", upcoming, today, lang, "Ingen kommende hendelser."))
	b.WriteString("\n\n")

	b.WriteString(formatter.Header("Aktiviteter"))
	b.WriteString("\n")
	for i, a := range c.VisibleActivities() {
		prefix := "  "
		if i == v.activity {
			prefix = formatter.StyleAccent.Render("› ")
		}
		b.WriteString(prefix + a.Label + "\n")
	}
	b.WriteString("\n")
	b.WriteString(formatter.Dim("enter: registrer dagen  o: åpne aktivitet  K: kalender"))
	return b.String()
}

func (v *parentView) renderGallery() string {
	a, ok := v.ctrl.ActiveActivity()
	if !ok {
		return ""
	}
	var b strings.Builder
	b.WriteString(formatter.Header(a.Label))
	b.WriteString("\n")
	if len(a.Photos) == 0 {
		b.WriteString(formatter.Dim("Ingen bilder ennå."))
		return b.String()
	}
	for i, p := range a.Photos {
		fmt.Fprintf(&b, "%s %s\n", formatter.Dim(fmt.Sprintf("%2d.", i+1)), p)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func (v *parentView) renderProfile() string {
	p := v.ctrl.Profile()
	body := fmt.Sprintf("%s\n%s\n%s",
		formatter.Bold(p.Name),
		domain.CoalesceStr(p.Email, formatter.EmptyCell),
		domain.CoalesceStr(p.Phone, formatter.EmptyCell))

	var b strings.Builder
	b.WriteString(formatter.RenderBox("Min profil", body))
	b.WriteString("\n\n")
	b.WriteString(formatter.Header("Barn"))
	b.WriteString("\n")
	rows := [][]string{}
	for _, c := range v.ctrl.Children() {
		rows = append(rows, []string{c.Name, c.Allergies, c.Medications, c.OtherInfo})
	}
	b.WriteString(formatter.RenderTable([]string{"NAVN", "ALLERGIER", "MEDISINER", "ANNET"}, rows))
	b.WriteString("\n\n")
	b.WriteString(formatter.Dim("e: rediger profil  w: bytt passord  d: rediger barn"))
	return b.String()
}

func (v *parentView) ID() ViewID { return ViewParent }

func (v *parentView) Title() string {
	switch v.ctrl.State().Screen {
	case dashboard.ScreenInfo:
		return "Info"
	case dashboard.ScreenCheckIn:
		return "Innsjekk"
	case dashboard.ScreenGallery:
		return "Galleri"
	case dashboard.ScreenCalendar:
		return "Kalender"
	case dashboard.ScreenProfile:
		return "Profil"
	}
	return "Oversikt"
}

func (v *parentView) ShortHelp() []key.Binding {
	if v.ctrl.State().Screen != dashboard.ScreenList {
		return []key.Binding{key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "tilbake"))}
	}
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "info")),
		key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "sjekk inn")),
		key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "inn/ut")),
		key.NewBinding(key.WithKeys("K"), key.WithHelp("K", "kalender")),
		key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "profil")),
		key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "oppdater")),
		key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "logg ut")),
	}
}
