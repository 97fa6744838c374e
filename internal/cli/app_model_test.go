package cli

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trygginn/trygginn/internal/dashboard"
	"github.com/trygginn/trygginn/internal/domain"
)

type stubView struct {
	id         ViewID
	title      string
	viewText   string
	shortHelp  []key.Binding
	initCmd    tea.Cmd
	updateSeen []tea.Msg
	backed     bool
	closed     bool
}

func (v *stubView) Init() tea.Cmd { return v.initCmd }

func (v *stubView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	v.updateSeen = append(v.updateSeen, msg)
	return v, nil
}

func (v *stubView) View() string             { return v.viewText }
func (v *stubView) ID() ViewID               { return v.id }
func (v *stubView) ShortHelp() []key.Binding { return v.shortHelp }
func (v *stubView) Title() string            { return v.title }
func (v *stubView) close()                   { v.closed = true }

func newStubView(id ViewID, title, text string) *stubView {
	return &stubView{id: id, title: title, viewText: text}
}

// backStub handles Esc once, like a dashboard leaving a sub-screen.
type backStub struct {
	*stubView
}

func (v backStub) Back() (bool, tea.Cmd) {
	if v.backed {
		return false, nil
	}
	v.backed = true
	return true, nil
}

func newTestModel(t *testing.T) appModel {
	t.Helper()
	return newAppModel(context.Background(), newFixture(t).app)
}

func update(t *testing.T, m appModel, msg tea.Msg) (appModel, tea.Cmd) {
	t.Helper()
	model, cmd := m.Update(msg)
	return model.(appModel), cmd
}

func TestNewAppModelStartsAtAccessCode(t *testing.T) {
	m := newTestModel(t)

	require.Len(t, m.viewStack, 1)
	assert.Equal(t, ViewAccessCode, m.activeView().ID())
	assert.Nil(t, m.state.Daycare)
	assert.Nil(t, m.state.Session)
}

func TestAppModel_NavigationMessages(t *testing.T) {
	m := newTestModel(t)
	v2 := newStubView(ViewWelcome, "Velkommen", "welcome view")
	v3 := newStubView(ViewParent, "Oversikt", "parent view")

	m, cmd := update(t, m, pushViewMsg{view: v2})
	assert.Nil(t, cmd)
	require.Len(t, m.viewStack, 2)
	assert.Equal(t, v2, m.activeView())

	m, _ = update(t, m, resetViewsMsg{views: []View{v3}})
	require.Len(t, m.viewStack, 1)
	assert.Equal(t, v3, m.activeView())
}

func TestAppModel_WizardCompletePopsAndRunsNext(t *testing.T) {
	m := newTestModel(t)
	base := newStubView(ViewParent, "Oversikt", "parent")
	form := newStubView(ViewForm, "Skjema", "form")
	m, _ = update(t, m, resetViewsMsg{views: []View{base}})
	m, _ = update(t, m, pushViewMsg{view: form})

	ran := false
	next := func() tea.Msg { ran = true; return nil }
	m, cmd := update(t, m, wizardCompleteMsg{nextCmd: next})

	require.Len(t, m.viewStack, 1)
	assert.Equal(t, base, m.activeView())
	require.NotNil(t, cmd)
	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok)
	for _, c := range batch {
		if c != nil {
			c()
		}
	}
	assert.True(t, ran)
}

func TestAppModel_BroadcastsBackgroundResults(t *testing.T) {
	m := newTestModel(t)
	bottom := newStubView(ViewParent, "Oversikt", "parent")
	top := newStubView(ViewForm, "Skjema", "form")
	m, _ = update(t, m, resetViewsMsg{views: []View{bottom, top}})

	msg := parentDoneMsg{childID: 7}
	update(t, m, msg)

	assert.Contains(t, bottom.updateSeen, tea.Msg(msg))
	assert.Contains(t, top.updateSeen, tea.Msg(msg))
}

func TestAppModel_KeysGoOnlyToActiveView(t *testing.T) {
	m := newTestModel(t)
	bottom := newStubView(ViewParent, "Oversikt", "parent")
	top := newStubView(ViewStaff, "Avdelinger", "staff")
	m, _ = update(t, m, resetViewsMsg{views: []View{bottom, top}})

	update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})

	assert.Empty(t, bottom.updateSeen)
	assert.Len(t, top.updateSeen, 1)
}

func TestAppModel_EscPrefersBackHandler(t *testing.T) {
	m := newTestModel(t)
	base := newStubView(ViewWelcome, "", "welcome")
	dash := backStub{newStubView(ViewParent, "Info", "parent")}
	m, _ = update(t, m, resetViewsMsg{views: []View{base, dash}})

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	require.Len(t, m.viewStack, 2, "first Esc leaves the sub-screen")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	require.Len(t, m.viewStack, 1, "second Esc pops the view")
	assert.Equal(t, ViewWelcome, m.activeView().ID())
}

func TestAppModel_FormsCaptureQ(t *testing.T) {
	m := newTestModel(t)
	form := newStubView(ViewForm, "Skjema", "form")
	m, _ = update(t, m, resetViewsMsg{views: []View{form}})

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})

	assert.False(t, m.quitting)
	assert.Nil(t, cmd)
	assert.Len(t, form.updateSeen, 1)
}

func TestAppModel_QuitClosesViews(t *testing.T) {
	m := newTestModel(t)
	dash := newStubView(ViewParent, "Oversikt", "parent")
	m, _ = update(t, m, resetViewsMsg{views: []View{dash}})

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})

	assert.True(t, m.quitting)
	assert.True(t, dash.closed)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, m.View())
}

func TestAppModel_NoticeRenderedAndDismissed(t *testing.T) {
	m := newTestModel(t)
	dash := newStubView(ViewParent, "Oversikt", "parent")
	m, _ = update(t, m, resetViewsMsg{views: []View{dash}})

	m, _ = update(t, m, notifyErr(dashboard.ErrMutationInFlight)())
	assert.True(t, m.state.NoticeErr)
	assert.Contains(t, m.View(), "En registrering for barnet pågår allerede.")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	assert.Empty(t, m.state.Notice)
	assert.Empty(t, dash.updateSeen, "the dismissing key is swallowed")
}

func TestAppModel_HeaderShowsDaycareUserAndBreadcrumbs(t *testing.T) {
	m := newTestModel(t)
	m.state.Daycare = &Daycare{ID: 1, Name: "Solsikken barnehage"}
	m.state.SignIn(domain.Session{UserID: 2, UserName: "Kari Berg", Role: domain.RoleParent})
	dash := newStubView(ViewParent, "Oversikt", "parent")
	form := newStubView(ViewForm, "Registrer dagen", "form")
	form.shortHelp = []key.Binding{key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "neste"))}
	m, _ = update(t, m, resetViewsMsg{views: []View{dash, form}})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})

	view := m.View()
	assert.Contains(t, view, "Solsikken barnehage")
	assert.Contains(t, view, "Oversikt › Registrer dagen")
	assert.Contains(t, view, "Kari Berg")
	assert.Contains(t, view, "enter: neste")
	assert.Contains(t, view, "esc: tilbake")
	assert.Equal(t, 30, strings.Count(view, "\n")+1, "padded to the terminal height")
	assert.Equal(t, int64(1), m.state.Session.DaycareID)
}

func TestErrorText(t *testing.T) {
	assert.Equal(t, "", errorText(nil))
	assert.Equal(t, "Det er ikke mulig herfra.", errorText(dashboard.ErrInvalidTransition))
	assert.Equal(t, "Fant ikke barnet.", errorText(dashboard.ErrUnknownChild))
	assert.NotEmpty(t, errorText(errors.New("dial tcp: connection refused")))
}
