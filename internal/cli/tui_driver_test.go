package cli

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/trygginn/trygginn/internal/db"
	"github.com/trygginn/trygginn/internal/domain"
	"github.com/trygginn/trygginn/internal/prefs"
	"github.com/trygginn/trygginn/internal/repository"
	"github.com/trygginn/trygginn/internal/teatest"
	"github.com/trygginn/trygginn/internal/testutil"
)

// testNow is a Monday morning; every fixture is relative to it.
var testNow = time.Date(2025, 3, 10, 8, 15, 0, 0, time.Local)

// fixture is a seeded fake backend with one daycare, a guardian with two
// children and a staff member.
type fixture struct {
	backend *testutil.FakeBackend
	app     *App

	daycareID int64
	blabaer   int64
	orn       int64
	parentID  int64
	staffID   int64
	emma      int64
	noah      int64
}

const (
	testCode     = "SOL123"
	parentEmail  = "kari@example.no"
	staffEmail   = "ola@example.no"
	testPassword = "hemmelig"
)

func newFixture(t *testing.T) *fixture {
	t.Helper()
	b := testutil.NewFakeBackend(t)
	b.Now = func() time.Time { return testNow }

	f := &fixture{backend: b}
	f.daycareID = b.AddDaycare("Solsikken barnehage")
	b.AddAccessCode(testCode, f.daycareID)
	f.blabaer = b.AddGroup(f.daycareID, "Blåbær")
	f.orn = b.AddGroup(f.daycareID, "Ørn")
	f.parentID = b.AddUser(testutil.FakeUser{FullName: "Kari Berg", Email: parentEmail, Password: testPassword, Role: domain.RoleParent})
	f.staffID = b.AddUser(testutil.FakeUser{FullName: "Ola Nordmann", Email: staffEmail, Password: testPassword, Role: domain.RoleStaff})
	f.emma = b.AddChild(testutil.FakeChild{FirstName: "Emma", LastName: "Berg", GroupID: f.blabaer, GuardianID: f.parentID})
	f.noah = b.AddChild(testutil.FakeChild{FirstName: "Noah", LastName: "Berg", GroupID: f.orn, GuardianID: f.parentID})
	b.AddAttendance(f.emma, domain.AttendanceIn, testNow.Add(-30*time.Minute))
	b.AddEvent(f.daycareID, nil, "Foreldremøte", testNow.Add(48*time.Hour))

	f.app = testApp(t, b)
	return f
}

// testApp wires an App against backend with preferences in an
// in-memory database and a fixed clock.
func testApp(t *testing.T, backend *testutil.FakeBackend) *App {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	store, err := prefs.Open(context.Background(), repository.NewSQLitePreferenceRepo(database), nil)
	require.NoError(t, err)

	cfg := backend.Config()
	return &App{
		Config:     cfg,
		API:        backend.Client(),
		Prefs:      store,
		Now:        func() time.Time { return testNow },
		SystemDark: func() bool { return false },
	}
}

// TestDriver wraps teatest.Driver with access to the appModel's view
// stack and shared state.
type TestDriver struct {
	*teatest.Driver
}

// NewTestDriver builds the appModel for app at 120x40 and drains Init.
func NewTestDriver(t *testing.T, app *App) *TestDriver {
	t.Helper()
	m := newAppModel(context.Background(), app)
	d := teatest.New(t, m, teatest.WithSize(120, 40))
	d.DrainInit()
	return &TestDriver{Driver: d}
}

// ── High-level helpers ───────────────────────────────────────────────────────

// EnterCode types an access code and waits for the welcome screen.
func (d *TestDriver) EnterCode(code string) {
	d.T.Helper()
	d.Type(code)
	d.PressEnter()
	d.WaitForActive(ViewWelcome)
}

// Login fills in the login form from the welcome screen. The dashboard
// loads in the background; callers wait for what they need.
func (d *TestDriver) Login(email, password string) {
	d.T.Helper()
	d.PressKey('l')
	d.Type(email)
	d.PressEnter()
	d.Type(password)
	d.PressEnter()
}

// ── Inspection ───────────────────────────────────────────────────────────────

func (d *TestDriver) appModel() appModel {
	return d.Model.(appModel)
}

// ActiveViewID returns the ViewID of the top view on the stack.
func (d *TestDriver) ActiveViewID() ViewID {
	v := d.appModel().activeView()
	if v == nil {
		return ViewID(-1)
	}
	return v.ID()
}

// ViewStackIDs returns the ViewIDs of all views on the stack, bottom to top.
func (d *TestDriver) ViewStackIDs() []ViewID {
	m := d.appModel()
	ids := make([]ViewID, len(m.viewStack))
	for i, v := range m.viewStack {
		ids[i] = v.ID()
	}
	return ids
}

// State returns the shared state for inspection.
func (d *TestDriver) State() *SharedState {
	return d.appModel().state
}

// IsQuitting reports whether the app asked to quit.
func (d *TestDriver) IsQuitting() bool {
	return d.appModel().quitting || d.Quitting
}

// WaitForActive waits until the top view has id.
func (d *TestDriver) WaitForActive(id ViewID) {
	d.T.Helper()
	if !d.WaitFor(func(m tea.Model) bool {
		v := m.(appModel).activeView()
		return v != nil && v.ID() == id
	}) {
		d.T.Fatalf("active view never became %d; stack %v\n%s", id, d.ViewStackIDs(), d.View())
	}
}
