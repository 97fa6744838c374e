package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/trygginn/trygginn/internal/api"
	"github.com/trygginn/trygginn/internal/config"
	"github.com/trygginn/trygginn/internal/domain"
)

// FakeUser is a backend account.
type FakeUser struct {
	ID       int64
	FullName string
	Email    string
	Phone    string
	Password string
	Role     domain.Role
}

// FakeChild is a backend child record.
type FakeChild struct {
	ID           int64
	FirstName    string
	LastName     string
	DateOfBirth  string
	GroupID      int64
	GuardianID   int64
	Allergies    string
	Medications  string
	FavoriteFood string
	Note         string
}

// FakeGroup is a department inside a daycare.
type FakeGroup struct {
	ID        int64
	DaycareID int64
	Name      string
}

// FakeAttendance is one stored IN/OUT registration.
type FakeAttendance struct {
	ChildID int64
	UserID  int64
	Type    domain.AttendanceType
	Time    time.Time
	Note    string
}

type failure struct {
	status  int
	message string
}

// FakeBackend is an in-memory implementation of the kindergarten REST API
// served over httptest. Tests seed it, point an api.Client at it and
// inspect what the client sent.
type FakeBackend struct {
	Server *httptest.Server
	// Now stamps attendance registrations.
	Now func() time.Time

	mu          sync.Mutex
	nextID      int64
	users       map[int64]*FakeUser
	children    map[int64]*FakeChild
	groups      map[int64]*FakeGroup
	daycares    map[int64]string
	accessCodes map[string]int64
	events      map[int64]*api.CalendarEvent
	attendance  []FakeAttendance
	absences    []api.AbsenceRequest
	vacations   []api.VacationRequest
	calls       map[string]int
	failures    map[string]failure
	holds       map[string]chan struct{}
}

// NewFakeBackend starts a fake backend that is shut down with the test.
func NewFakeBackend(t *testing.T) *FakeBackend {
	t.Helper()
	b := &FakeBackend{
		Now:         time.Now,
		nextID:      100,
		users:       map[int64]*FakeUser{},
		children:    map[int64]*FakeChild{},
		groups:      map[int64]*FakeGroup{},
		daycares:    map[int64]string{},
		accessCodes: map[string]int64{},
		events:      map[int64]*api.CalendarEvent{},
		calls:       map[string]int{},
		failures:    map[string]failure{},
		holds:       map[string]chan struct{}{},
	}
	b.Server = httptest.NewServer(b.routes())
	t.Cleanup(func() {
		b.mu.Lock()
		for key, ch := range b.holds {
			close(ch)
			delete(b.holds, key)
		}
		b.mu.Unlock()
		b.Server.Close()
	})
	return b
}

// Config returns a client configuration aimed at the fake.
func (b *FakeBackend) Config() config.Config {
	cfg := config.DefaultConfig()
	cfg.APIBaseURL = b.Server.URL + "/api"
	cfg.RequestTimeout = 5 * time.Second
	return cfg
}

// Client returns an api.Client talking to the fake.
func (b *FakeBackend) Client() *api.Client {
	return api.New(b.Config(), api.NoopObserver{})
}

func (b *FakeBackend) id() int64 {
	b.nextID++
	return b.nextID
}

// AddDaycare registers a daycare and returns its ID.
func (b *FakeBackend) AddDaycare(name string) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.id()
	b.daycares[id] = name
	return id
}

// AddAccessCode makes code redeemable for daycareID.
func (b *FakeBackend) AddAccessCode(code string, daycareID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.accessCodes[code] = daycareID
}

// AddUser stores u and returns its ID.
func (b *FakeBackend) AddUser(u FakeUser) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	if u.ID == 0 {
		u.ID = b.id()
	}
	if u.Role == "" {
		u.Role = domain.RoleParent
	}
	b.users[u.ID] = &u
	return u.ID
}

// AddGroup creates a department and returns its ID.
func (b *FakeBackend) AddGroup(daycareID int64, name string) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.id()
	b.groups[id] = &FakeGroup{ID: id, DaycareID: daycareID, Name: name}
	return id
}

// AddChild stores c and returns its ID.
func (b *FakeBackend) AddChild(c FakeChild) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	if c.ID == 0 {
		c.ID = b.id()
	}
	b.children[c.ID] = &c
	return c.ID
}

// AddAttendance seeds an attendance event.
func (b *FakeBackend) AddAttendance(childID int64, typ domain.AttendanceType, at time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.attendance = append(b.attendance, FakeAttendance{ChildID: childID, Type: typ, Time: at})
}

// AddEvent seeds a calendar event and returns its ID.
func (b *FakeBackend) AddEvent(daycareID int64, groupID *int64, title string, start time.Time) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.id()
	ev := &api.CalendarEvent{ID: id, Title: title, StartTime: api.NewTimestamp(start), DaycareID: daycareID, DaycareGroupID: groupID}
	if groupID != nil {
		if g, ok := b.groups[*groupID]; ok {
			name := g.Name
			ev.DaycareGroupName = &name
		}
	}
	b.events[id] = ev
	return id
}

// FailNext makes the next call matching method and chi route pattern
// (e.g. "/api/attendance") fail with status and an optional message.
func (b *FakeBackend) FailNext(method, pattern string, status int, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[method+" "+pattern] = failure{status: status, message: message}
}

// Hold blocks calls matching method and pattern until the returned
// release func is called.
func (b *FakeBackend) Hold(method, pattern string) (release func()) {
	ch := make(chan struct{})
	key := method + " " + pattern
	b.mu.Lock()
	b.holds[key] = ch
	b.mu.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			if b.holds[key] == ch {
				delete(b.holds, key)
			}
			b.mu.Unlock()
			close(ch)
		})
	}
}

// Calls reports how many requests hit method and pattern.
func (b *FakeBackend) Calls(method, pattern string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[method+" "+pattern]
}

// Attendance returns every stored registration for childID.
func (b *FakeBackend) Attendance(childID int64) []FakeAttendance {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []FakeAttendance
	for _, a := range b.attendance {
		if a.ChildID == childID {
			out = append(out, a)
		}
	}
	return out
}

// Absences returns every absence request received.
func (b *FakeBackend) Absences() []api.AbsenceRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]api.AbsenceRequest(nil), b.absences...)
}

// Vacations returns every vacation request received.
func (b *FakeBackend) Vacations() []api.VacationRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]api.VacationRequest(nil), b.vacations...)
}

// Child returns a copy of the stored child.
func (b *FakeBackend) Child(id int64) (FakeChild, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c, ok := b.children[id]
	if !ok {
		return FakeChild{}, false
	}
	return *c, true
}

// User returns a copy of the stored user.
func (b *FakeBackend) User(id int64) (FakeUser, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	u, ok := b.users[id]
	if !ok {
		return FakeUser{}, false
	}
	return *u, true
}

// Event returns a copy of the stored calendar event.
func (b *FakeBackend) Event(id int64) (api.CalendarEvent, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ev, ok := b.events[id]
	if !ok {
		return api.CalendarEvent{}, false
	}
	return *ev, true
}

func (b *FakeBackend) routes() http.Handler {
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", b.wrap(b.login))
		r.Post("/auth/register", b.wrap(b.register))

		r.Get("/users/by-email", b.wrap(b.userByEmail))
		r.Get("/users/{id}", b.wrap(b.getUser))
		r.Put("/users/{id}", b.wrap(b.updateUser))
		r.Put("/users/{id}/password", b.wrap(b.changePassword))

		r.Post("/access-codes/use", b.wrap(b.useAccessCode))
		r.Post("/access-codes", b.wrap(b.createAccessCode))

		r.Get("/children/guardian/{id}", b.wrap(b.childrenForGuardian))
		r.Post("/children", b.wrap(b.createChild))
		r.Get("/children/{id}/details", b.wrap(b.childDetails))
		r.Put("/children/{id}/details", b.wrap(b.updateChildDetails))
		r.Get("/children/{id}/note", b.wrap(b.childNote))
		r.Put("/children/{id}/note", b.wrap(b.updateChildNote))

		r.Get("/attendance/child/{id}/latest", b.wrap(b.latestAttendance))
		r.Post("/attendance", b.wrap(b.registerAttendance))
		r.Post("/absence", b.wrap(b.registerAbsence))
		r.Get("/absence/child/{id}", b.wrap(b.absencesForChild))
		r.Post("/vacation", b.wrap(b.registerVacation))
		r.Get("/vacation/child/{id}", b.wrap(b.vacationsForChild))

		r.Get("/daycare-groups/daycare/{id}", b.wrap(b.groupsForDaycare))

		r.Get("/calendar-events/daycare/{id}", b.wrap(b.eventsForDaycare))
		r.Get("/calendar-events/guardian/{id}", b.wrap(b.eventsForGuardian))
		r.Post("/calendar-events", b.wrap(b.createEvent))
		r.Put("/calendar-events/{id}", b.wrap(b.updateEvent))
		r.Delete("/calendar-events/{id}", b.wrap(b.deleteEvent))
	})
	return r
}

// wrap counts the call, applies holds and injected failures, then runs h
// with the backend lock held.
func (b *FakeBackend) wrap(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + chi.RouteContext(r.Context()).RoutePattern()

		b.mu.Lock()
		b.calls[key]++
		hold := b.holds[key]
		b.mu.Unlock()

		if hold != nil {
			select {
			case <-hold:
			case <-r.Context().Done():
				return
			}
		}

		b.mu.Lock()
		defer b.mu.Unlock()
		if f, ok := b.failures[key]; ok {
			delete(b.failures, key)
			if f.message == "" {
				w.WriteHeader(f.status)
				return
			}
			writeJSON(w, f.status, map[string]string{"message": f.message})
			return
		}
		h(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeMessage(w, http.StatusBadRequest, "Ugyldig forespørsel")
		return false
	}
	return true
}

func (b *FakeBackend) login(w http.ResponseWriter, r *http.Request) {
	var req struct{ Email, Password string }
	if !decode(w, r, &req) {
		return
	}
	for _, u := range b.users {
		if u.Email == req.Email && u.Password == req.Password {
			writeJSON(w, http.StatusOK, api.LoginResponse{UserID: u.ID, FullName: u.FullName, Email: u.Email, Role: u.Role})
			return
		}
	}
	writeMessage(w, http.StatusUnauthorized, "Feil e-post eller passord")
}

func (b *FakeBackend) register(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterRequest
	if !decode(w, r, &req) {
		return
	}
	for _, u := range b.users {
		if u.Email == req.Email {
			writeMessage(w, http.StatusBadRequest, "E-post er allerede registrert")
			return
		}
	}
	u := &FakeUser{ID: b.id(), FullName: req.FullName, Email: req.Email, Password: req.Password, Role: domain.RoleParent}
	if req.PhoneNumber != nil {
		u.Phone = *req.PhoneNumber
	}
	b.users[u.ID] = u
	writeJSON(w, http.StatusOK, api.RegisterResponse{UserID: u.ID, FullName: u.FullName, Email: u.Email, Role: u.Role, Message: "Bruker opprettet"})
}

func profileOf(u *FakeUser) api.UserProfile {
	return api.UserProfile{ID: u.ID, FullName: u.FullName, Email: u.Email, PhoneNumber: u.Phone, Role: u.Role}
}

func (b *FakeBackend) getUser(w http.ResponseWriter, r *http.Request) {
	u, ok := b.users[pathID(r)]
	if !ok {
		writeMessage(w, http.StatusNotFound, "Fant ikke bruker")
		return
	}
	writeJSON(w, http.StatusOK, profileOf(u))
}

func (b *FakeBackend) updateUser(w http.ResponseWriter, r *http.Request) {
	u, ok := b.users[pathID(r)]
	if !ok {
		writeMessage(w, http.StatusNotFound, "Fant ikke bruker")
		return
	}
	var req api.UpdateUserRequest
	if !decode(w, r, &req) {
		return
	}
	u.FullName = req.FullName
	if req.Email != nil {
		u.Email = *req.Email
	}
	if req.PhoneNumber != nil {
		u.Phone = *req.PhoneNumber
	}
	writeJSON(w, http.StatusOK, profileOf(u))
}

func (b *FakeBackend) changePassword(w http.ResponseWriter, r *http.Request) {
	u, ok := b.users[pathID(r)]
	if !ok {
		writeMessage(w, http.StatusNotFound, "Fant ikke bruker")
		return
	}
	var req struct{ CurrentPassword, NewPassword string }
	if !decode(w, r, &req) {
		return
	}
	if req.CurrentPassword != "" && req.CurrentPassword != u.Password {
		writeMessage(w, http.StatusBadRequest, "Nåværende passord er feil")
		return
	}
	u.Password = req.NewPassword
	w.WriteHeader(http.StatusNoContent)
}

func (b *FakeBackend) userByEmail(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	for _, u := range b.users {
		if u.Email == email {
			writeJSON(w, http.StatusOK, profileOf(u))
			return
		}
	}
	writeMessage(w, http.StatusNotFound, "Fant ingen bruker med e-post "+email)
}

func (b *FakeBackend) useAccessCode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code           string
		GuardianUserID *int64
	}
	if !decode(w, r, &req) {
		return
	}
	daycareID, ok := b.accessCodes[req.Code]
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Ugyldig tilgangskode")
		return
	}
	msg := "Tilgangskoden er gyldig"
	if req.GuardianUserID != nil {
		msg = "Tilgangskoden er registrert"
	}
	writeJSON(w, http.StatusOK, api.UseAccessCodeResponse{DaycareID: daycareID, DaycareName: b.daycares[daycareID], Message: msg})
}

func (b *FakeBackend) createAccessCode(w http.ResponseWriter, r *http.Request) {
	var req api.CreateAccessCodeRequest
	if !decode(w, r, &req) {
		return
	}
	code := fmt.Sprintf("BH%d", b.id())
	b.accessCodes[code] = req.DaycareID
	maxUses := 1
	if req.MaxUses != nil {
		maxUses = *req.MaxUses
	}
	out := api.AccessCode{Code: code, DaycareID: req.DaycareID, MaxUses: maxUses, Active: true}
	if req.ExpiresAt != nil {
		out.ExpiresAt = *req.ExpiresAt
	}
	writeJSON(w, http.StatusOK, out)
}

func (b *FakeBackend) summaryOf(c *FakeChild) api.ChildSummary {
	s := api.ChildSummary{ID: c.ID, FirstName: c.FirstName, LastName: c.LastName, DateOfBirth: c.DateOfBirth, Active: true}
	if g, ok := b.groups[c.GroupID]; ok {
		gid, gname, did := g.ID, g.Name, g.DaycareID
		s.DaycareGroupID, s.DaycareGroupName, s.DaycareID = &gid, &gname, &did
		if name, ok := b.daycares[did]; ok {
			s.DaycareName = &name
		}
	}
	return s
}

func (b *FakeBackend) sortedChildren() []*FakeChild {
	out := make([]*FakeChild, 0, len(b.children))
	for _, c := range b.children {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (b *FakeBackend) childrenForGuardian(w http.ResponseWriter, r *http.Request) {
	guardian := pathID(r)
	out := []api.ChildSummary{}
	for _, c := range b.sortedChildren() {
		if c.GuardianID == guardian {
			out = append(out, b.summaryOf(c))
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (b *FakeBackend) createChild(w http.ResponseWriter, r *http.Request) {
	var req api.CreateChildRequest
	if !decode(w, r, &req) {
		return
	}
	if _, ok := b.users[req.GuardianUserID]; !ok {
		writeMessage(w, http.StatusBadRequest, "Fant ikke foresatt")
		return
	}
	if _, ok := b.groups[req.DaycareGroupID]; !ok {
		writeMessage(w, http.StatusBadRequest, "Fant ikke avdeling")
		return
	}
	c := &FakeChild{ID: b.id(), FirstName: req.FirstName, LastName: req.LastName, DateOfBirth: req.DateOfBirth, GroupID: req.DaycareGroupID, GuardianID: req.GuardianUserID}
	b.children[c.ID] = c
	writeJSON(w, http.StatusOK, b.summaryOf(c))
}

func (b *FakeBackend) childOr404(w http.ResponseWriter, r *http.Request) (*FakeChild, bool) {
	c, ok := b.children[pathID(r)]
	if !ok {
		writeMessage(w, http.StatusNotFound, "Fant ikke barn")
	}
	return c, ok
}

func detailsOf(c *FakeChild) api.ChildDetails {
	return api.ChildDetails{ID: c.ID, FirstName: c.FirstName, LastName: c.LastName, Allergies: c.Allergies, Medications: c.Medications, FavoriteFood: c.FavoriteFood}
}

func (b *FakeBackend) childDetails(w http.ResponseWriter, r *http.Request) {
	if c, ok := b.childOr404(w, r); ok {
		writeJSON(w, http.StatusOK, detailsOf(c))
	}
}

func (b *FakeBackend) updateChildDetails(w http.ResponseWriter, r *http.Request) {
	c, ok := b.childOr404(w, r)
	if !ok {
		return
	}
	var req api.UpdateChildDetailsRequest
	if !decode(w, r, &req) {
		return
	}
	c.Allergies, c.Medications, c.FavoriteFood = req.Allergies, req.Medications, req.FavoriteFood
	writeJSON(w, http.StatusOK, detailsOf(c))
}

func (b *FakeBackend) childNote(w http.ResponseWriter, r *http.Request) {
	if c, ok := b.childOr404(w, r); ok {
		writeJSON(w, http.StatusOK, api.ChildNote{ChildID: c.ID, ChildName: c.FirstName + " " + c.LastName, Note: c.Note})
	}
}

func (b *FakeBackend) updateChildNote(w http.ResponseWriter, r *http.Request) {
	c, ok := b.childOr404(w, r)
	if !ok {
		return
	}
	var req struct{ Note string }
	if !decode(w, r, &req) {
		return
	}
	c.Note = req.Note
	writeJSON(w, http.StatusOK, api.ChildNote{ChildID: c.ID, ChildName: c.FirstName + " " + c.LastName, Note: c.Note})
}

func (b *FakeBackend) latestAttendance(w http.ResponseWriter, r *http.Request) {
	c, ok := b.childOr404(w, r)
	if !ok {
		return
	}
	var latest *FakeAttendance
	for i := range b.attendance {
		a := &b.attendance[i]
		if a.ChildID == c.ID && (latest == nil || !a.Time.Before(latest.Time)) {
			latest = a
		}
	}
	if latest == nil {
		writeMessage(w, http.StatusNotFound, "Ingen registreringer for barnet")
		return
	}
	typ := latest.Type
	ts := api.NewTimestamp(latest.Time)
	text := "Ute"
	if typ == domain.AttendanceIn {
		text = "Inne"
	}
	writeJSON(w, http.StatusOK, api.ChildStatus{
		ChildID: c.ID, ChildName: c.FirstName + " " + c.LastName,
		LastEventType: &typ, LastEventTime: &ts, StatusText: text,
	})
}

func (b *FakeBackend) registerAttendance(w http.ResponseWriter, r *http.Request) {
	var req api.AttendanceRequest
	if !decode(w, r, &req) {
		return
	}
	if _, ok := b.children[req.ChildID]; !ok {
		writeMessage(w, http.StatusBadRequest, "Fant ikke barn")
		return
	}
	if req.EventType != domain.AttendanceIn && req.EventType != domain.AttendanceOut {
		writeMessage(w, http.StatusBadRequest, "Ugyldig hendelsestype")
		return
	}
	// The backend stores LocalDateTime, which has second precision.
	at := b.Now().Truncate(time.Second)
	b.attendance = append(b.attendance, FakeAttendance{ChildID: req.ChildID, UserID: req.PerformedByUserID, Type: req.EventType, Time: at, Note: req.Note})
	w.WriteHeader(http.StatusNoContent)
}

func (b *FakeBackend) registerAbsence(w http.ResponseWriter, r *http.Request) {
	var req api.AbsenceRequest
	if !decode(w, r, &req) {
		return
	}
	c, ok := b.children[req.ChildID]
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Fant ikke barn")
		return
	}
	date, err := time.ParseInLocation(domain.DateLayout, req.Date, time.Local)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Ugyldig dato")
		return
	}
	b.absences = append(b.absences, req)
	writeJSON(w, http.StatusOK, api.Absence{
		ID: b.id(), ChildID: c.ID, ChildName: c.FirstName + " " + c.LastName,
		Date: api.NewTimestamp(date), Reason: req.Reason, Note: req.Note, ReportedByUserID: req.ReportedByUserID,
	})
}

func (b *FakeBackend) absencesForChild(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	out := []api.Absence{}
	for i, a := range b.absences {
		if a.ChildID == id {
			date, _ := time.ParseInLocation(domain.DateLayout, a.Date, time.Local)
			out = append(out, api.Absence{ID: int64(i + 1), ChildID: id, Date: api.NewTimestamp(date), Reason: a.Reason, Note: a.Note, ReportedByUserID: a.ReportedByUserID})
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (b *FakeBackend) registerVacation(w http.ResponseWriter, r *http.Request) {
	var req api.VacationRequest
	if !decode(w, r, &req) {
		return
	}
	c, ok := b.children[req.ChildID]
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Fant ikke barn")
		return
	}
	from, err1 := time.ParseInLocation(domain.DateLayout, req.StartDate, time.Local)
	to, err2 := time.ParseInLocation(domain.DateLayout, req.EndDate, time.Local)
	if err1 != nil || err2 != nil || to.Before(from) {
		writeMessage(w, http.StatusBadRequest, "Ugyldig ferieperiode")
		return
	}
	b.vacations = append(b.vacations, req)
	writeJSON(w, http.StatusOK, api.Vacation{
		ID: b.id(), ChildID: c.ID, ChildName: c.FirstName + " " + c.LastName, ReportedByUserID: req.ReportedByUserID,
		StartDate: api.NewTimestamp(from), EndDate: api.NewTimestamp(to), Note: req.Note, CreatedAt: api.NewTimestamp(b.Now()),
	})
}

func (b *FakeBackend) vacationsForChild(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	out := []api.Vacation{}
	for i, v := range b.vacations {
		if v.ChildID == id {
			from, _ := time.ParseInLocation(domain.DateLayout, v.StartDate, time.Local)
			to, _ := time.ParseInLocation(domain.DateLayout, v.EndDate, time.Local)
			out = append(out, api.Vacation{ID: int64(i + 1), ChildID: id, StartDate: api.NewTimestamp(from), EndDate: api.NewTimestamp(to), Note: v.Note})
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (b *FakeBackend) groupsForDaycare(w http.ResponseWriter, r *http.Request) {
	daycare := pathID(r)
	var groups []*FakeGroup
	for _, g := range b.groups {
		if g.DaycareID == daycare {
			groups = append(groups, g)
		}
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].ID < groups[j].ID })

	out := []api.DaycareGroup{}
	for _, g := range groups {
		dg := api.DaycareGroup{ID: g.ID, Name: g.Name}
		for _, c := range b.sortedChildren() {
			if c.GroupID == g.ID {
				dg.Children = append(dg.Children, api.GroupChild{ID: c.ID, FirstName: c.FirstName, LastName: c.LastName})
			}
		}
		out = append(out, dg)
	}
	writeJSON(w, http.StatusOK, out)
}

func (b *FakeBackend) sortedEvents(keep func(*api.CalendarEvent) bool) []api.CalendarEvent {
	out := []api.CalendarEvent{}
	for _, ev := range b.events {
		if keep(ev) {
			out = append(out, *ev)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (b *FakeBackend) eventsForDaycare(w http.ResponseWriter, r *http.Request) {
	daycare := pathID(r)
	writeJSON(w, http.StatusOK, b.sortedEvents(func(ev *api.CalendarEvent) bool { return ev.DaycareID == daycare }))
}

func (b *FakeBackend) eventsForGuardian(w http.ResponseWriter, r *http.Request) {
	guardian := pathID(r)
	daycares := map[int64]bool{}
	for _, c := range b.children {
		if c.GuardianID != guardian {
			continue
		}
		if g, ok := b.groups[c.GroupID]; ok {
			daycares[g.DaycareID] = true
		}
	}
	writeJSON(w, http.StatusOK, b.sortedEvents(func(ev *api.CalendarEvent) bool { return daycares[ev.DaycareID] }))
}

func (b *FakeBackend) createEvent(w http.ResponseWriter, r *http.Request) {
	var req api.CreateEventRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Title == "" || req.StartTime.IsZero() {
		writeMessage(w, http.StatusBadRequest, "Tittel og starttid er påkrevd")
		return
	}
	ev := &api.CalendarEvent{
		ID: b.id(), Title: req.Title, Description: req.Description, Location: req.Location,
		StartTime: req.StartTime, EndTime: req.EndTime, DaycareID: req.DaycareID, DaycareGroupID: req.DaycareGroupID,
	}
	if req.DaycareGroupID != nil {
		if g, ok := b.groups[*req.DaycareGroupID]; ok {
			name := g.Name
			ev.DaycareGroupName = &name
		}
	}
	b.events[ev.ID] = ev
	writeJSON(w, http.StatusOK, ev)
}

func (b *FakeBackend) updateEvent(w http.ResponseWriter, r *http.Request) {
	ev, ok := b.events[pathID(r)]
	if !ok {
		writeMessage(w, http.StatusNotFound, "Fant ikke hendelse")
		return
	}
	var req api.UpdateEventRequest
	if !decode(w, r, &req) {
		return
	}
	ev.Title, ev.Description, ev.Location = req.Title, req.Description, req.Location
	ev.StartTime, ev.EndTime = req.StartTime, req.EndTime
	writeJSON(w, http.StatusOK, ev)
}

func (b *FakeBackend) deleteEvent(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	if _, ok := b.events[id]; !ok {
		writeMessage(w, http.StatusNotFound, "Fant ikke hendelse")
		return
	}
	if r.URL.Query().Get("deletedByUserId") == "" {
		writeMessage(w, http.StatusBadRequest, "deletedByUserId mangler")
		return
	}
	delete(b.events, id)
	w.WriteHeader(http.StatusNoContent)
}
