package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/trygginn/trygginn/internal/api"
	"github.com/trygginn/trygginn/internal/derive"
	"github.com/trygginn/trygginn/internal/domain"
	"github.com/trygginn/trygginn/internal/fanout"
)

// ChildForm registers a new child in a department.
type ChildForm struct {
	FirstName     string
	LastName      string
	DateOfBirth   string
	GroupID       int64
	GuardianEmail string
}

// EventForm creates or edits a calendar event. A nil GroupID means the
// whole kindergarten.
type EventForm struct {
	Title       string
	Description string
	Location    string
	Start       time.Time
	End         *time.Time
	GroupID     *int64
}

func (f EventForm) validate() error {
	if strings.TrimSpace(f.Title) == "" {
		return invalid("Tittel må fylles ut.")
	}
	if f.Start.IsZero() {
		return invalid("Velg starttidspunkt.")
	}
	if f.End != nil && f.End.Before(f.Start) {
		return invalid("Slutt kan ikke være før start.")
	}
	return nil
}

func (f EventForm) endTimestamp() *api.Timestamp {
	if f.End == nil {
		return nil
	}
	ts := api.NewTimestamp(*f.End)
	return &ts
}

// Staff drives the staff dashboard: the department overview, attendance
// registration, child registration and the kindergarten calendar. The
// same optimistic policy as Parent applies.
type Staff struct {
	api     StaffAPI
	session domain.Session
	opts    Options
	logger  *slog.Logger

	mu      sync.Mutex
	lc      lifecycle
	view    ViewState
	groups  []domain.DaycareGroup
	rows    []domain.StaffChild
	profile domain.UserProfile
	events  []domain.KindergartenEvent
}

// NewStaff creates a controller for the staff member in session. The
// session's DaycareID selects which kindergarten is shown.
func NewStaff(client StaffAPI, session domain.Session, opts Options) *Staff {
	opts = opts.withDefaults()
	return &Staff{
		api:     client,
		session: session,
		opts:    opts,
		logger:  opts.Logger.With("dashboard", "staff", "user_id", session.UserID),
		profile: domain.UserProfile{ID: session.UserID, Name: session.UserName, Role: session.Role},
	}
}

// Load fetches departments and the latest attendance for every child.
// A child whose lookup fails is shown without a registration.
func (s *Staff) Load(ctx context.Context) error {
	s.mu.Lock()
	gen, err := s.lc.begin()
	s.mu.Unlock()
	if err != nil {
		return err
	}

	dtos, err := s.api.GroupsForDaycare(ctx, s.session.DaycareID)
	if err != nil {
		return fmt.Errorf("loading departments: %w", err)
	}

	var rows []domain.StaffChild
	groups := make([]domain.DaycareGroup, 0, len(dtos))
	for _, g := range dtos {
		groups = append(groups, domain.DaycareGroup{ID: g.ID, Name: g.Name, Description: g.Description})
		for _, c := range g.Children {
			rows = append(rows, domain.StaffChild{ID: c.ID, Name: c.FullName(), GroupID: g.ID, GroupName: g.Name})
		}
	}

	latest, err := fanout.Map(ctx, rows, s.opts.FanOutLimit, s.fetchLatest, nil)
	if err != nil {
		s.logger.Warn("attendance lookup failed", "error", err)
	}
	for i := range rows {
		rows[i].Presence, rows[i].Note = derive.PresenceFromEvent(latest[i])
	}
	derive.SortStaffRows(rows)

	profile, err := fetchProfile(ctx, s.api, s.session)
	if err != nil {
		s.logger.Warn("profile lookup failed", "error", err)
	}

	var events []domain.KindergartenEvent
	evs, err := s.api.EventsForDaycare(ctx, s.session.DaycareID)
	if err != nil {
		s.logger.Warn("calendar lookup failed", "error", err)
	}
	for _, ev := range evs {
		events = append(events, ev.ToDomain())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.lc.current(gen) {
		return ErrStale
	}
	s.groups = groups
	s.rows = rows
	s.profile = profile
	s.events = events
	return nil
}

func (s *Staff) fetchLatest(ctx context.Context, row domain.StaffChild) (*domain.AttendanceEvent, error) {
	st, err := s.api.LatestStatus(ctx, row.ID)
	if errors.Is(err, api.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("child %d: %w", row.ID, err)
	}
	return st.Event(), nil
}

// row requires s.mu.
func (s *Staff) row(childID int64) *domain.StaffChild {
	for i := range s.rows {
		if s.rows[i].ID == childID {
			return &s.rows[i]
		}
	}
	return nil
}

// NextAttendance is the registration type a toggle of childID would send.
func (s *Staff) NextAttendance(childID int64) (domain.AttendanceType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.row(childID)
	if r == nil {
		return "", fmt.Errorf("%w: %d", ErrUnknownChild, childID)
	}
	return nextAttendance(r.Presence), nil
}

func nextAttendance(p domain.Presence) domain.AttendanceType {
	if p == domain.PresenceIn {
		return domain.AttendanceOut
	}
	return domain.AttendanceIn
}

// Toggle registers the opposite of the child's current presence. After
// the backend accepts it the row is refreshed from the latest status; if
// that lookup fails the row is updated from the request instead.
func (s *Staff) Toggle(ctx context.Context, childID int64, reason domain.StaffReason, comment string) error {
	s.mu.Lock()
	if s.view.Screen != ScreenList {
		s.mu.Unlock()
		return fmt.Errorf("%w: toggle on %s", ErrInvalidTransition, s.view.Screen)
	}
	r := s.row(childID)
	if r == nil {
		s.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrUnknownChild, childID)
	}
	typ := nextAttendance(r.Presence)
	if err := s.lc.acquire(childID); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	if reason == "" {
		reason = domain.ReasonNormal
	}
	err := s.api.RegisterAttendance(ctx, api.AttendanceRequest{
		ChildID:           childID,
		PerformedByUserID: s.session.UserID,
		EventType:         typ,
		Note:              derive.StaffAttendanceNote(typ, reason, strings.TrimSpace(comment)),
	})
	if err != nil {
		s.mu.Lock()
		s.lc.release(childID)
		s.mu.Unlock()
		return fmt.Errorf("registering %s: %w", typ, err)
	}

	ev := &domain.AttendanceEvent{Type: typ, Time: s.opts.Now()}
	if st, err := s.api.LatestStatus(ctx, childID); err != nil {
		s.logger.Warn("refresh after registration failed", "child_id", childID, "error", err)
	} else if fresh := st.Event(); fresh != nil {
		ev = fresh
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lc.release(childID)
	if s.lc.closed {
		return ErrStale
	}
	s.lc.bump()
	if r = s.row(childID); r != nil {
		r.Presence, r.Note = derive.PresenceFromEvent(ev)
	}
	return nil
}

// RegisterChild validates the form, resolves the guardian by email and
// creates the child. The new child is shown without a registration.
func (s *Staff) RegisterChild(ctx context.Context, form ChildForm) (domain.StaffChild, error) {
	first := strings.TrimSpace(form.FirstName)
	last := strings.TrimSpace(form.LastName)
	email := strings.TrimSpace(form.GuardianEmail)
	dob := strings.TrimSpace(form.DateOfBirth)

	switch {
	case first == "" || last == "":
		return domain.StaffChild{}, invalid("Fornavn og etternavn må fylles ut.")
	case dob == "":
		return domain.StaffChild{}, invalid("Fødselsdato må fylles ut.")
	case email == "":
		return domain.StaffChild{}, invalid("Foresattes e-post må fylles ut.")
	case form.GroupID == 0:
		return domain.StaffChild{}, invalid("Velg en avdeling.")
	}
	born, err := time.ParseInLocation(domain.DateLayout, dob, time.Local)
	if err != nil {
		return domain.StaffChild{}, invalid("Fødselsdato må være på formatet ÅÅÅÅ-MM-DD.")
	}
	if born.After(s.opts.Now()) {
		return domain.StaffChild{}, invalid("Fødselsdato kan ikke være i fremtiden.")
	}

	s.mu.Lock()
	var group *domain.DaycareGroup
	for i := range s.groups {
		if s.groups[i].ID == form.GroupID {
			group = &s.groups[i]
		}
	}
	groupName := ""
	if group != nil {
		groupName = group.Name
	}
	s.mu.Unlock()
	if group == nil {
		return domain.StaffChild{}, invalid("Ukjent avdeling.")
	}

	guardian, err := s.api.UserByEmail(ctx, email)
	if errors.Is(err, api.ErrNotFound) {
		return domain.StaffChild{}, invalid("Fant ingen bruker med e-post %s.", email)
	}
	if err != nil {
		return domain.StaffChild{}, fmt.Errorf("looking up guardian: %w", err)
	}
	if guardian.Role != domain.RoleParent {
		return domain.StaffChild{}, invalid("%s er ikke registrert som forelder.", email)
	}

	created, err := s.api.CreateChild(ctx, api.CreateChildRequest{
		GuardianUserID:  guardian.ID,
		DaycareGroupID:  form.GroupID,
		CreatedByUserID: s.session.UserID,
		FirstName:       first,
		LastName:        last,
		DateOfBirth:     dob,
	})
	if err != nil {
		return domain.StaffChild{}, fmt.Errorf("creating child: %w", err)
	}

	presence, note := derive.PresenceFromEvent(nil)
	row := domain.StaffChild{
		ID:        created.ID,
		Name:      created.FullName(),
		GroupID:   form.GroupID,
		GroupName: domain.CoalesceStr(created.GroupName(), groupName),
		Presence:  presence,
		Note:      note,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lc.closed {
		return row, ErrStale
	}
	s.lc.bump()
	s.rows = append(s.rows, row)
	derive.SortStaffRows(s.rows)
	return row, nil
}

// CreateEvent adds an event to the kindergarten calendar.
func (s *Staff) CreateEvent(ctx context.Context, form EventForm) (domain.KindergartenEvent, error) {
	if err := form.validate(); err != nil {
		return domain.KindergartenEvent{}, err
	}
	dto, err := s.api.CreateEvent(ctx, api.CreateEventRequest{
		DaycareID:       s.session.DaycareID,
		DaycareGroupID:  form.GroupID,
		Title:           strings.TrimSpace(form.Title),
		Description:     strings.TrimSpace(form.Description),
		Location:        strings.TrimSpace(form.Location),
		StartTime:       api.NewTimestamp(form.Start),
		EndTime:         form.endTimestamp(),
		CreatedByUserID: s.session.UserID,
	})
	if err != nil {
		return domain.KindergartenEvent{}, fmt.Errorf("creating event: %w", err)
	}
	ev := dto.ToDomain()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lc.closed {
		return ev, ErrStale
	}
	s.lc.bump()
	s.events = append(s.events, ev)
	return ev, nil
}

// UpdateEvent replaces an event's fields. Its department is not changed.
func (s *Staff) UpdateEvent(ctx context.Context, eventID int64, form EventForm) (domain.KindergartenEvent, error) {
	if err := form.validate(); err != nil {
		return domain.KindergartenEvent{}, err
	}
	dto, err := s.api.UpdateEvent(ctx, eventID, api.UpdateEventRequest{
		Title:           strings.TrimSpace(form.Title),
		Description:     strings.TrimSpace(form.Description),
		Location:        strings.TrimSpace(form.Location),
		StartTime:       api.NewTimestamp(form.Start),
		EndTime:         form.endTimestamp(),
		UpdatedByUserID: s.session.UserID,
	})
	if err != nil {
		return domain.KindergartenEvent{}, fmt.Errorf("updating event %d: %w", eventID, err)
	}
	ev := dto.ToDomain()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lc.closed {
		return ev, ErrStale
	}
	s.lc.bump()
	for i := range s.events {
		if s.events[i].ID == eventID {
			s.events[i] = ev
		}
	}
	return ev, nil
}

func (s *Staff) DeleteEvent(ctx context.Context, eventID int64) error {
	if err := s.api.DeleteEvent(ctx, eventID, s.session.UserID); err != nil {
		return fmt.Errorf("deleting event %d: %w", eventID, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lc.closed {
		return ErrStale
	}
	s.lc.bump()
	kept := s.events[:0]
	for _, ev := range s.events {
		if ev.ID != eventID {
			kept = append(kept, ev)
		}
	}
	s.events = kept
	return nil
}

// CreateAccessCode issues a code parents use to find this kindergarten.
// Zero maxUses and a nil expiry leave the backend defaults.
func (s *Staff) CreateAccessCode(ctx context.Context, maxUses int, expiresAt *time.Time) (*api.AccessCode, error) {
	if maxUses < 0 {
		return nil, invalid("Antall bruk kan ikke være negativt.")
	}
	if expiresAt != nil && !expiresAt.After(s.opts.Now()) {
		return nil, invalid("Utløpstidspunkt må være fram i tid.")
	}
	req := api.CreateAccessCodeRequest{
		DaycareID:       s.session.DaycareID,
		CreatedByUserID: s.session.UserID,
	}
	if maxUses > 0 {
		req.MaxUses = &maxUses
	}
	if expiresAt != nil {
		ts := api.NewTimestamp(*expiresAt)
		req.ExpiresAt = &ts
	}
	code, err := s.api.CreateAccessCode(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("creating access code: %w", err)
	}
	return code, nil
}

// ChildNote fetches the note staff keep on a child. It is separate from
// the attendance note shown in the row.
func (s *Staff) ChildNote(ctx context.Context, childID int64) (string, error) {
	if _, ok := s.Row(childID); !ok {
		return "", fmt.Errorf("%w: %d", ErrUnknownChild, childID)
	}
	n, err := s.api.ChildNote(ctx, childID)
	if err != nil {
		return "", fmt.Errorf("loading note: %w", err)
	}
	return n.Note, nil
}

// SetChildNote replaces the note on a child. An empty note clears it.
func (s *Staff) SetChildNote(ctx context.Context, childID int64, note string) error {
	if _, ok := s.Row(childID); !ok {
		return fmt.Errorf("%w: %d", ErrUnknownChild, childID)
	}
	if _, err := s.api.UpdateChildNote(ctx, childID, strings.TrimSpace(note)); err != nil {
		return fmt.Errorf("saving note: %w", err)
	}
	s.logger.Info("child note saved", "child_id", childID)
	return nil
}

func (s *Staff) UpdateProfile(ctx context.Context, form ProfileForm) error {
	updated, err := updateProfile(ctx, s.api, s.session.UserID, form)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lc.closed {
		return ErrStale
	}
	s.profile = updated
	return nil
}

func (s *Staff) ChangePassword(ctx context.Context, form PasswordForm) error {
	return changePassword(ctx, s.api, s.session.UserID, form)
}

func (s *Staff) transition(ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := s.view.Next(ev, 0, 0)
	if err != nil {
		return err
	}
	if !staffScreens[next.Screen] {
		return fmt.Errorf("%w: %s on staff dashboard", ErrInvalidTransition, next.Screen)
	}
	s.view = next
	return nil
}

func (s *Staff) OpenCalendar() error { return s.transition(EventOpenCalendar) }

func (s *Staff) OpenProfile() error { return s.transition(EventOpenProfile) }

func (s *Staff) Back() error { return s.transition(EventBack) }

// Close discards any response that arrives afterwards.
func (s *Staff) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lc.closed = true
}

func (s *Staff) Session() domain.Session { return s.session }

func (s *Staff) State() ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// Rows returns the flat list ordered by department, then name.
func (s *Staff) Rows() []domain.StaffChild {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.StaffChild(nil), s.rows...)
}

func (s *Staff) Row(childID int64) (domain.StaffChild, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r := s.row(childID); r != nil {
		return *r, true
	}
	return domain.StaffChild{}, false
}

// Departments groups the rows for the overview cards.
func (s *Staff) Departments() []derive.DepartmentGroup {
	return derive.GroupByDepartment(s.Rows())
}

// Groups lists the departments with their current rows.
func (s *Staff) Groups() []domain.DaycareGroup {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.DaycareGroup, len(s.groups))
	for i, g := range s.groups {
		g.Children = nil
		for _, r := range s.rows {
			if r.GroupID == g.ID {
				g.Children = append(g.Children, r)
			}
		}
		out[i] = g
	}
	return out
}

// Counts returns how many children are in and how many in total.
func (s *Staff) Counts() (in, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.rows {
		if r.Presence == domain.PresenceIn {
			in++
		}
	}
	return in, len(s.rows)
}

func (s *Staff) Profile() domain.UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile
}

func (s *Staff) Events() []domain.KindergartenEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.KindergartenEvent(nil), s.events...)
}

func (s *Staff) Today() time.Time {
	return domain.DateOnly(s.opts.Now())
}
