package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/trygginn/trygginn/internal/api"
	"github.com/trygginn/trygginn/internal/derive"
	"github.com/trygginn/trygginn/internal/domain"
	"github.com/trygginn/trygginn/internal/fanout"
	"golang.org/x/sync/errgroup"
)

// CheckInForm is the input of the check-in screen. Only the fields for
// the chosen option are read. A pickup plan is added whenever PickupNote
// is set, whatever the option; a nil PickupDate then means today.
type CheckInForm struct {
	Option domain.CheckInOption

	AbsenceDate *time.Time
	AbsenceNote string

	HolidayFrom *time.Time
	HolidayTo   *time.Time
	HolidayNote string

	PickupDate *time.Time
	PickupNote string
}

// CheckInSuccess is the overlay shown after a confirmed present check-in.
// It is not a screen; the machine stays where it was until dismissed.
type CheckInSuccess struct {
	ChildID    int64
	ChildName  string
	Department string
	Time       string
}

// ChildDetailsUpdate is one child's edited details from the profile screen.
type ChildDetailsUpdate struct {
	ChildID   int64
	Allergies string
	OtherInfo string
}

// Parent drives the guardian dashboard. Mutations follow an optimistic
// policy: once the backend accepts a request, local state is updated from
// the request parameters and reconciled on the next Load. Nothing is
// changed locally when a request fails.
type Parent struct {
	api     ParentAPI
	session domain.Session
	opts    Options
	logger  *slog.Logger

	mu       sync.Mutex
	lc       lifecycle
	view     ViewState
	children []domain.Child
	profile  domain.UserProfile
	events   []domain.KindergartenEvent
	success  *CheckInSuccess
}

// NewParent creates a controller for the guardian in session.
func NewParent(client ParentAPI, session domain.Session, opts Options) *Parent {
	opts = opts.withDefaults()
	return &Parent{
		api:     client,
		session: session,
		opts:    opts,
		logger:  opts.Logger.With("dashboard", "parent", "user_id", session.UserID),
		profile: domain.UserProfile{ID: session.UserID, Name: session.UserName, Role: session.Role},
	}
}

// Load fetches children, their latest attendance and details, the profile
// and the calendar. Only a failing child list fails the load; other
// failures are logged and leave defaults in place.
func (p *Parent) Load(ctx context.Context) error {
	p.mu.Lock()
	gen, err := p.lc.begin()
	p.mu.Unlock()
	if err != nil {
		return err
	}

	summaries, err := p.api.ChildrenForGuardian(ctx, p.session.UserID)
	if err != nil {
		return fmt.Errorf("loading children: %w", err)
	}

	// The per-child lookups, the profile and the calendar are independent
	// and run side by side.
	var (
		lookups []childLookup
		profile domain.UserProfile
		events  []domain.KindergartenEvent
		g       errgroup.Group
	)
	g.Go(func() error {
		lookups, _ = fanout.Map(ctx, summaries, p.opts.FanOutLimit, p.fetchChild, nil)
		for _, l := range lookups {
			if l.err != nil {
				p.logger.Warn("child lookup failed", "error", l.err)
			}
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if profile, err = fetchProfile(ctx, p.api, p.session); err != nil {
			p.logger.Warn("profile lookup failed", "error", err)
		}
		return nil
	})
	g.Go(func() error {
		dtos, err := p.api.EventsForGuardian(ctx, p.session.UserID)
		if err != nil {
			p.logger.Warn("calendar lookup failed", "error", err)
		}
		for _, ev := range dtos {
			events = append(events, ev.ToDomain())
		}
		return nil
	})
	_ = g.Wait()

	children := make([]domain.Child, len(summaries))
	for i, s := range summaries {
		st := derive.StatusFromEvent(lookups[i].latest)
		c := domain.Child{
			ID:          s.ID,
			Name:        s.FullName(),
			Department:  s.GroupName(),
			Status:      st.Status,
			LastCheckIn: st.LastCheckIn,
			Note:        st.Note,
		}
		if d := lookups[i].details; d != nil {
			c.Allergies = d.Allergies
			c.Medications = d.Medications
			c.OtherInfo = d.FavoriteFood
		}
		children[i] = c
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.lc.current(gen) {
		return ErrStale
	}
	// Pickup plans and activities exist only in this session; keep them.
	for i := range children {
		if old := p.find(children[i].ID); old != nil {
			children[i].PickupPlans = old.PickupPlans
			children[i].Activities = old.Activities
		}
	}
	p.children = children
	p.profile = profile
	p.events = events
	if p.view.HasChild() && p.find(p.view.ChildID) == nil {
		p.view = ViewState{Screen: ScreenList}
	}
	return nil
}

// childLookup is what Load gathers for one child. A failed status lookup
// leaves latest nil without dropping the details, and the other way round.
type childLookup struct {
	latest  *domain.AttendanceEvent
	details *api.ChildDetails
	err     error
}

func (p *Parent) fetchChild(ctx context.Context, s api.ChildSummary) (childLookup, error) {
	var (
		l                     childLookup
		latestErr, detailsErr error
		g                     errgroup.Group
	)
	g.Go(func() error {
		l.latest, latestErr = p.fetchLatest(ctx, s)
		return nil
	})
	g.Go(func() error {
		l.details, detailsErr = p.fetchDetails(ctx, s)
		return nil
	})
	_ = g.Wait()
	l.err = errors.Join(latestErr, detailsErr)
	return l, nil
}

func (p *Parent) fetchLatest(ctx context.Context, s api.ChildSummary) (*domain.AttendanceEvent, error) {
	st, err := p.api.LatestStatus(ctx, s.ID)
	if errors.Is(err, api.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("child %d: %w", s.ID, err)
	}
	return st.Event(), nil
}

func (p *Parent) fetchDetails(ctx context.Context, s api.ChildSummary) (*api.ChildDetails, error) {
	d, err := p.api.ChildDetails(ctx, s.ID)
	if errors.Is(err, api.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("child %d: %w", s.ID, err)
	}
	return d, nil
}

// find requires p.mu.
func (p *Parent) find(childID int64) *domain.Child {
	for i := range p.children {
		if p.children[i].ID == childID {
			return &p.children[i]
		}
	}
	return nil
}

func (p *Parent) transition(ev Event, childID, activityID int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	next, err := p.view.Next(ev, childID, activityID)
	if err != nil {
		return err
	}
	p.view = next
	return nil
}

// OpenInfo shows a child's details.
func (p *Parent) OpenInfo(childID int64) error {
	p.mu.Lock()
	known := p.find(childID) != nil
	p.mu.Unlock()
	if !known {
		return fmt.Errorf("%w: %d", ErrUnknownChild, childID)
	}
	return p.transition(EventOpenInfo, childID, 0)
}

// OpenCheckIn starts the check-in flow for a child that is not checked in.
func (p *Parent) OpenCheckIn(childID int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	c := p.find(childID)
	if c == nil {
		return fmt.Errorf("%w: %d", ErrUnknownChild, childID)
	}
	if c.IsCheckedIn() {
		return fmt.Errorf("%w: %s is already checked in", ErrInvalidTransition, c.Name)
	}
	next, err := p.view.Next(EventOpenCheckIn, childID, 0)
	if err != nil {
		return err
	}
	p.view = next
	return nil
}

func (p *Parent) OpenCalendar() error { return p.transition(EventOpenCalendar, 0, 0) }

func (p *Parent) OpenProfile() error { return p.transition(EventOpenProfile, 0, 0) }

// OpenActivity opens the gallery for one of the active child's activities.
func (p *Parent) OpenActivity(activityID int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.view.HasChild() {
		return fmt.Errorf("%w: no active child", ErrInvalidTransition)
	}
	c := p.find(p.view.ChildID)
	if c == nil {
		return fmt.Errorf("%w: %d", ErrUnknownChild, p.view.ChildID)
	}
	if _, ok := c.FindActivity(activityID); !ok {
		return fmt.Errorf("%w: unknown activity %d", ErrInvalidTransition, activityID)
	}
	next, err := p.view.Next(EventOpenGallery, 0, activityID)
	if err != nil {
		return err
	}
	p.view = next
	return nil
}

// Back routes to the previous screen for the current state.
func (p *Parent) Back() error { return p.transition(EventBack, 0, 0) }

// ToggleCheckStatus checks a child in or out directly from the list.
func (p *Parent) ToggleCheckStatus(ctx context.Context, childID int64) error {
	p.mu.Lock()
	if _, err := p.view.Next(EventToggle, 0, 0); err != nil {
		p.mu.Unlock()
		return err
	}
	c := p.find(childID)
	if c == nil {
		p.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrUnknownChild, childID)
	}
	typ, note := domain.AttendanceIn, derive.ParentCheckInNote
	if c.IsCheckedIn() {
		typ, note = domain.AttendanceOut, derive.ParentCheckOutNote
	}
	if err := p.lc.acquire(childID); err != nil {
		p.mu.Unlock()
		return err
	}
	p.mu.Unlock()

	err := p.api.RegisterAttendance(ctx, api.AttendanceRequest{
		ChildID: childID, PerformedByUserID: p.session.UserID, EventType: typ, Note: note,
	})

	p.mu.Lock()
	defer p.mu.Unlock()
	p.lc.release(childID)
	if err != nil {
		return fmt.Errorf("registering %s: %w", typ, err)
	}
	if p.lc.closed {
		return ErrStale
	}
	p.lc.bump()

	now := p.opts.Now()
	if c = p.find(childID); c == nil {
		return nil
	}
	if typ == domain.AttendanceIn {
		c.MarkPresent(now)
	} else {
		c.MarkOut()
	}
	c.Note = derive.StatusFromEvent(&domain.AttendanceEvent{Type: typ, Time: now}).Note
	return nil
}

// ConfirmCheckIn submits the check-in form for the active child. On a
// present check-in it returns the success overlay payload and stays on the
// check-in screen; absent and holiday return to the list.
func (p *Parent) ConfirmCheckIn(ctx context.Context, form CheckInForm) (*CheckInSuccess, error) {
	p.mu.Lock()
	if p.view.Screen != ScreenCheckIn || !p.view.HasChild() {
		p.mu.Unlock()
		return nil, fmt.Errorf("%w: confirm outside check-in", ErrInvalidTransition)
	}
	childID := p.view.ChildID
	if p.find(childID) == nil {
		p.mu.Unlock()
		return nil, fmt.Errorf("%w: %d", ErrUnknownChild, childID)
	}
	p.mu.Unlock()

	today := domain.DateOnly(p.opts.Now())
	form.AbsenceNote = strings.TrimSpace(form.AbsenceNote)
	form.HolidayNote = strings.TrimSpace(form.HolidayNote)
	form.PickupNote = strings.TrimSpace(form.PickupNote)
	if form.PickupDate == nil && form.PickupNote != "" {
		form.PickupDate = &today
	}
	if err := validateCheckIn(form); err != nil {
		return nil, err
	}

	p.mu.Lock()
	if err := p.lc.acquire(childID); err != nil {
		p.mu.Unlock()
		return nil, err
	}
	p.mu.Unlock()

	absenceDate := today
	if form.AbsenceDate != nil {
		absenceDate = domain.DateOnly(*form.AbsenceDate)
	}
	err := p.submitCheckIn(ctx, childID, form, absenceDate)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.lc.release(childID)
	if err != nil {
		return nil, err
	}
	if p.lc.closed {
		return nil, ErrStale
	}
	p.lc.bump()

	now := p.opts.Now()
	c := p.find(childID)
	if c == nil {
		return nil, nil
	}
	switch form.Option {
	case domain.OptionPresent:
		c.MarkPresent(now)
		c.Note = derive.StatusFromEvent(&domain.AttendanceEvent{Type: domain.AttendanceIn, Time: now}).Note
	case domain.OptionAbsent:
		c.MarkAbsent(absenceDate, form.AbsenceNote)
		c.Note = derive.AbsenceNote(absenceDate, today, form.AbsenceNote)
	case domain.OptionHoliday:
		c.MarkHoliday(*form.HolidayFrom, *form.HolidayTo)
		c.Note = derive.HolidayNote(*form.HolidayFrom, *form.HolidayTo)
	}

	if form.PickupDate != nil && form.PickupNote != "" {
		c.AddPickupPlan(*form.PickupDate, form.PickupNote)
		if form.Option == domain.OptionPresent && domain.SameDay(*form.PickupDate, now) {
			c.Note = derive.AppendPickup(c.Note, form.PickupNote)
		}
	}

	if form.Option != domain.OptionPresent {
		p.view = ViewState{Screen: ScreenList}
		return nil, nil
	}
	p.success = &CheckInSuccess{
		ChildID:    c.ID,
		ChildName:  c.Name,
		Department: c.Department,
		Time:       now.Format(domain.TimeLayout),
	}
	out := *p.success
	return &out, nil
}

func validateCheckIn(form CheckInForm) error {
	if !domain.ValidCheckInOptions[form.Option] {
		return invalid("Velg et alternativ for innsjekk.")
	}
	if form.Option == domain.OptionHoliday {
		if form.HolidayFrom == nil || form.HolidayTo == nil {
			return invalid("Velg både fra- og tildato for ferie.")
		}
		if domain.BeforeDay(*form.HolidayTo, *form.HolidayFrom) {
			return invalid("Tildato kan ikke være før fradato.")
		}
	}
	return nil
}

func (p *Parent) submitCheckIn(ctx context.Context, childID int64, form CheckInForm, absenceDate time.Time) error {
	switch form.Option {
	case domain.OptionPresent:
		err := p.api.RegisterAttendance(ctx, api.AttendanceRequest{
			ChildID: childID, PerformedByUserID: p.session.UserID,
			EventType: domain.AttendanceIn, Note: derive.ParentCheckInNote,
		})
		if err != nil {
			return fmt.Errorf("registering check-in: %w", err)
		}
	case domain.OptionAbsent:
		note := domain.CoalesceStr(form.AbsenceNote, derive.DefaultAbsenceReason)
		_, err := p.api.RegisterAbsence(ctx, api.AbsenceRequest{
			ChildID:          childID,
			ReportedByUserID: p.session.UserID,
			Date:             absenceDate.Format(domain.DateLayout),
			Reason:           note,
			Note:             note,
		})
		if err != nil {
			return fmt.Errorf("registering absence: %w", err)
		}
	case domain.OptionHoliday:
		_, err := p.api.RegisterVacation(ctx, api.VacationRequest{
			ChildID:          childID,
			ReportedByUserID: p.session.UserID,
			StartDate:        form.HolidayFrom.Format(domain.DateLayout),
			EndDate:          form.HolidayTo.Format(domain.DateLayout),
			Note:             domain.CoalesceStr(form.HolidayNote, derive.DefaultVacationNote),
		})
		if err != nil {
			return fmt.Errorf("registering vacation: %w", err)
		}
	}
	return nil
}

// DismissSuccess hides the overlay and returns to the list.
func (p *Parent) DismissSuccess() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.success == nil {
		return
	}
	p.success = nil
	p.view = ViewState{Screen: ScreenList}
}

// UpdateProfile saves the guardian's name, email and phone.
func (p *Parent) UpdateProfile(ctx context.Context, form ProfileForm) error {
	updated, err := updateProfile(ctx, p.api, p.session.UserID, form)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.lc.closed {
		return ErrStale
	}
	p.profile = updated
	return nil
}

// ChangePassword validates and submits a new password.
func (p *Parent) ChangePassword(ctx context.Context, form PasswordForm) error {
	return changePassword(ctx, p.api, p.session.UserID, form)
}

// SaveChildDetails writes edited details for several children at once.
// Each child is saved independently; the returned error joins the
// failures, and every successful save is applied.
func (p *Parent) SaveChildDetails(ctx context.Context, updates []ChildDetailsUpdate) error {
	p.mu.Lock()
	medications := map[int64]string{}
	for _, u := range updates {
		c := p.find(u.ChildID)
		if c == nil {
			p.mu.Unlock()
			return fmt.Errorf("%w: %d", ErrUnknownChild, u.ChildID)
		}
		medications[u.ChildID] = c.Medications
	}
	p.mu.Unlock()

	saved, err := fanout.Map(ctx, updates, p.opts.FanOutLimit, func(ctx context.Context, u ChildDetailsUpdate) (*api.ChildDetails, error) {
		d, err := p.api.UpdateChildDetails(ctx, u.ChildID, api.UpdateChildDetailsRequest{
			Allergies:    u.Allergies,
			Medications:  medications[u.ChildID],
			FavoriteFood: u.OtherInfo,
		})
		if err != nil {
			return nil, fmt.Errorf("child %d: %w", u.ChildID, err)
		}
		return d, nil
	}, nil)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.lc.closed {
		return ErrStale
	}
	for i, u := range updates {
		if saved[i] == nil {
			continue
		}
		if c := p.find(u.ChildID); c != nil {
			c.Allergies = u.Allergies
			c.OtherInfo = u.OtherInfo
		}
	}
	return err
}

// History returns the absences and vacations reported for a child, oldest
// first. It is fetched on demand and not kept.
func (p *Parent) History(ctx context.Context, childID int64) ([]domain.LeaveRecord, error) {
	if _, ok := p.Child(childID); !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownChild, childID)
	}
	absences, err := p.api.AbsencesForChild(ctx, childID)
	if err != nil && !errors.Is(err, api.ErrNotFound) {
		return nil, fmt.Errorf("loading absences: %w", err)
	}
	vacations, err := p.api.VacationsForChild(ctx, childID)
	if err != nil && !errors.Is(err, api.ErrNotFound) {
		return nil, fmt.Errorf("loading vacations: %w", err)
	}

	records := make([]domain.LeaveRecord, 0, len(absences)+len(vacations))
	for _, a := range absences {
		day := domain.DateOnly(a.Date.Time)
		records = append(records, domain.LeaveRecord{From: day, To: day, Note: domain.CoalesceStr(a.Note, a.Reason)})
	}
	for _, v := range vacations {
		records = append(records, domain.LeaveRecord{
			From:    domain.DateOnly(v.StartDate.Time),
			To:      domain.DateOnly(v.EndDate.Time),
			Holiday: true,
			Note:    v.Note,
		})
	}
	sort.SliceStable(records, func(i, j int) bool { return records[i].From.Before(records[j].From) })
	return records, nil
}

// Close discards any response that arrives afterwards.
func (p *Parent) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lc.closed = true
}

func (p *Parent) Session() domain.Session { return p.session }

func (p *Parent) State() ViewState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.view
}

// Children returns copies of the loaded children in backend order.
func (p *Parent) Children() []domain.Child {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.Child, len(p.children))
	for i, c := range p.children {
		out[i] = c.Clone()
	}
	return out
}

func (p *Parent) Child(childID int64) (domain.Child, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if c := p.find(childID); c != nil {
		return c.Clone(), true
	}
	return domain.Child{}, false
}

// ActiveChild returns the child the current screen is about.
func (p *Parent) ActiveChild() (domain.Child, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.view.HasChild() {
		return domain.Child{}, false
	}
	if c := p.find(p.view.ChildID); c != nil {
		return c.Clone(), true
	}
	return domain.Child{}, false
}

// ActiveActivity returns the activity shown in the gallery.
func (p *Parent) ActiveActivity() (domain.Activity, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.view.ActivityID == 0 {
		return domain.Activity{}, false
	}
	c := p.find(p.view.ChildID)
	if c == nil {
		return domain.Activity{}, false
	}
	return c.FindActivity(p.view.ActivityID)
}

func (p *Parent) Profile() domain.UserProfile {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.profile
}

func (p *Parent) Events() []domain.KindergartenEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.KindergartenEvent(nil), p.events...)
}

// Success returns the pending overlay, if any.
func (p *Parent) Success() *CheckInSuccess {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.success == nil {
		return nil
	}
	out := *p.success
	return &out
}

// Today is the controller's notion of the current date.
func (p *Parent) Today() time.Time {
	return domain.DateOnly(p.opts.Now())
}
