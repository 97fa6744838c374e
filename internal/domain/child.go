package domain

import "time"

type PickupPlan struct {
	ID   int64
	Date time.Time
	Note string
}

type Activity struct {
	ID     int64
	Label  string
	Photos []string
}

// DefaultActivities is shown on the check-in screen when staff have not
// posted any activities for the child yet.
func DefaultActivities() []Activity {
	return []Activity{
		{ID: 1, Label: "Bilde fra i går"},
		{ID: 2, Label: "Tur i skogen"},
		{ID: 3, Label: "Bursdagsfeiring"},
	}
}

// LeaveRecord is a reported absence day (From equals To) or a vacation.
type LeaveRecord struct {
	From    time.Time
	To      time.Time
	Holiday bool
	Note    string
}

type Child struct {
	ID          int64
	Name        string
	Status      ChildStatus
	LastCheckIn string
	Note        string

	Department  string
	Allergies   string
	Medications string
	OtherInfo   string
	PhotoURL    string

	AbsenceDate *time.Time
	AbsenceNote string
	HolidayFrom *time.Time
	HolidayTo   *time.Time

	PickupPlans []PickupPlan
	Activities  []Activity
}

// IsCheckedIn reports whether the child is currently registered as present.
func (c *Child) IsCheckedIn() bool {
	return c.Status == StatusCheckedIn
}

// ClearAbsence drops any stored absence report.
func (c *Child) ClearAbsence() {
	c.AbsenceDate = nil
	c.AbsenceNote = ""
}

// ClearHoliday drops any stored vacation range.
func (c *Child) ClearHoliday() {
	c.HolidayFrom = nil
	c.HolidayTo = nil
}

// MarkPresent records a confirmed IN event at the given time.
func (c *Child) MarkPresent(at time.Time) {
	c.Status = StatusCheckedIn
	c.LastCheckIn = at.Format(TimeLayout)
	c.ClearAbsence()
	c.ClearHoliday()
}

// MarkOut records a confirmed OUT event. The last check-in time is kept.
func (c *Child) MarkOut() {
	c.Status = StatusNotCheckedIn
}

// MarkAbsent stores an absence report and leaves the child not checked in.
func (c *Child) MarkAbsent(date time.Time, note string) {
	c.Status = StatusNotCheckedIn
	d := DateOnly(date)
	c.AbsenceDate = &d
	c.AbsenceNote = note
	c.ClearHoliday()
}

// MarkHoliday stores a vacation range and leaves the child not checked in.
func (c *Child) MarkHoliday(from, to time.Time) {
	c.Status = StatusNotCheckedIn
	f, t := DateOnly(from), DateOnly(to)
	c.HolidayFrom = &f
	c.HolidayTo = &t
	c.ClearAbsence()
}

// AddPickupPlan appends a plan. Plans are never removed.
func (c *Child) AddPickupPlan(date time.Time, note string) PickupPlan {
	var next int64 = 1
	for _, p := range c.PickupPlans {
		if p.ID >= next {
			next = p.ID + 1
		}
	}
	plan := PickupPlan{ID: next, Date: DateOnly(date), Note: note}
	c.PickupPlans = append(c.PickupPlans, plan)
	return plan
}

// VisibleActivities returns the child's activities, or the defaults when none exist.
func (c *Child) VisibleActivities() []Activity {
	if len(c.Activities) > 0 {
		return c.Activities
	}
	return DefaultActivities()
}

// FindActivity looks up one of the visible activities by ID.
func (c *Child) FindActivity(id int64) (Activity, bool) {
	for _, a := range c.VisibleActivities() {
		if a.ID == id {
			return a, true
		}
	}
	return Activity{}, false
}

// Clone returns a deep copy so callers can't mutate controller-owned slices.
func (c Child) Clone() Child {
	out := c
	if c.PickupPlans != nil {
		out.PickupPlans = append([]PickupPlan(nil), c.PickupPlans...)
	}
	if c.Activities != nil {
		out.Activities = make([]Activity, len(c.Activities))
		for i, a := range c.Activities {
			a.Photos = append([]string(nil), a.Photos...)
			out.Activities[i] = a
		}
	}
	out.AbsenceDate = cloneTime(c.AbsenceDate)
	out.HolidayFrom = cloneTime(c.HolidayFrom)
	out.HolidayTo = cloneTime(c.HolidayTo)
	return out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// StaffChild is one row in the staff department overview.
type StaffChild struct {
	ID        int64
	Name      string
	GroupID   int64
	GroupName string
	Presence  Presence
	Note      string
}

// AttendanceEvent is the latest IN/OUT registration for a child.
type AttendanceEvent struct {
	Type AttendanceType
	Time time.Time
}
