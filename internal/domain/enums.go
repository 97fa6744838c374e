package domain

import (
	"fmt"
	"strings"
)

type Role string

const (
	RoleParent Role = "PARENT"
	RoleStaff  Role = "STAFF"
	RoleAdmin  Role = "ADMIN"
)

// IsStaff reports whether the role gets the staff dashboard.
func (r Role) IsStaff() bool {
	return r == RoleStaff || r == RoleAdmin
}

type ChildStatus string

const (
	StatusNotCheckedIn ChildStatus = "notCheckedIn"
	StatusCheckedIn    ChildStatus = "checkedIn"
)

type AttendanceType string

const (
	AttendanceIn  AttendanceType = "IN"
	AttendanceOut AttendanceType = "OUT"
)

// Opposite returns the event type a toggle would submit next.
func (t AttendanceType) Opposite() AttendanceType {
	if t == AttendanceIn {
		return AttendanceOut
	}
	return AttendanceIn
}

// Presence is the staff-side view of the latest attendance event.
type Presence string

const (
	PresenceIn   Presence = "IN"
	PresenceOut  Presence = "OUT"
	PresenceNone Presence = "NONE"
)

type CheckInOption string

const (
	OptionPresent CheckInOption = "present"
	OptionAbsent  CheckInOption = "absent"
	OptionHoliday CheckInOption = "holiday"
)

// ValidCheckInOptions is the canonical set of accepted check-in options.
var ValidCheckInOptions = map[CheckInOption]bool{
	OptionPresent: true, OptionAbsent: true, OptionHoliday: true,
}

// StaffReason classifies a staff in/out registration.
type StaffReason string

const (
	ReasonNormal   StaffReason = "normal"
	ReasonPickedUp StaffReason = "pickedUp"
	ReasonOther    StaffReason = "other"
)

// ParseStaffReason accepts a reason case-insensitively; "picked_up" and
// "picked-up" are read as pickedUp.
func ParseStaffReason(s string) (StaffReason, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "normal":
		return ReasonNormal, nil
	case "pickedup", "picked_up", "picked-up":
		return ReasonPickedUp, nil
	case "other":
		return ReasonOther, nil
	}
	return "", fmt.Errorf("unknown reason %q (expected normal, picked_up or other)", s)
}
