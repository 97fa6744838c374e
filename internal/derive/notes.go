package derive

import (
	"time"

	"github.com/trygginn/trygginn/internal/domain"
)

// Default texts sent to the backend when the parent leaves a field blank.
const (
	DefaultAbsenceReason = "Fravær registrert via app"
	DefaultVacationNote  = "Ferie registrert via app"
	ParentCheckInNote    = "Forelder sjekket inn via app"
	ParentCheckOutNote   = "Forelder sjekket ut via app"
	StaffToggleNote      = "Registrert av ansatt"
)

// AbsenceNote renders the status line after an absence report.
func AbsenceNote(date, today time.Time, note string) string {
	when := date.Format(domain.DisplayDateLayout)
	if domain.SameDay(date, today) {
		when = "i dag"
	}
	s := "Registrert fravær " + when
	if note != "" {
		s += " – " + note
	}
	return s
}

// HolidayNote renders the status line after a vacation report.
func HolidayNote(from, to time.Time) string {
	return "Registrert ferie (" + from.Format(domain.DisplayDateLayout) + "–" + to.Format(domain.DisplayDateLayout) + ")"
}

// AppendPickup adds a same-day pickup note to an existing status line.
func AppendPickup(status, pickup string) string {
	if status == "" {
		return "Henting: " + pickup
	}
	return status + " – Henting: " + pickup
}

// PickupLabel renders a plan for the child card.
func PickupLabel(p domain.PickupPlan) string {
	return "Henting " + p.Date.Format(domain.DisplayDateLayout) + ": " + p.Note
}

// ReasonLabel is the radio label for a staff registration reason.
func ReasonLabel(typ domain.AttendanceType, reason domain.StaffReason) string {
	switch reason {
	case domain.ReasonPickedUp:
		if typ == domain.AttendanceIn {
			return "Kommer tilbake etter avtale"
		}
		return "Hentet av foresatt"
	case domain.ReasonOther:
		return "Annen årsak"
	default:
		if typ == domain.AttendanceIn {
			return "Kommer til barnehagen"
		}
		return "Går hjem som normalt"
	}
}

// StaffAttendanceNote is the note sent with a staff IN/OUT registration.
func StaffAttendanceNote(typ domain.AttendanceType, reason domain.StaffReason, comment string) string {
	s := StaffToggleNote
	if reason == domain.ReasonPickedUp || reason == domain.ReasonOther {
		s += " – " + ReasonLabel(typ, reason)
	}
	if comment != "" {
		s += ": " + comment
	}
	return s
}
