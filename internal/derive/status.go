package derive

import (
	"github.com/trygginn/trygginn/internal/domain"
)

// ParentStatus is the child card state derived from the latest event.
type ParentStatus struct {
	Status      domain.ChildStatus
	LastCheckIn string
	Note        string
}

// StatusFromEvent derives the parent-facing status. A nil event means the
// child has no record yet.
func StatusFromEvent(ev *domain.AttendanceEvent) ParentStatus {
	if ev == nil {
		return ParentStatus{Status: domain.StatusNotCheckedIn, Note: NoteNoRecord}
	}
	hhmm := ev.Time.Format(domain.TimeLayout)
	switch ev.Type {
	case domain.AttendanceIn:
		return ParentStatus{Status: domain.StatusCheckedIn, LastCheckIn: hhmm, Note: "Krysset inn " + hhmm}
	case domain.AttendanceOut:
		return ParentStatus{Status: domain.StatusNotCheckedIn, Note: "Sist registrert: ute " + hhmm}
	default:
		return ParentStatus{Status: domain.StatusNotCheckedIn, Note: NoteNoRecord}
	}
}

// NoteNoRecord is shown for a child with no attendance events.
const NoteNoRecord = "Ikke krysset inn ennå"

// PresenceFromEvent derives the staff row presence and its note.
func PresenceFromEvent(ev *domain.AttendanceEvent) (domain.Presence, string) {
	if ev == nil {
		return domain.PresenceNone, "Ingen registrering"
	}
	hhmm := ev.Time.Format(domain.TimeLayout)
	switch ev.Type {
	case domain.AttendanceIn:
		return domain.PresenceIn, "Inne · " + hhmm
	case domain.AttendanceOut:
		return domain.PresenceOut, "Ute · " + hhmm
	default:
		return domain.PresenceNone, "Ingen registrering"
	}
}

// ChildStatusFromPresence maps a staff row onto the parent status enum.
func ChildStatusFromPresence(p domain.Presence) domain.ChildStatus {
	if p == domain.PresenceIn {
		return domain.StatusCheckedIn
	}
	return domain.StatusNotCheckedIn
}
