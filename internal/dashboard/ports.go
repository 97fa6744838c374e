package dashboard

import (
	"context"

	"github.com/trygginn/trygginn/internal/api"
)

// AccountAPI covers the profile endpoints both dashboards use.
type AccountAPI interface {
	User(ctx context.Context, userID int64) (*api.UserProfile, error)
	UpdateUser(ctx context.Context, userID int64, req api.UpdateUserRequest) (*api.UserProfile, error)
	ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error
}

// ParentAPI is what the parent dashboard needs from the backend.
type ParentAPI interface {
	AccountAPI
	ChildrenForGuardian(ctx context.Context, guardianUserID int64) ([]api.ChildSummary, error)
	LatestStatus(ctx context.Context, childID int64) (*api.ChildStatus, error)
	ChildDetails(ctx context.Context, childID int64) (*api.ChildDetails, error)
	UpdateChildDetails(ctx context.Context, childID int64, req api.UpdateChildDetailsRequest) (*api.ChildDetails, error)
	RegisterAttendance(ctx context.Context, req api.AttendanceRequest) error
	RegisterAbsence(ctx context.Context, req api.AbsenceRequest) (*api.Absence, error)
	RegisterVacation(ctx context.Context, req api.VacationRequest) (*api.Vacation, error)
	AbsencesForChild(ctx context.Context, childID int64) ([]api.Absence, error)
	VacationsForChild(ctx context.Context, childID int64) ([]api.Vacation, error)
	EventsForGuardian(ctx context.Context, guardianUserID int64) ([]api.CalendarEvent, error)
}

// StaffAPI is what the staff dashboard needs from the backend.
type StaffAPI interface {
	AccountAPI
	GroupsForDaycare(ctx context.Context, daycareID int64) ([]api.DaycareGroup, error)
	LatestStatus(ctx context.Context, childID int64) (*api.ChildStatus, error)
	RegisterAttendance(ctx context.Context, req api.AttendanceRequest) error
	UserByEmail(ctx context.Context, email string) (*api.UserProfile, error)
	CreateChild(ctx context.Context, req api.CreateChildRequest) (*api.ChildSummary, error)
	ChildNote(ctx context.Context, childID int64) (*api.ChildNote, error)
	UpdateChildNote(ctx context.Context, childID int64, note string) (*api.ChildNote, error)
	EventsForDaycare(ctx context.Context, daycareID int64) ([]api.CalendarEvent, error)
	CreateEvent(ctx context.Context, req api.CreateEventRequest) (*api.CalendarEvent, error)
	UpdateEvent(ctx context.Context, eventID int64, req api.UpdateEventRequest) (*api.CalendarEvent, error)
	DeleteEvent(ctx context.Context, eventID, deletedByUserID int64) error
	CreateAccessCode(ctx context.Context, req api.CreateAccessCodeRequest) (*api.AccessCode, error)
}

var (
	_ ParentAPI = (*api.Client)(nil)
	_ StaffAPI  = (*api.Client)(nil)
)
