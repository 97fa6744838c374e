package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/trygginn/trygginn/internal/domain"
)

// ChildStatus is the latest attendance event for a child. LastEventType
// is nil when the child has never been registered.
type ChildStatus struct {
	ChildID       int64                  `json:"childId"`
	ChildName     string                 `json:"childName"`
	LastEventType *domain.AttendanceType `json:"lastEventType"`
	LastEventTime *Timestamp             `json:"lastEventTime"`
	StatusText    string                 `json:"statusText"`
}

// Event returns the latest event, or nil when there is none.
func (s *ChildStatus) Event() *domain.AttendanceEvent {
	if s == nil || s.LastEventType == nil {
		return nil
	}
	ev := &domain.AttendanceEvent{Type: *s.LastEventType}
	if t := s.LastEventTime.Ptr(); t != nil {
		ev.Time = *t
	}
	return ev
}

type AttendanceRequest struct {
	ChildID           int64                 `json:"childId"`
	PerformedByUserID int64                 `json:"performedByUserId"`
	EventType         domain.AttendanceType `json:"eventType"`
	Note              string                `json:"note,omitempty"`
}

type AbsenceRequest struct {
	ChildID          int64  `json:"childId"`
	ReportedByUserID int64  `json:"reportedByUserId"`
	Date             string `json:"date"`
	Reason           string `json:"reason"`
	Note             string `json:"note,omitempty"`
}

type Absence struct {
	ID               int64     `json:"id"`
	ChildID          int64     `json:"childId"`
	ChildName        string    `json:"childName"`
	Date             Timestamp `json:"date"`
	Reason           string    `json:"reason"`
	Note             string    `json:"note"`
	ReportedByUserID int64     `json:"reportedByUserId"`
	ReportedByName   string    `json:"reportedByName"`
}

type VacationRequest struct {
	ChildID          int64  `json:"childId"`
	ReportedByUserID int64  `json:"reportedByUserId"`
	StartDate        string `json:"startDate"`
	EndDate          string `json:"endDate"`
	Note             string `json:"note"`
}

type Vacation struct {
	ID               int64     `json:"id"`
	ChildID          int64     `json:"childId"`
	ChildName        string    `json:"childName"`
	ReportedByUserID int64     `json:"reportedByUserId"`
	ReportedByName   string    `json:"reportedByName"`
	StartDate        Timestamp `json:"startDate"`
	EndDate          Timestamp `json:"endDate"`
	Note             string    `json:"note"`
	CreatedAt        Timestamp `json:"createdAt"`
}

// LatestStatus fetches the newest IN/OUT event. A child without any
// record yields an error matching ErrNotFound.
func (c *Client) LatestStatus(ctx context.Context, childID int64) (*ChildStatus, error) {
	var out ChildStatus
	if err := c.Do(ctx, http.MethodGet, fmt.Sprintf("/attendance/child/%d/latest", childID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RegisterAttendance(ctx context.Context, req AttendanceRequest) error {
	return c.Do(ctx, http.MethodPost, "/attendance", req, nil)
}

func (c *Client) RegisterAbsence(ctx context.Context, req AbsenceRequest) (*Absence, error) {
	var out Absence
	if err := c.Do(ctx, http.MethodPost, "/absence", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AbsencesForChild(ctx context.Context, childID int64) ([]Absence, error) {
	var out []Absence
	if err := c.Do(ctx, http.MethodGet, fmt.Sprintf("/absence/child/%d", childID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) RegisterVacation(ctx context.Context, req VacationRequest) (*Vacation, error) {
	var out Vacation
	if err := c.Do(ctx, http.MethodPost, "/vacation", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) VacationsForChild(ctx context.Context, childID int64) ([]Vacation, error) {
	var out []Vacation
	if err := c.Do(ctx, http.MethodGet, fmt.Sprintf("/vacation/child/%d", childID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
