package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/trygginn/trygginn/internal/domain"
)

type CalendarEvent struct {
	ID               int64      `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Location         string     `json:"location"`
	StartTime        Timestamp  `json:"startTime"`
	EndTime          *Timestamp `json:"endTime"`
	DaycareID        int64      `json:"daycareId"`
	DaycareGroupID   *int64     `json:"daycareGroupId"`
	DaycareGroupName *string    `json:"daycareGroupName"`
}

// ToDomain maps the DTO; events without a group belong to the whole kindergarten.
func (e CalendarEvent) ToDomain() domain.KindergartenEvent {
	scope := domain.ScopeWholeKindergarten
	if e.DaycareGroupName != nil && *e.DaycareGroupName != "" {
		scope = *e.DaycareGroupName
	}
	return domain.KindergartenEvent{
		ID:          e.ID,
		Start:       e.StartTime.Time,
		End:         e.EndTime.Ptr(),
		Title:       e.Title,
		Description: e.Description,
		Location:    e.Location,
		Scope:       scope,
		GroupID:     e.DaycareGroupID,
	}
}

type CreateEventRequest struct {
	DaycareID       int64      `json:"daycareId"`
	DaycareGroupID  *int64     `json:"daycareGroupId"`
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	Location        string     `json:"location,omitempty"`
	StartTime       Timestamp  `json:"startTime"`
	EndTime         *Timestamp `json:"endTime"`
	CreatedByUserID int64      `json:"createdByUserId"`
}

type UpdateEventRequest struct {
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	Location        string     `json:"location,omitempty"`
	StartTime       Timestamp  `json:"startTime"`
	EndTime         *Timestamp `json:"endTime"`
	UpdatedByUserID int64      `json:"updatedByUserId"`
}

func (c *Client) EventsForDaycare(ctx context.Context, daycareID int64) ([]CalendarEvent, error) {
	var out []CalendarEvent
	if err := c.Do(ctx, http.MethodGet, fmt.Sprintf("/calendar-events/daycare/%d", daycareID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// EventsForGuardian returns events for every daycare the guardian's children attend.
func (c *Client) EventsForGuardian(ctx context.Context, guardianUserID int64) ([]CalendarEvent, error) {
	var out []CalendarEvent
	if err := c.Do(ctx, http.MethodGet, fmt.Sprintf("/calendar-events/guardian/%d", guardianUserID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateEvent(ctx context.Context, req CreateEventRequest) (*CalendarEvent, error) {
	var out CalendarEvent
	if err := c.Do(ctx, http.MethodPost, "/calendar-events", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateEvent(ctx context.Context, eventID int64, req UpdateEventRequest) (*CalendarEvent, error) {
	var out CalendarEvent
	if err := c.Do(ctx, http.MethodPut, fmt.Sprintf("/calendar-events/%d", eventID), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteEvent(ctx context.Context, eventID, deletedByUserID int64) error {
	path := fmt.Sprintf("/calendar-events/%d?deletedByUserId=%d", eventID, deletedByUserID)
	return c.Do(ctx, http.MethodDelete, path, nil, nil)
}
