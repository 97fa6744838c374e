package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

type ChildSummary struct {
	ID               int64   `json:"id"`
	FirstName        string  `json:"firstName"`
	LastName         string  `json:"lastName"`
	DateOfBirth      string  `json:"dateOfBirth"`
	Active           bool    `json:"active"`
	DaycareGroupID   *int64  `json:"daycareGroupId"`
	DaycareGroupName *string `json:"daycareGroupName"`
	DaycareID        *int64  `json:"daycareId"`
	DaycareName      *string `json:"daycareName"`
}

// FullName joins first and last name.
func (c ChildSummary) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// GroupName returns the department name or "".
func (c ChildSummary) GroupName() string {
	if c.DaycareGroupName == nil {
		return ""
	}
	return *c.DaycareGroupName
}

type CreateChildRequest struct {
	GuardianUserID  int64  `json:"guardianUserId"`
	DaycareGroupID  int64  `json:"daycareGroupId"`
	CreatedByUserID int64  `json:"createdByUserId"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	DateOfBirth     string `json:"dateOfBirth"`
}

type ChildDetails struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Allergies    string `json:"allergies"`
	Medications  string `json:"medications"`
	FavoriteFood string `json:"favoriteFood"`
}

type UpdateChildDetailsRequest struct {
	Allergies    string `json:"allergies"`
	Medications  string `json:"medications"`
	FavoriteFood string `json:"favoriteFood"`
}

type ChildNote struct {
	ChildID   int64  `json:"childId"`
	ChildName string `json:"childName"`
	Note      string `json:"note"`
}

func (c *Client) ChildrenForGuardian(ctx context.Context, guardianUserID int64) ([]ChildSummary, error) {
	var out []ChildSummary
	if err := c.Do(ctx, http.MethodGet, fmt.Sprintf("/children/guardian/%d", guardianUserID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateChild(ctx context.Context, req CreateChildRequest) (*ChildSummary, error) {
	var out ChildSummary
	if err := c.Do(ctx, http.MethodPost, "/children", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ChildDetails(ctx context.Context, childID int64) (*ChildDetails, error) {
	var out ChildDetails
	if err := c.Do(ctx, http.MethodGet, fmt.Sprintf("/children/%d/details", childID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateChildDetails(ctx context.Context, childID int64, req UpdateChildDetailsRequest) (*ChildDetails, error) {
	var out ChildDetails
	if err := c.Do(ctx, http.MethodPut, fmt.Sprintf("/children/%d/details", childID), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ChildNote(ctx context.Context, childID int64) (*ChildNote, error) {
	var out ChildNote
	if err := c.Do(ctx, http.MethodGet, fmt.Sprintf("/children/%d/note", childID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateChildNote(ctx context.Context, childID int64, note string) (*ChildNote, error) {
	var out ChildNote
	body := map[string]string{"note": note}
	if err := c.Do(ctx, http.MethodPut, fmt.Sprintf("/children/%d/note", childID), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
