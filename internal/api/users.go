package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/trygginn/trygginn/internal/domain"
)

type UserProfile struct {
	ID          int64       `json:"id"`
	FullName    string      `json:"fullName"`
	Email       string      `json:"email"`
	PhoneNumber string      `json:"phoneNumber"`
	Role        domain.Role `json:"role"`
}

// ToDomain maps the DTO onto the view model.
func (u UserProfile) ToDomain() domain.UserProfile {
	return domain.UserProfile{ID: u.ID, Name: u.FullName, Email: u.Email, Phone: u.PhoneNumber, Role: u.Role}
}

type UpdateUserRequest struct {
	FullName    string  `json:"fullName"`
	Email       *string `json:"email"`
	PhoneNumber *string `json:"phoneNumber"`
}

func (c *Client) User(ctx context.Context, userID int64) (*UserProfile, error) {
	var out UserProfile
	if err := c.Do(ctx, http.MethodGet, fmt.Sprintf("/users/%d", userID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateUser(ctx context.Context, userID int64, req UpdateUserRequest) (*UserProfile, error) {
	var out UserProfile
	if err := c.Do(ctx, http.MethodPut, fmt.Sprintf("/users/%d", userID), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UserByEmail looks up a user, typically to validate a guardian's email.
func (c *Client) UserByEmail(ctx context.Context, email string) (*UserProfile, error) {
	var out UserProfile
	path := "/users/by-email?email=" + url.QueryEscape(email)
	if err := c.Do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ChangePassword sends an empty current password when none is given.
func (c *Client) ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error {
	body := map[string]string{"currentPassword": currentPassword, "newPassword": newPassword}
	return c.Do(ctx, http.MethodPut, fmt.Sprintf("/users/%d/password", userID), body, nil)
}
