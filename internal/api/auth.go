package api

import (
	"context"
	"net/http"

	"github.com/trygginn/trygginn/internal/domain"
)

type LoginResponse struct {
	UserID   int64       `json:"userId"`
	FullName string      `json:"fullName"`
	Email    string      `json:"email"`
	Role     domain.Role `json:"role"`
}

type RegisterRequest struct {
	FullName    string  `json:"fullName"`
	Email       string  `json:"email"`
	PhoneNumber *string `json:"phoneNumber,omitempty"`
	Password    string  `json:"password"`
}

type RegisterResponse struct {
	UserID   int64       `json:"userId"`
	FullName string      `json:"fullName"`
	Email    string      `json:"email"`
	Role     domain.Role `json:"role"`
	Message  string      `json:"message"`
}

// Login exchanges credentials for the user's identity and role.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var out LoginResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.Do(ctx, http.MethodPost, "/auth/login", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RegisterParent creates a new PARENT account.
func (c *Client) RegisterParent(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	var out RegisterResponse
	if err := c.Do(ctx, http.MethodPost, "/auth/register", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
