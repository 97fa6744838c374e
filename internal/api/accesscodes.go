package api

import (
	"context"
	"net/http"
)

type UseAccessCodeResponse struct {
	DaycareID   int64  `json:"daycareId"`
	DaycareName string `json:"daycareName"`
	Message     string `json:"message"`
}

type CreateAccessCodeRequest struct {
	DaycareID       int64      `json:"daycareId"`
	CreatedByUserID int64      `json:"createdByUserId"`
	MaxUses         *int       `json:"maxUses,omitempty"`
	ExpiresAt       *Timestamp `json:"expiresAt,omitempty"`
}

type AccessCode struct {
	Code      string    `json:"code"`
	DaycareID int64     `json:"daycareId"`
	MaxUses   int       `json:"maxUses"`
	UsedCount int       `json:"usedCount"`
	Active    bool      `json:"active"`
	ExpiresAt Timestamp `json:"expiresAt"`
}

// UseAccessCode redeems code for guardianUserID. A nil guardian only
// validates the code without consuming it.
func (c *Client) UseAccessCode(ctx context.Context, code string, guardianUserID *int64) (*UseAccessCodeResponse, error) {
	body := struct {
		Code           string `json:"code"`
		GuardianUserID *int64 `json:"guardianUserId"`
	}{code, guardianUserID}

	var out UseAccessCodeResponse
	if err := c.Do(ctx, http.MethodPost, "/access-codes/use", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateAccessCode(ctx context.Context, req CreateAccessCodeRequest) (*AccessCode, error) {
	var out AccessCode
	if err := c.Do(ctx, http.MethodPost, "/access-codes", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
