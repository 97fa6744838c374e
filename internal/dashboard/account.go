package dashboard

import (
	"context"
	"strings"

	"github.com/trygginn/trygginn/internal/api"
	"github.com/trygginn/trygginn/internal/domain"
)

// ProfileForm is the editable part of a user profile.
type ProfileForm struct {
	Name  string
	Email string
	Phone string
}

// PasswordForm is the change-password input.
type PasswordForm struct {
	Current string
	New     string
	Confirm string
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func (f ProfileForm) validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return invalid("Navn kan ikke være tomt.")
	}
	if e := strings.TrimSpace(f.Email); e != "" && !strings.Contains(e, "@") {
		return invalid("Ugyldig e-postadresse.")
	}
	return nil
}

func (f PasswordForm) validate() error {
	if f.New == "" {
		return invalid("Skriv inn et nytt passord.")
	}
	if f.New != f.Confirm {
		return invalid("Passordene er ikke like.")
	}
	return nil
}

func updateProfile(ctx context.Context, a AccountAPI, userID int64, form ProfileForm) (domain.UserProfile, error) {
	if err := form.validate(); err != nil {
		return domain.UserProfile{}, err
	}
	updated, err := a.UpdateUser(ctx, userID, api.UpdateUserRequest{
		FullName:    strings.TrimSpace(form.Name),
		Email:       optional(form.Email),
		PhoneNumber: optional(form.Phone),
	})
	if err != nil {
		return domain.UserProfile{}, err
	}
	return updated.ToDomain(), nil
}

func changePassword(ctx context.Context, a AccountAPI, userID int64, form PasswordForm) error {
	if err := form.validate(); err != nil {
		return err
	}
	return a.ChangePassword(ctx, userID, form.Current, form.New)
}

// fetchProfile falls back to what the session knows when the lookup fails.
func fetchProfile(ctx context.Context, a AccountAPI, s domain.Session) (domain.UserProfile, error) {
	u, err := a.User(ctx, s.UserID)
	if err != nil {
		return domain.UserProfile{ID: s.UserID, Name: s.UserName, Role: s.Role}, err
	}
	return u.ToDomain(), nil
}
