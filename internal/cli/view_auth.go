package cli

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/trygginn/trygginn/internal/api"
	"github.com/trygginn/trygginn/internal/domain"
)

// loggedInMsg carries the result of a login attempt.
type loggedInMsg struct {
	resp *api.LoginResponse
	err  error
}

// registeredMsg carries the result of creating a parent account.
type registeredMsg struct {
	err error
}

func (v *welcomeView) startLogin() tea.Cmd {
	var email, password string
	form := newForm(huh.NewGroup(
		huh.NewInput().Title("E-post").Value(&email).Validate(validateEmail),
		passwordInput("Passord", &password).Validate(validateRequired("Passord")),
	))
	state := v.state
	return startWizardCmd(state, "Logg inn", form, func() tea.Cmd {
		v.busy = "Logger inn …"
		return func() tea.Msg {
			resp, err := state.App.API.Login(state.Ctx, strings.TrimSpace(email), password)
			return loggedInMsg{resp: resp, err: err}
		}
	})
}

// enterDashboard replaces the stack with the dashboard for the user's role.
func (v *welcomeView) enterDashboard(msg loggedInMsg) tea.Cmd {
	v.state.SignIn(domain.Session{
		UserID:   msg.resp.UserID,
		UserName: msg.resp.FullName,
		Role:     msg.resp.Role,
	})
	v.state.App.logger().Info("signed in", "user_id", msg.resp.UserID, "role", msg.resp.Role)
	if msg.resp.Role.IsStaff() {
		return resetViews(newStaffView(v.state))
	}
	return resetViews(newParentView(v.state))
}

type registerInput struct {
	name, email, phone, password, confirm string
}

func (v *welcomeView) startRegister() tea.Cmd {
	in := &registerInput{}
	form := newForm(
		huh.NewGroup(
			requiredInput("Fullt navn", &in.name),
			huh.NewInput().Title("E-post").Value(&in.email).Validate(validateEmail),
			textInput("Telefon", &in.phone),
		),
		huh.NewGroup(
			passwordInput("Passord", &in.password).Validate(validateRequired("Passord")),
			passwordInput("Gjenta passord", &in.confirm).Validate(func(s string) error {
				if s != in.password {
					return errors.New("passordene er ikke like")
				}
				return nil
			}),
		),
	)
	state := v.state
	return startWizardCmd(state, "Ny bruker", form, func() tea.Cmd {
		v.busy = "Oppretter bruker …"
		return func() tea.Msg {
			return registeredMsg{err: register(state, *in)}
		}
	})
}

// register creates the account, then redeems the access code so the new
// guardian is linked to the kindergarten.
func register(state *SharedState, in registerInput) error {
	req := api.RegisterRequest{
		FullName: strings.TrimSpace(in.name),
		Email:    strings.TrimSpace(in.email),
		Password: in.password,
	}
	if p := strings.TrimSpace(in.phone); p != "" {
		req.PhoneNumber = &p
	}
	resp, err := state.App.API.RegisterParent(state.Ctx, req)
	if err != nil {
		return err
	}
	if state.Daycare == nil || state.Daycare.Code == "" {
		return nil
	}
	userID := resp.UserID
	if _, err := state.App.API.UseAccessCode(state.Ctx, state.Daycare.Code, &userID); err != nil {
		return err
	}
	return nil
}

// startReset collects the e-mail address for a password reset. The
// backend has no reset endpoint, so the request is only logged locally.
func (v *welcomeView) startReset() tea.Cmd {
	var email string
	form := newForm(huh.NewGroup(
		huh.NewInput().
			Title("E-post").
			Description("Vi sender deg en lenke for å lage nytt passord.").
			Value(&email).
			Validate(validateEmail),
	))
	state := v.state
	return startWizardCmd(state, "Glemt passord", form, func() tea.Cmd {
		state.App.logger().Info("password reset requested", "email", strings.TrimSpace(email))
		return notify("Hvis e-postadressen er registrert, får du en e-post med videre instruksjoner.")
	})
}
