package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/trygginn/trygginn/internal/dashboard"
	"github.com/trygginn/trygginn/internal/derive"
	"github.com/trygginn/trygginn/internal/domain"
)

// startToggleForm asks why a child comes or goes before registering it.
func (v *staffView) startToggleForm(row domain.StaffChild) tea.Cmd {
	typ, err := v.ctrl.NextAttendance(row.ID)
	if err != nil {
		return notifyErr(err)
	}
	verb := "inn"
	if typ == domain.AttendanceOut {
		verb = "ut"
	}

	reason := domain.ReasonNormal
	var comment string
	options := make([]huh.Option[domain.StaffReason], 0, 3)
	for _, r := range []domain.StaffReason{domain.ReasonNormal, domain.ReasonPickedUp, domain.ReasonOther} {
		options = append(options, huh.NewOption(derive.ReasonLabel(typ, r), r))
	}
	form := newForm(huh.NewGroup(
		huh.NewSelect[domain.StaffReason]().
			Title(fmt.Sprintf("Registrer %s %s", row.Name, verb)).
			Options(options...).
			Value(&reason),
		textInput("Kommentar", &comment),
	))

	ctrl, ctx := v.ctrl, v.state.Ctx
	return startWizardCmd(v.state, "Registrer "+verb, form, func() tea.Cmd {
		return v.run(row.ID, "", func() error { return ctrl.Toggle(ctx, row.ID, reason, comment) })
	})
}

func (v *staffView) startChildForm() tea.Cmd {
	groups := v.ctrl.Groups()
	if len(groups) == 0 {
		return notify("Opprett en avdeling før du registrerer barn.")
	}
	in := &dashboard.ChildForm{GroupID: groups[0].ID}
	options := make([]huh.Option[int64], 0, len(groups))
	for _, g := range groups {
		options = append(options, huh.NewOption(g.Name, g.ID))
	}
	form := newForm(
		huh.NewGroup(
			textInput("Fornavn", &in.FirstName),
			textInput("Etternavn", &in.LastName),
			huh.NewInput().Title("Fødselsdato").Placeholder("ÅÅÅÅ-MM-DD").Value(&in.DateOfBirth),
		),
		huh.NewGroup(
			huh.NewSelect[int64]().Title("Avdeling").Options(options...).Value(&in.GroupID),
			textInput("Foresattes e-post", &in.GuardianEmail),
		),
	)

	ctrl, ctx := v.ctrl, v.state.Ctx
	return startWizardCmd(v.state, "Nytt barn", form, func() tea.Cmd {
		return func() tea.Msg {
			row, err := ctrl.RegisterChild(ctx, *in)
			if err != nil {
				return staffDoneMsg{err: err}
			}
			return staffDoneMsg{notice: fmt.Sprintf("%s er registrert i %s.", row.Name, row.GroupName)}
		}
	})
}

func (v *staffView) startAccessCodeForm() tea.Cmd {
	var uses, expires string
	form := newForm(huh.NewGroup(
		huh.NewInput().
			Title("Antall bruk").
			Description("Tom for standard.").
			Value(&uses).
			Validate(validateOptionalCount),
		dateTimeInput("Utløper", &expires),
	))

	ctrl, ctx := v.ctrl, v.state.Ctx
	return startWizardCmd(v.state, "Ny tilgangskode", form, func() tea.Cmd {
		return func() tea.Msg {
			n, _ := strconv.Atoi(strings.TrimSpace(uses))
			code, err := ctrl.CreateAccessCode(ctx, n, mustDateTime(expires))
			if err != nil {
				return staffDoneMsg{err: err}
			}
			return staffDoneMsg{notice: "Ny tilgangskode: " + code.Code}
		}
	})
}

type eventInput struct {
	title, description, location, start, end string
	groupID                                  int64
}

func (in eventInput) form() dashboard.EventForm {
	f := dashboard.EventForm{
		Title:       in.title,
		Description: in.description,
		Location:    in.location,
		End:         mustDateTime(in.end),
	}
	if t := mustDateTime(in.start); t != nil {
		f.Start = *t
	}
	if in.groupID != 0 {
		id := in.groupID
		f.GroupID = &id
	}
	return f
}

// startEventForm creates an event, or edits existing when it is non-nil.
// An edit keeps the event's department.
func (v *staffView) startEventForm(existing *domain.KindergartenEvent) tea.Cmd {
	in := &eventInput{}
	title := "Ny hendelse"
	if existing != nil {
		title = "Rediger hendelse"
		in.title = existing.Title
		in.description = existing.Description
		in.location = existing.Location
		in.start = existing.Start.Format(dateTimeLayout)
		if existing.End != nil {
			in.end = existing.End.Format(dateTimeLayout)
		}
	}

	fields := []huh.Field{
		textInput("Tittel", &in.title),
		textInput("Beskrivelse", &in.description),
		textInput("Sted", &in.location),
		dateTimeInput("Start", &in.start),
		dateTimeInput("Slutt", &in.end),
	}
	if existing == nil {
		options := []huh.Option[int64]{huh.NewOption(domain.ScopeWholeKindergarten, int64(0))}
		for _, g := range v.ctrl.Groups() {
			options = append(options, huh.NewOption(g.Name, g.ID))
		}
		fields = append(fields, huh.NewSelect[int64]().Title("Gjelder").Options(options...).Value(&in.groupID))
	}
	form := newForm(huh.NewGroup(fields...))

	ctrl, ctx := v.ctrl, v.state.Ctx
	return startWizardCmd(v.state, title, form, func() tea.Cmd {
		if existing == nil {
			return v.run(0, "Hendelsen er lagt til.", func() error {
				_, err := ctrl.CreateEvent(ctx, in.form())
				return err
			})
		}
		id := existing.ID
		return v.run(0, "Hendelsen er oppdatert.", func() error {
			_, err := ctrl.UpdateEvent(ctx, id, in.form())
			return err
		})
	})
}

func (v *staffView) startDeleteEvent(ev domain.KindergartenEvent) tea.Cmd {
	confirmed := false
	form := newForm(huh.NewGroup(
		huh.NewConfirm().
			Title(fmt.Sprintf("Slette «%s»?", ev.Title)).
			Affirmative("Slett").
			Negative("Avbryt").
			Value(&confirmed),
	))
	ctrl, ctx := v.ctrl, v.state.Ctx
	return startWizardCmd(v.state, "Slett hendelse", form, func() tea.Cmd {
		if !confirmed {
			return nil
		}
		return v.run(0, "Hendelsen er slettet.", func() error { return ctrl.DeleteEvent(ctx, ev.ID) })
	})
}

func (v *staffView) startProfileForm() tea.Cmd {
	p := v.ctrl.Profile()
	in := &dashboard.ProfileForm{Name: p.Name, Email: p.Email, Phone: p.Phone}
	form := profileForm(in)
	ctrl, ctx := v.ctrl, v.state.Ctx
	return startWizardCmd(v.state, "Rediger profil", form, func() tea.Cmd {
		return v.run(0, "Profilen er lagret.", func() error { return ctrl.UpdateProfile(ctx, *in) })
	})
}

func (v *staffView) startPasswordForm() tea.Cmd {
	in := &dashboard.PasswordForm{}
	ctrl, ctx := v.ctrl, v.state.Ctx
	return startWizardCmd(v.state, "Bytt passord", passwordForm(in), func() tea.Cmd {
		return v.run(0, "Passordet er endret.", func() error { return ctrl.ChangePassword(ctx, *in) })
	})
}
