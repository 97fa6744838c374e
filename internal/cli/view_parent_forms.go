package cli

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/trygginn/trygginn/internal/dashboard"
	"github.com/trygginn/trygginn/internal/domain"
)

// checkInInput holds the raw strings typed into the check-in form.
type checkInInput struct {
	option      domain.CheckInOption
	absenceDate string
	absenceNote string
	holidayFrom string
	holidayTo   string
	holidayNote string
	pickupDate  string
	pickupNote  string

	// today fills a blank pickup date when someone is named to pick up.
	today time.Time
}

func (in checkInInput) form() dashboard.CheckInForm {
	pickupNote := strings.TrimSpace(in.pickupNote)
	pickupDate := mustDate(in.pickupDate)
	if pickupDate == nil && pickupNote != "" && !in.today.IsZero() {
		today := domain.DateOnly(in.today)
		pickupDate = &today
	}
	return dashboard.CheckInForm{
		Option:      in.option,
		AbsenceDate: mustDate(in.absenceDate),
		AbsenceNote: strings.TrimSpace(in.absenceNote),
		HolidayFrom: mustDate(in.holidayFrom),
		HolidayTo:   mustDate(in.holidayTo),
		HolidayNote: strings.TrimSpace(in.holidayNote),
		PickupDate:  pickupDate,
		PickupNote:  pickupNote,
	}
}

func (v *parentView) startCheckInForm(c domain.Child) tea.Cmd {
	in := &checkInInput{option: domain.OptionPresent, today: v.ctrl.Today()}
	form := newForm(
		huh.NewGroup(
			huh.NewSelect[domain.CheckInOption]().
				Title("Hvordan blir dagen for "+c.Name+"?").
				Options(
					huh.NewOption("Til stede", domain.OptionPresent),
					huh.NewOption("Fravær", domain.OptionAbsent),
					huh.NewOption("Ferie", domain.OptionHoliday),
				).
				Value(&in.option),
		),
		huh.NewGroup(
			dateInput("Dato for fravær (tom for i dag)", &in.absenceDate),
			textInput("Merknad", &in.absenceNote),
		).WithHideFunc(func() bool { return in.option != domain.OptionAbsent }),
		huh.NewGroup(
			dateInput("Ferie fra", &in.holidayFrom),
			dateInput("Ferie til", &in.holidayTo),
			textInput("Merknad", &in.holidayNote),
		).WithHideFunc(func() bool { return in.option != domain.OptionHoliday }),
		huh.NewGroup(
			dateInput("Hentedato (tom for i dag)", &in.pickupDate),
			textInput("Hvem henter?", &in.pickupNote),
		),
	)

	ctrl, ctx := v.ctrl, v.state.Ctx
	return startWizardCmd(v.state, "Registrer dagen", form, func() tea.Cmd {
		notice := ""
		switch in.option {
		case domain.OptionAbsent:
			notice = "Fravær er registrert for " + c.Name + "."
		case domain.OptionHoliday:
			notice = "Ferie er registrert for " + c.Name + "."
		}
		return v.run(c.ID, notice, func() error {
			_, err := ctrl.ConfirmCheckIn(ctx, in.form())
			return err
		})
	})
}

func (v *parentView) startProfileForm() tea.Cmd {
	p := v.ctrl.Profile()
	in := &dashboard.ProfileForm{Name: p.Name, Email: p.Email, Phone: p.Phone}
	form := profileForm(in)
	ctrl, ctx := v.ctrl, v.state.Ctx
	return startWizardCmd(v.state, "Rediger profil", form, func() tea.Cmd {
		return v.run(0, "Profilen er lagret.", func() error { return ctrl.UpdateProfile(ctx, *in) })
	})
}

// profileForm and passwordForm are shared by both dashboards.
func profileForm(in *dashboard.ProfileForm) *huh.Form {
	return newForm(huh.NewGroup(
		requiredInput("Navn", &in.Name),
		huh.NewInput().Title("E-post").Value(&in.Email).Validate(validateEmail),
		textInput("Telefon", &in.Phone),
	))
}

func passwordForm(in *dashboard.PasswordForm) *huh.Form {
	return newForm(huh.NewGroup(
		passwordInput("Nåværende passord", &in.Current),
		passwordInput("Nytt passord", &in.New),
		passwordInput("Gjenta nytt passord", &in.Confirm),
	))
}

func (v *parentView) startPasswordForm() tea.Cmd {
	in := &dashboard.PasswordForm{}
	ctrl, ctx := v.ctrl, v.state.Ctx
	return startWizardCmd(v.state, "Bytt passord", passwordForm(in), func() tea.Cmd {
		return v.run(0, "Passordet er endret.", func() error { return ctrl.ChangePassword(ctx, *in) })
	})
}

// startDetailsForm edits allergies and other info for every child, one
// page per child.
func (v *parentView) startDetailsForm() tea.Cmd {
	children := v.ctrl.Children()
	if len(children) == 0 {
		return nil
	}
	updates := make([]dashboard.ChildDetailsUpdate, len(children))
	groups := make([]*huh.Group, len(children))
	for i, c := range children {
		updates[i] = dashboard.ChildDetailsUpdate{ChildID: c.ID, Allergies: c.Allergies, OtherInfo: c.OtherInfo}
		groups[i] = huh.NewGroup(
			huh.NewNote().Title(c.Name),
			textInput("Allergier", &updates[i].Allergies),
			textInput("Annen informasjon", &updates[i].OtherInfo),
		)
	}
	ctrl, ctx := v.ctrl, v.state.Ctx
	return startWizardCmd(v.state, "Rediger barn", newForm(groups...), func() tea.Cmd {
		return v.run(0, "Opplysningene er lagret.", func() error { return ctrl.SaveChildDetails(ctx, updates) })
	})
}
