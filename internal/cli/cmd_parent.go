package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/trygginn/trygginn/internal/cli/formatter"
	"github.com/trygginn/trygginn/internal/dashboard"
	"github.com/trygginn/trygginn/internal/derive"
	"github.com/trygginn/trygginn/internal/domain"
)

func newCodeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "code <tilgangskode>",
		Short: "Sjekk en tilgangskode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := app.API.UseAccessCode(cmd.Context(), args[0], nil)
			if err != nil {
				return friendly(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (id %d)\n",
				formatter.Success("Gyldig kode for"), formatter.Bold(resp.DaycareName), resp.DaycareID)
			return nil
		},
	}
}

// loadParent signs in as a guardian and loads the dashboard.
func loadParent(cmd *cobra.Command, app *App, creds *credentials) (*dashboard.Parent, error) {
	sess, err := signIn(cmd, app, creds)
	if err != nil {
		return nil, err
	}
	if err := requireRole(sess, false); err != nil {
		return nil, err
	}
	p := dashboard.NewParent(app.API, sess, app.options())
	stop := formatter.StartSpinner(cmd.ErrOrStderr(), app.Interactive, "Henter barna …")
	err = p.Load(cmd.Context())
	stop()
	if err != nil {
		return nil, friendly(err)
	}
	return p, nil
}

func newChildrenCmd(app *App, creds *credentials) *cobra.Command {
	return &cobra.Command{
		Use:   "children",
		Short: "Vis barna dine med status og neste henting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadParent(cmd, app, creds)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatChildren(p.Children(), p.Today()))
			return nil
		},
	}
}

func newHistoryCmd(app *App, creds *credentials) *cobra.Command {
	return &cobra.Command{
		Use:   "history <barn-id>",
		Short: "Vis meldt fravær og ferie for et barn",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			childID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid child ID %q", args[0])
			}
			p, err := loadParent(cmd, app, creds)
			if err != nil {
				return err
			}
			records, err := p.History(cmd.Context(), childID)
			if err != nil {
				return friendly(err)
			}
			c, _ := p.Child(childID)
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatHistory(c.Name, records))
			return nil
		},
	}
}

func newCheckInCmd(app *App, creds *credentials) *cobra.Command {
	var (
		absent, holiday       bool
		date, note            string
		from, to              string
		pickupDate, pickupFor string
	)

	cmd := &cobra.Command{
		Use:   "checkin <barn-id>",
		Short: "Sjekk inn et barn, eller meld fravær eller ferie",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			childID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid child ID %q", args[0])
			}
			if absent && holiday {
				return errors.New("--absent and --holiday cannot be combined")
			}

			note = strings.TrimSpace(note)
			form := dashboard.CheckInForm{Option: domain.OptionPresent, PickupNote: strings.TrimSpace(pickupFor)}
			switch {
			case absent:
				form.Option = domain.OptionAbsent
				form.AbsenceNote = note
			case holiday:
				form.Option = domain.OptionHoliday
				form.HolidayNote = note
			}
			if form.AbsenceDate, err = parseDate(date); err != nil {
				return err
			}
			if form.HolidayFrom, err = parseDate(from); err != nil {
				return err
			}
			if form.HolidayTo, err = parseDate(to); err != nil {
				return err
			}
			if form.PickupDate, err = parseDate(pickupDate); err != nil {
				return err
			}

			p, err := loadParent(cmd, app, creds)
			if err != nil {
				return err
			}
			if err := p.OpenCheckIn(childID); err != nil {
				return friendly(err)
			}
			success, err := p.ConfirmCheckIn(cmd.Context(), form)
			if err != nil {
				return friendly(err)
			}

			out := cmd.OutOrStdout()
			if success != nil {
				fmt.Fprintln(out, formatter.FormatCheckInSuccess(success.ChildName, success.Department, success.Time))
			}
			c, ok := p.Child(childID)
			if !ok {
				return nil
			}
			fmt.Fprintf(out, "%s: %s\n", formatter.Bold(c.Name), c.Note)
			// The plan lives only in this process, so it is shown right away.
			if form.PickupNote != "" && len(c.PickupPlans) > 0 {
				fmt.Fprintln(out, derive.PickupLabel(c.PickupPlans[len(c.PickupPlans)-1]))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&absent, "absent", false, "Meld fravær i stedet for innsjekk")
	cmd.Flags().BoolVar(&holiday, "holiday", false, "Meld ferie i stedet for innsjekk")
	cmd.Flags().StringVar(&date, "date", "", "Dato for fravær (standard i dag)")
	cmd.Flags().StringVar(&note, "note", "", "Merknad til fravær eller ferie")
	cmd.Flags().StringVar(&from, "from", "", "Første feriedag")
	cmd.Flags().StringVar(&to, "to", "", "Siste feriedag")
	cmd.Flags().StringVar(&pickupDate, "pickup-date", "", "Dato for henting (standard i dag)")
	cmd.Flags().StringVar(&pickupFor, "pickup", "", "Hvem som henter")

	return cmd
}
