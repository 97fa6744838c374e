package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/trygginn/trygginn/internal/cli/formatter"
	"github.com/trygginn/trygginn/internal/dashboard"
	"github.com/trygginn/trygginn/internal/domain"
)

func loadStaff(cmd *cobra.Command, app *App, creds *credentials) (*dashboard.Staff, error) {
	sess, err := signIn(cmd, app, creds)
	if err != nil {
		return nil, err
	}
	if err := requireRole(sess, true); err != nil {
		return nil, err
	}
	s := dashboard.NewStaff(app.API, sess, app.options())
	stop := formatter.StartSpinner(cmd.ErrOrStderr(), app.Interactive, "Henter avdelinger …")
	err = s.Load(cmd.Context())
	stop()
	if err != nil {
		return nil, friendly(err)
	}
	return s, nil
}

func newStaffCmd(app *App, creds *credentials) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "staff",
		Short: "Oversikt og inn/ut-registrering for ansatte",
	}
	cmd.AddCommand(newStaffOverviewCmd(app, creds), newStaffToggleCmd(app, creds), newStaffNoteCmd(app, creds))
	return cmd
}

func newStaffOverviewCmd(app *App, creds *credentials) *cobra.Command {
	return &cobra.Command{
		Use:   "overview",
		Short: "Vis alle avdelinger med oppmøte",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadStaff(cmd, app, creds)
			if err != nil {
				return err
			}
			in, total := s.Counts()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n%s\n\n", formatter.Header("Oversikt"), formatter.RenderAttendance(in, total, 16))
			fmt.Fprintln(out, formatter.FormatStaffOverview(s.Departments()))
			return nil
		},
	}
}

func newStaffToggleCmd(app *App, creds *credentials) *cobra.Command {
	var reason, comment string

	cmd := &cobra.Command{
		Use:   "toggle <barn-id>",
		Short: "Registrer et barn inn eller ut",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			childID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid child ID %q", args[0])
			}
			r, err := domain.ParseStaffReason(reason)
			if err != nil {
				return err
			}

			s, err := loadStaff(cmd, app, creds)
			if err != nil {
				return err
			}
			if err := s.Toggle(cmd.Context(), childID, r, comment); err != nil {
				return friendly(err)
			}
			row, _ := s.Row(childID)
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s  %s\n",
				formatter.PresenceBadge(row.Presence), formatter.Bold(row.Name), row.Note)
			return nil
		},
	}

	cmd.Flags().StringVar(&reason, "reason", string(domain.ReasonNormal), "Årsak: normal, picked_up eller other")
	cmd.Flags().StringVar(&comment, "comment", "", "Kommentar til registreringen")
	return cmd
}

func newStaffNoteCmd(app *App, creds *credentials) *cobra.Command {
	var clear bool

	cmd := &cobra.Command{
		Use:   "note <barn-id> [tekst]",
		Short: "Vis eller endre notatet på et barn",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			childID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid child ID %q", args[0])
			}
			if clear && len(args) == 2 {
				return errors.New("--clear cannot be combined with a note")
			}

			s, err := loadStaff(cmd, app, creds)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if clear || len(args) == 2 {
				var text string
				if len(args) == 2 {
					text = args[1]
				}
				if err := s.SetChildNote(ctx, childID, text); err != nil {
					return friendly(err)
				}
			}
			note, err := s.ChildNote(ctx, childID)
			if err != nil {
				return friendly(err)
			}
			row, _ := s.Row(childID)
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", formatter.Bold(row.Name), domain.CoalesceStr(note, formatter.Dim("ingen notat")))
			return nil
		},
	}

	cmd.Flags().BoolVar(&clear, "clear", false, "Fjern notatet")
	return cmd
}
