package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/trygginn/trygginn/internal/cli/formatter"
	"github.com/trygginn/trygginn/internal/dashboard"
	"github.com/trygginn/trygginn/internal/domain"
	"github.com/trygginn/trygginn/internal/ical"
)

// calendarSource is the part of either dashboard the calendar command reads.
type calendarSource interface {
	Load(ctx context.Context) error
	Events() []domain.KindergartenEvent
	Today() time.Time
	Close()
}

func newCalendarCmd(app *App, creds *credentials) *cobra.Command {
	var icsPath string

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Vis barnehagens kalender eller eksporter den som iCalendar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := signIn(cmd, app, creds)
			if err != nil {
				return err
			}
			var src calendarSource
			if sess.Role.IsStaff() {
				src = dashboard.NewStaff(app.API, sess, app.options())
			} else {
				src = dashboard.NewParent(app.API, sess, app.options())
			}
			defer src.Close()

			stop := formatter.StartSpinner(cmd.ErrOrStderr(), app.Interactive, "Henter kalenderen …")
			err = src.Load(cmd.Context())
			stop()
			if err != nil {
				return friendly(err)
			}

			if icsPath == "" {
				lang := app.Prefs.Language()
				fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatCalendar(src.Events(), src.Today(), lang))
				return nil
			}
			return exportCalendar(cmd.OutOrStdout(), icsPath, domain.CoalesceStr(sess.DaycareName, "Barnehagen"), src.Events(), app.now())
		},
	}

	cmd.Flags().StringVar(&icsPath, "ics", "", "Skriv kalenderen som .ics til filen (- for stdout)")
	return cmd
}

func exportCalendar(stdout io.Writer, path, name string, events []domain.KindergartenEvent, stamp time.Time) error {
	if path == "-" {
		return ical.Export(stdout, name, events, stamp)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := ical.Export(f, name, events, stamp); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%s %d hendelser til %s\n", formatter.Success("Eksporterte"), len(events), path)
	return nil
}
