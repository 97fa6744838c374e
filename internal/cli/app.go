package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/trygginn/trygginn/internal/api"
	"github.com/trygginn/trygginn/internal/config"
	"github.com/trygginn/trygginn/internal/dashboard"
	"github.com/trygginn/trygginn/internal/prefs"
)

// Backend is everything the client calls on the kindergarten API.
type Backend interface {
	dashboard.ParentAPI
	dashboard.StaffAPI
	Login(ctx context.Context, email, password string) (*api.LoginResponse, error)
	RegisterParent(ctx context.Context, req api.RegisterRequest) (*api.RegisterResponse, error)
	UseAccessCode(ctx context.Context, code string, guardianUserID *int64) (*api.UseAccessCodeResponse, error)
}

var _ Backend = (*api.Client)(nil)

// App holds what the TUI and the one-shot commands share.
type App struct {
	Config config.Config
	API    Backend
	Prefs  *prefs.Store
	Logger *slog.Logger

	// Now is the clock handed to dashboard controllers.
	Now func() time.Time
	// SystemDark reports the terminal background for theme fallback.
	SystemDark func() bool
	// Stdin is read by the password prompt and the TUI.
	Stdin io.Reader
	// Interactive reports whether stdin is a terminal.
	Interactive bool
}

func (a *App) options() dashboard.Options {
	return dashboard.Options{Now: a.Now, FanOutLimit: a.Config.FanOutLimit, Logger: a.logger()}
}

func (a *App) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// errorText turns an error into the text of a blocking notification.
func errorText(err error) string {
	switch {
	case err == nil:
		return ""
	case dashboard.Message(err) != "":
		return dashboard.Message(err)
	case errors.Is(err, dashboard.ErrMutationInFlight):
		return "En registrering for barnet pågår allerede."
	case errors.Is(err, dashboard.ErrInvalidTransition):
		return "Det er ikke mulig herfra."
	case errors.Is(err, dashboard.ErrUnknownChild):
		return "Fant ikke barnet."
	default:
		return api.UserMessage(err)
	}
}

// NewRootCmd creates the top-level "trygginn" command and registers all
// subcommands against the provided App. Without a subcommand it starts
// the interactive client.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "trygginn",
		Short:         "Innsjekk og kalender for barnehagen",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.Interactive {
				return errors.New("trygginn needs a terminal; use a subcommand such as 'trygginn children'")
			}
			return RunTUI(cmd.Context(), app, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	creds := &credentials{}
	creds.register(root.PersistentFlags())

	root.AddCommand(
		newCodeCmd(app),
		newChildrenCmd(app, creds),
		newCheckInCmd(app, creds),
		newHistoryCmd(app, creds),
		newStaffCmd(app, creds),
		newCalendarCmd(app, creds),
		newPrefsCmd(app),
	)

	return root
}
