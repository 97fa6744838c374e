package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/trygginn/trygginn/internal/cli/formatter"
	"github.com/trygginn/trygginn/internal/domain"
)

// PasswordEnv lets scripts pass the password without a prompt.
const PasswordEnv = "TRYGGINN_PASSWORD"

// credentials are the sign-in flags shared by the one-shot commands.
type credentials struct {
	email string
	code  string
}

func (c *credentials) register(fs *pflag.FlagSet) {
	fs.StringVar(&c.email, "email", os.Getenv("TRYGGINN_EMAIL"), "E-post for innlogging (eller TRYGGINN_EMAIL)")
	fs.StringVar(&c.code, "code", "", "Tilgangskode som velger barnehage")
}

// userError shows the notification text for err while keeping it
// available to errors.Is.
type userError struct{ err error }

func (e userError) Error() string { return errorText(e.err) }
func (e userError) Unwrap() error { return e.err }

func friendly(err error) error {
	if err == nil {
		return nil
	}
	return userError{err: err}
}

// signIn logs in for a one-shot command. The password comes from
// PasswordEnv or a no-echo prompt; the daycare from --code or the config.
func signIn(cmd *cobra.Command, app *App, c *credentials) (domain.Session, error) {
	email := strings.TrimSpace(c.email)
	if email == "" {
		return domain.Session{}, errors.New("--email is required")
	}
	password, err := readPassword(cmd, app)
	if err != nil {
		return domain.Session{}, err
	}

	ctx := cmd.Context()
	stop := formatter.StartSpinner(cmd.ErrOrStderr(), app.Interactive, "Logger inn …")
	resp, err := app.API.Login(ctx, email, password)
	stop()
	if err != nil {
		return domain.Session{}, friendly(err)
	}

	sess := domain.Session{
		UserID:    resp.UserID,
		UserName:  resp.FullName,
		Role:      resp.Role,
		DaycareID: app.Config.DefaultDaycareID,
	}
	if c.code != "" {
		dc, err := app.API.UseAccessCode(ctx, c.code, nil)
		if err != nil {
			return domain.Session{}, friendly(err)
		}
		sess.DaycareID, sess.DaycareName = dc.DaycareID, dc.DaycareName
	}
	app.logger().Info("signed in", "user_id", sess.UserID, "role", sess.Role, "daycare_id", sess.DaycareID)
	return sess, nil
}

func readPassword(cmd *cobra.Command, app *App) (string, error) {
	if pw := os.Getenv(PasswordEnv); pw != "" {
		return pw, nil
	}
	in := app.Stdin
	if in == nil {
		in = cmd.InOrStdin()
	}
	fmt.Fprint(cmd.ErrOrStderr(), "Passord: ")
	defer fmt.Fprintln(cmd.ErrOrStderr())

	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		raw, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return string(raw), nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// requireRole rejects a session that would get the other dashboard.
func requireRole(sess domain.Session, staff bool) error {
	if sess.Role.IsStaff() != staff {
		if staff {
			return fmt.Errorf("%s er ikke registrert som ansatt", sess.UserName)
		}
		return fmt.Errorf("%s er ikke registrert som forelder", sess.UserName)
	}
	return nil
}
