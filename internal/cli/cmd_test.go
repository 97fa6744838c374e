package cli

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trygginn/trygginn/internal/api"
	"github.com/trygginn/trygginn/internal/derive"
	"github.com/trygginn/trygginn/internal/domain"
	"github.com/trygginn/trygginn/internal/prefs"
)

// execCmd runs the root command with args and returns stdout.
func execCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(""))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func withPassword(t *testing.T) {
	t.Helper()
	t.Setenv(PasswordEnv, testPassword)
}

func TestRootCmd_NeedsTerminalWithoutSubcommand(t *testing.T) {
	f := newFixture(t)
	_, err := execCmd(t, f.app)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "needs a terminal")
}

func TestCodeCmd_PrintsDaycare(t *testing.T) {
	f := newFixture(t)
	out, err := execCmd(t, f.app, "code", testCode)
	require.NoError(t, err)
	assert.Contains(t, out, "Solsikken barnehage")
	assert.Contains(t, out, strconv.FormatInt(f.daycareID, 10))
}

func TestCodeCmd_InvalidCodeIsFriendly(t *testing.T) {
	f := newFixture(t)
	_, err := execCmd(t, f.app, "code", "NOPE")
	require.Error(t, err)
	assert.Equal(t, "Ugyldig tilgangskode", err.Error())

	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr, "the cause survives the friendly message")
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
}

func TestChildrenCmd_ListsChildren(t *testing.T) {
	f := newFixture(t)
	withPassword(t)

	out, err := execCmd(t, f.app, "children", "--email", parentEmail)
	require.NoError(t, err)
	assert.Contains(t, out, "Emma Berg")
	assert.Contains(t, out, "Krysset inn 07:45")
	assert.Contains(t, out, "Noah Berg")
	assert.Contains(t, out, "Ørn")
}

func TestChildrenCmd_RequiresEmail(t *testing.T) {
	f := newFixture(t)
	withPassword(t)
	t.Setenv("TRYGGINN_EMAIL", "")

	_, err := execCmd(t, f.app, "children")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--email")
}

func TestChildrenCmd_RejectsStaff(t *testing.T) {
	f := newFixture(t)
	withPassword(t)

	_, err := execCmd(t, f.app, "children", "--email", staffEmail)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ikke registrert som forelder")
}

func TestChildrenCmd_WrongPassword(t *testing.T) {
	f := newFixture(t)
	t.Setenv(PasswordEnv, "feil")

	_, err := execCmd(t, f.app, "children", "--email", parentEmail)
	require.Error(t, err)
	assert.Equal(t, "Feil e-post eller passord", err.Error())
}

func TestSignIn_ReadsPasswordFromStdin(t *testing.T) {
	f := newFixture(t)
	t.Setenv(PasswordEnv, "")
	f.app.Stdin = strings.NewReader(testPassword + "\n")

	out, err := execCmd(t, f.app, "children", "--email", parentEmail)
	require.NoError(t, err)
	assert.Contains(t, out, "Emma Berg")
}

func TestCheckInCmd_PresentWithPickup(t *testing.T) {
	f := newFixture(t)
	withPassword(t)

	out, err := execCmd(t, f.app, "checkin", strconv.FormatInt(f.noah, 10),
		"--email", parentEmail, "--pickup-date", "2025-03-10", "--pickup", "Bestemor")
	require.NoError(t, err)
	assert.Contains(t, out, "Noah Berg er krysset inn kl. 08:15")
	assert.Contains(t, out, "Noah Berg: Krysset inn 08:15 – Henting: Bestemor")
	assert.Contains(t, out, "Henting 10.3.2025: Bestemor")

	att := f.backend.Attendance(f.noah)
	require.Len(t, att, 1)
	assert.Equal(t, domain.AttendanceIn, att[0].Type)
}

func TestCheckInCmd_PickupWithoutDateMeansToday(t *testing.T) {
	f := newFixture(t)
	withPassword(t)

	out, err := execCmd(t, f.app, "checkin", strconv.FormatInt(f.noah, 10),
		"--email", parentEmail, "--pickup", "  Bestemor ")
	require.NoError(t, err)
	assert.Contains(t, out, "Henting 10.3.2025: Bestemor")
	assert.Contains(t, out, "Henting: Bestemor")
}

func TestCheckInCmd_PickupOnLaterDay(t *testing.T) {
	f := newFixture(t)
	withPassword(t)

	out, err := execCmd(t, f.app, "checkin", strconv.FormatInt(f.noah, 10),
		"--email", parentEmail, "--pickup-date", "2025-03-12", "--pickup", "Morfar")
	require.NoError(t, err)
	assert.Contains(t, out, "Henting 12.3.2025: Morfar")
	assert.NotContains(t, out, "08:15 – Henting", "only a same-day pickup is added to the status")
}

func TestCheckInCmd_AbsenceNotes(t *testing.T) {
	f := newFixture(t)
	withPassword(t)
	noah := strconv.FormatInt(f.noah, 10)

	_, err := execCmd(t, f.app, "checkin", noah, "--email", parentEmail, "--absent", "--note", "  Tannlege ")
	require.NoError(t, err)
	_, err = execCmd(t, f.app, "checkin", noah, "--email", parentEmail, "--absent", "--date", "2025-03-11")
	require.NoError(t, err)

	absences := f.backend.Absences()
	require.Len(t, absences, 2)
	assert.Equal(t, "Tannlege", absences[0].Note)
	assert.Equal(t, "Tannlege", absences[0].Reason)
	assert.Equal(t, derive.DefaultAbsenceReason, absences[1].Note)
	assert.Equal(t, derive.DefaultAbsenceReason, absences[1].Reason)
}

func TestCheckInCmd_Holiday(t *testing.T) {
	f := newFixture(t)
	withPassword(t)

	out, err := execCmd(t, f.app, "checkin", strconv.FormatInt(f.noah, 10),
		"--email", parentEmail, "--holiday", "--from", "2025-07-01", "--to", "14.7.2025")
	require.NoError(t, err)
	assert.Contains(t, out, "Noah Berg:")

	vac := f.backend.Vacations()
	require.Len(t, vac, 1)
	assert.Equal(t, "2025-07-01", vac[0].StartDate)
	assert.Equal(t, "2025-07-14", vac[0].EndDate)
}

func TestCheckInCmd_HolidayNeedsDates(t *testing.T) {
	f := newFixture(t)
	withPassword(t)

	_, err := execCmd(t, f.app, "checkin", strconv.FormatInt(f.noah, 10), "--email", parentEmail, "--holiday")
	require.Error(t, err)
	assert.Equal(t, "Velg både fra- og tildato for ferie.", err.Error())
	assert.Empty(t, f.backend.Vacations())
}

func TestCheckInCmd_RejectsBadInput(t *testing.T) {
	f := newFixture(t)
	withPassword(t)

	_, err := execCmd(t, f.app, "checkin", "abc", "--email", parentEmail)
	assert.ErrorContains(t, err, "invalid child ID")

	_, err = execCmd(t, f.app, "checkin", "1", "--email", parentEmail, "--absent", "--holiday")
	assert.ErrorContains(t, err, "cannot be combined")

	_, err = execCmd(t, f.app, "checkin", "1", "--email", parentEmail, "--date", "i morgen kanskje")
	assert.Error(t, err)
}

func TestCheckInCmd_AlreadyCheckedIn(t *testing.T) {
	f := newFixture(t)
	withPassword(t)

	_, err := execCmd(t, f.app, "checkin", strconv.FormatInt(f.emma, 10), "--email", parentEmail)
	require.Error(t, err)
	assert.Equal(t, "Det er ikke mulig herfra.", err.Error())
	assert.Len(t, f.backend.Attendance(f.emma), 1)
}

func TestCheckInCmd_UnknownChild(t *testing.T) {
	f := newFixture(t)
	withPassword(t)

	_, err := execCmd(t, f.app, "checkin", "999", "--email", parentEmail)
	require.Error(t, err)
	assert.Equal(t, "Fant ikke barnet.", err.Error())
}

func TestHistoryCmd(t *testing.T) {
	f := newFixture(t)
	withPassword(t)
	noah := strconv.FormatInt(f.noah, 10)

	out, err := execCmd(t, f.app, "history", noah, "--email", parentEmail)
	require.NoError(t, err)
	assert.Contains(t, out, "Ingen fravær eller ferie er meldt.")

	_, err = execCmd(t, f.app, "checkin", noah, "--email", parentEmail, "--absent", "--date", "2025-03-12", "--note", "Tannlege")
	require.NoError(t, err)
	_, err = execCmd(t, f.app, "checkin", noah, "--email", parentEmail, "--holiday", "--from", "2025-07-01", "--to", "2025-07-14")
	require.NoError(t, err)

	out, err = execCmd(t, f.app, "history", noah, "--email", parentEmail)
	require.NoError(t, err)
	assert.Contains(t, out, "Noah Berg")
	assert.Contains(t, out, "12.3.2025")
	assert.Contains(t, out, "Tannlege")
	assert.Contains(t, out, "1.7.2025–14.7.2025")
	assert.Less(t, strings.Index(out, "Fravær"), strings.Index(out, "Ferie"))
}

func TestHistoryCmd_UnknownChild(t *testing.T) {
	f := newFixture(t)
	withPassword(t)

	_, err := execCmd(t, f.app, "history", "999", "--email", parentEmail)
	require.Error(t, err)
	assert.Equal(t, "Fant ikke barnet.", err.Error())
	assert.Equal(t, 0, f.backend.Calls(http.MethodGet, "/api/absence/child/{id}"))
}

func TestStaffOverviewCmd(t *testing.T) {
	f := newFixture(t)
	withPassword(t)

	out, err := execCmd(t, f.app, "staff", "overview", "--email", staffEmail, "--code", testCode)
	require.NoError(t, err)
	assert.Contains(t, out, "Blåbær")
	assert.Contains(t, out, "Ørn")
	assert.Contains(t, out, "Inne · 07:45")
	assert.Less(t, strings.Index(out, "Blåbær"), strings.Index(out, "Ørn"))
}

func TestStaffOverviewCmd_RejectsParent(t *testing.T) {
	f := newFixture(t)
	withPassword(t)

	_, err := execCmd(t, f.app, "staff", "overview", "--email", parentEmail, "--code", testCode)
	assert.ErrorContains(t, err, "ikke registrert som ansatt")
}

func TestStaffToggleCmd(t *testing.T) {
	f := newFixture(t)
	withPassword(t)

	out, err := execCmd(t, f.app, "staff", "toggle", strconv.FormatInt(f.emma, 10),
		"--email", staffEmail, "--code", testCode, "--reason", "picked_up", "--comment", "Far")
	require.NoError(t, err)
	assert.Contains(t, out, "Ute · 08:15")

	att := f.backend.Attendance(f.emma)
	require.Len(t, att, 2)
	assert.Equal(t, domain.AttendanceOut, att[1].Type)
	assert.Equal(t, "Registrert av ansatt – Hentet av foresatt: Far", att[1].Note)
}

func TestStaffToggleCmd_UnknownReason(t *testing.T) {
	f := newFixture(t)
	withPassword(t)

	_, err := execCmd(t, f.app, "staff", "toggle", "1", "--email", staffEmail, "--reason", "sent")
	assert.ErrorContains(t, err, "unknown reason")
	assert.Equal(t, 0, f.backend.Calls(http.MethodPost, "/api/auth/login"))
}

func TestStaffNoteCmd(t *testing.T) {
	f := newFixture(t)
	withPassword(t)
	emma := strconv.FormatInt(f.emma, 10)

	out, err := execCmd(t, f.app, "staff", "note", emma, "--email", staffEmail, "--code", testCode)
	require.NoError(t, err)
	assert.Contains(t, out, "ingen notat")

	out, err = execCmd(t, f.app, "staff", "note", emma, "  Hentes tidlig fredag ", "--email", staffEmail, "--code", testCode)
	require.NoError(t, err)
	assert.Contains(t, out, "Emma Berg: Hentes tidlig fredag")
	c, _ := f.backend.Child(f.emma)
	assert.Equal(t, "Hentes tidlig fredag", c.Note)

	_, err = execCmd(t, f.app, "staff", "note", emma, "--clear", "--email", staffEmail, "--code", testCode)
	require.NoError(t, err)
	c, _ = f.backend.Child(f.emma)
	assert.Empty(t, c.Note)

	_, err = execCmd(t, f.app, "staff", "note", emma, "tekst", "--clear", "--email", staffEmail)
	assert.ErrorContains(t, err, "cannot be combined")
}

func TestCalendarCmd_PrintsEvents(t *testing.T) {
	f := newFixture(t)
	withPassword(t)

	out, err := execCmd(t, f.app, "calendar", "--email", parentEmail)
	require.NoError(t, err)
	assert.Contains(t, out, "KOMMENDE")
	assert.Contains(t, out, "Foreldremøte")
}

func TestCalendarCmd_ICSToStdout(t *testing.T) {
	f := newFixture(t)
	withPassword(t)

	out, err := execCmd(t, f.app, "calendar", "--email", staffEmail, "--code", testCode, "--ics", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Contains(t, out, "SUMMARY:Foreldremøte")
	assert.Contains(t, out, "X-WR-CALNAME:Solsikken barnehage")
}

func TestCalendarCmd_ICSToFile(t *testing.T) {
	f := newFixture(t)
	withPassword(t)
	path := filepath.Join(t.TempDir(), "kalender.ics")

	out, err := execCmd(t, f.app, "calendar", "--email", parentEmail, "--ics", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Eksporterte 1 hendelser")

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "BEGIN:VEVENT")
}

func TestPrefsCmd(t *testing.T) {
	f := newFixture(t)

	out, err := execCmd(t, f.app, "prefs")
	require.NoError(t, err)
	assert.Contains(t, out, "light")
	assert.Contains(t, out, "nb")

	_, err = execCmd(t, f.app, "prefs", "theme", "dark")
	require.NoError(t, err)
	assert.Equal(t, prefs.ThemeDark, f.app.Prefs.Theme())

	out, err = execCmd(t, f.app, "prefs", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "dark")

	_, err = execCmd(t, f.app, "prefs", "theme", "toggle")
	require.NoError(t, err)
	assert.Equal(t, prefs.ThemeLight, f.app.Prefs.Theme())

	_, err = execCmd(t, f.app, "prefs", "lang", "en")
	require.NoError(t, err)
	assert.Equal(t, prefs.LanguageEN, f.app.Prefs.Language())

	_, err = execCmd(t, f.app, "prefs", "lang", "sv")
	assert.ErrorIs(t, err, prefs.ErrInvalidValue)

	f.app.SystemDark = func() bool { return true }
	_, err = execCmd(t, f.app, "prefs", "reset")
	require.NoError(t, err)
	assert.Equal(t, prefs.ThemeDark, f.app.Prefs.Theme())
	assert.Equal(t, prefs.LanguageNB, f.app.Prefs.Language())
}

func TestFriendly(t *testing.T) {
	assert.NoError(t, friendly(nil))

	cause := errors.New("boom")
	err := friendly(cause)
	assert.ErrorIs(t, err, cause)
}
