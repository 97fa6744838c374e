package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/trygginn/trygginn/internal/derive"
	"github.com/trygginn/trygginn/internal/domain"
	"github.com/trygginn/trygginn/internal/prefs"
)

// FormatChildren renders the parent overview table.
func FormatChildren(children []domain.Child, today time.Time) string {
	if len(children) == 0 {
		return Dim("Ingen barn er knyttet til kontoen.")
	}
	rows := make([][]string, 0, len(children))
	for _, c := range children {
		pickup := ""
		if p, ok := derive.NextPickupPlan(c.PickupPlans, today); ok {
			pickup = derive.PickupLabel(p)
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", c.ID),
			Bold(c.Name),
			c.Department,
			StatusBadge(c.Status),
			c.Note,
			pickup,
		})
	}
	return RenderTable([]string{"ID", "NAVN", "AVDELING", "STATUS", "SIST", "HENTING"}, rows)
}

// FormatChildInfo renders the info screen for one child.
func FormatChildInfo(c domain.Child, today time.Time, lang prefs.Language) string {
	var b strings.Builder
	line := func(label, value string) {
		if value == "" {
			value = Dim(EmptyCell)
		}
		fmt.Fprintf(&b, "%s %s\n", StyleDim.Render(fmt.Sprintf("%-12s", label)), value)
	}
	line("Status", StatusBadge(c.Status)+"  "+c.Note)
	line("Avdeling", c.Department)
	line("Allergier", c.Allergies)
	line("Medisiner", c.Medications)
	line("Annet", c.OtherInfo)
	if c.AbsenceDate != nil {
		line("Fravær", lang.FormatDate(*c.AbsenceDate)+" "+c.AbsenceNote)
	}
	if c.HolidayFrom != nil && c.HolidayTo != nil {
		line("Ferie", lang.FormatDate(*c.HolidayFrom)+"–"+lang.FormatDate(*c.HolidayTo))
	}
	if p, ok := derive.NextPickupPlan(c.PickupPlans, today); ok {
		line("Henting", lang.FormatDate(p.Date)+": "+p.Note)
	}
	return RenderBox(c.Name, strings.TrimSuffix(b.String(), "\n"))
}

// FormatStaffOverview renders one card per department.
func FormatStaffOverview(groups []derive.DepartmentGroup) string {
	if len(groups) == 0 {
		return Dim("Ingen avdelinger funnet.")
	}
	cards := make([]string, 0, len(groups))
	for _, g := range groups {
		rows := make([][]string, 0, len(g.Children))
		for _, c := range g.Children {
			rows = append(rows, []string{fmt.Sprintf("%d", c.ID), c.Name, PresenceBadge(c.Presence), c.Note})
		}
		head := StyleHeader.Render(g.Name) + "  " + RenderAttendance(g.In(), len(g.Children), 10)
		cards = append(cards, head+"\n"+RenderTable([]string{"ID", "NAVN", "STATUS", "SIST"}, rows))
	}
	return strings.Join(cards, "\n\n")
}

// FormatEvents renders a calendar section. An empty section renders the
// given placeholder.
func FormatEvents(title string, events []domain.KindergartenEvent, today time.Time, lang prefs.Language, empty string) string {
	var b strings.Builder
	b.WriteString(Header(title))
	b.WriteString("\n")
	if len(events) == 0 {
		b.WriteString(Dim(empty))
		return b.String()
	}
	for _, ev := range events {
		fmt.Fprintf(&b, "%s  %s  %s\n",
			StyleBlue.Render(RelativeDay(ev.Start, today, lang)),
			Bold(ev.Title),
			StyleAccent.Render(ev.Scope))
		detail := EventWhen(ev, lang)
		if ev.Location != "" {
			detail += " · " + ev.Location
		}
		b.WriteString(Dim("  " + detail))
		b.WriteString("\n")
		if ev.Description != "" {
			b.WriteString("  " + ev.Description + "\n")
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// FormatCalendar renders upcoming then past events.
func FormatCalendar(events []domain.KindergartenEvent, today time.Time, lang prefs.Language) string {
	upcoming, past := derive.SplitEvents(events, today)
	return FormatEvents("Kommende", upcoming, today, lang, "Ingen kommende hendelser.") +
		"\n\n" +
		FormatEvents("Tidligere", past, today, lang, "Ingen tidligere hendelser.")
}

// FormatHistory lists reported absences and vacations for one child.
func FormatHistory(name string, records []domain.LeaveRecord) string {
	if len(records) == 0 {
		return Bold(name) + "\n" + Dim("Ingen fravær eller ferie er meldt.")
	}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		kind, period := "Fravær", r.From.Format(domain.DisplayDateLayout)
		if r.Holiday {
			kind = "Ferie"
			period += "–" + r.To.Format(domain.DisplayDateLayout)
		}
		rows = append(rows, []string{kind, period, r.Note})
	}
	return Bold(name) + "\n" + RenderTable([]string{"TYPE", "PERIODE", "MERKNAD"}, rows)
}

// FormatCheckInSuccess renders the confirmation overlay.
func FormatCheckInSuccess(name, department, at string) string {
	body := fmt.Sprintf("%s er krysset inn kl. %s", Bold(name), at)
	if department != "" {
		body += "\n" + Dim("Avdeling: "+department)
	}
	return RenderBox("Innsjekk registrert", Success("Takk!")+"\n"+body)
}
