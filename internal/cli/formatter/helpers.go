package formatter

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/trygginn/trygginn/internal/domain"
	"github.com/trygginn/trygginn/internal/prefs"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(title) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// RelativeDay describes t relative to today in the given language.
func RelativeDay(t, today time.Time, lang prefs.Language) string {
	days := int(domain.DateOnly(t).Sub(domain.DateOnly(today)).Hours() / 24)
	if lang == prefs.LanguageEN {
		switch {
		case days == 0:
			return "Today"
		case days == 1:
			return "Tomorrow"
		case days == -1:
			return "Yesterday"
		case days > 1 && days < 7:
			return fmt.Sprintf("In %d days", days)
		}
		return lang.FormatDate(t)
	}
	switch {
	case days == 0:
		return "I dag"
	case days == 1:
		return "I morgen"
	case days == -1:
		return "I går"
	case days > 1 && days < 7:
		return fmt.Sprintf("Om %d dager", days)
	}
	return lang.FormatDate(t)
}

// EventWhen renders an event's start, and end when it has one.
func EventWhen(ev domain.KindergartenEvent, lang prefs.Language) string {
	s := lang.FormatDate(ev.Start) + " " + ev.Start.Format(domain.TimeLayout)
	if ev.End != nil {
		end := ev.End.Format(domain.TimeLayout)
		if !domain.SameDay(ev.Start, *ev.End) {
			end = lang.FormatDate(*ev.End) + " " + end
		}
		s += "–" + end
	}
	return s
}
