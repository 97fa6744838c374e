// Package ical writes the kindergarten calendar as an RFC 5545 feed that
// calendar apps can import.
package ical

import (
	"fmt"
	"io"
	"sort"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/trygginn/trygginn/internal/domain"
)

const productID = "-//trygginn//kalender//NO"

// UID is the stable identifier of an exported event.
func UID(eventID int64) string {
	return fmt.Sprintf("kalender-%d@trygginn", eventID)
}

// Export writes one VEVENT per event, ordered by start time. stamp is
// written as DTSTAMP on every event.
func Export(w io.Writer, name string, events []domain.KindergartenEvent, stamp time.Time) error {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)
	if name != "" {
		cal.SetXWRCalName(name)
	}

	sorted := append([]domain.KindergartenEvent(nil), events...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Start.Before(sorted[j].Start) })

	for _, e := range sorted {
		if e.Start.IsZero() {
			return fmt.Errorf("event %d has no start time", e.ID)
		}
		ev := cal.AddEvent(UID(e.ID))
		ev.SetDtStampTime(stamp)
		ev.SetStartAt(e.Start)
		if e.End != nil && !e.End.Before(e.Start) {
			ev.SetEndAt(*e.End)
		}
		ev.SetSummary(e.Title)
		if e.Description != "" {
			ev.SetDescription(e.Description)
		}
		if e.Location != "" {
			ev.SetLocation(e.Location)
		}
		ev.AddProperty(ics.ComponentPropertyCategories, domain.CoalesceStr(e.Scope, domain.ScopeWholeKindergarten))
	}

	if err := cal.SerializeTo(w); err != nil {
		return fmt.Errorf("writing calendar: %w", err)
	}
	return nil
}
