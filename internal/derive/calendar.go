package derive

import (
	"sort"
	"time"

	"github.com/trygginn/trygginn/internal/domain"
)

// SplitEvents partitions events into upcoming (start date on or after
// today) and past (start date before today). Both slices are sorted by
// start ascending and together contain every input event exactly once.
func SplitEvents(events []domain.KindergartenEvent, today time.Time) (upcoming, past []domain.KindergartenEvent) {
	for _, ev := range events {
		if domain.BeforeDay(ev.Start, today) {
			past = append(past, ev)
		} else {
			upcoming = append(upcoming, ev)
		}
	}
	sortByStart(upcoming)
	sortByStart(past)
	return upcoming, past
}

// UpcomingEvents returns at most n of the next events.
func UpcomingEvents(events []domain.KindergartenEvent, today time.Time, n int) []domain.KindergartenEvent {
	upcoming, _ := SplitEvents(events, today)
	if n >= 0 && len(upcoming) > n {
		upcoming = upcoming[:n]
	}
	return upcoming
}

func sortByStart(events []domain.KindergartenEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Start.Before(events[j].Start)
	})
}
