package domain

import "time"

// DateLayout is the wire and input format for calendar dates.
const DateLayout = "2006-01-02"

// TimeLayout formats clock times shown next to attendance status.
const TimeLayout = "15:04"

// DisplayDateLayout is the Norwegian short date, e.g. 5.3.2024.
const DisplayDateLayout = "2.1.2006"

// DateOnly truncates t to midnight in its own location.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	return a.Format(DateLayout) == b.Format(DateLayout)
}

// BeforeDay reports whether a's calendar date is strictly before b's.
func BeforeDay(a, b time.Time) bool {
	return a.Format(DateLayout) < b.Format(DateLayout)
}
