package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/charmbracelet/huh"

	"github.com/trygginn/trygginn/internal/domain"
)

// dateTimeLayout is how users type a point in time, e.g. 2025-05-16 10:00.
const dateTimeLayout = domain.DateLayout + " " + domain.TimeLayout

// parseDate accepts 2025-03-10, 10.3.2025 and whatever dateparse
// recognises, in local time. A blank string is no date.
func parseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{domain.DateLayout, domain.DisplayDateLayout} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return &t, nil
		}
	}
	t, err := dateparse.ParseIn(s, time.Local)
	if err != nil {
		return nil, fmt.Errorf("ugyldig dato %q", s)
	}
	d := domain.DateOnly(t)
	return &d, nil
}

// parseDateTime is parseDate with a time of day.
func parseDateTime(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{dateTimeLayout, domain.DisplayDateLayout + " " + domain.TimeLayout} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return &t, nil
		}
	}
	t, err := dateparse.ParseIn(s, time.Local)
	if err != nil {
		return nil, fmt.Errorf("ugyldig tidspunkt %q", s)
	}
	return &t, nil
}

// mustDate is for values already accepted by validateOptionalDate.
func mustDate(s string) *time.Time {
	t, _ := parseDate(s)
	return t
}

func mustDateTime(s string) *time.Time {
	t, _ := parseDateTime(s)
	return t
}

func validateOptionalDate(s string) error {
	_, err := parseDate(s)
	return err
}

func validateOptionalDateTime(s string) error {
	_, err := parseDateTime(s)
	return err
}

func validateRequired(label string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s må fylles ut", label)
		}
		return nil
	}
}

func validateEmail(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("e-post må fylles ut")
	}
	if !strings.Contains(s, "@") {
		return errors.New("ugyldig e-postadresse")
	}
	return nil
}

func validateOptionalCount(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return errors.New("skriv et helt tall")
	}
	return nil
}

// dateInput returns a huh.Input for an optional date field.
func dateInput(title string, value *string) *huh.Input {
	return huh.NewInput().
		Title(title).
		Placeholder("ÅÅÅÅ-MM-DD").
		Value(value).
		Validate(validateOptionalDate)
}

// dateTimeInput returns a huh.Input for an optional date and time.
func dateTimeInput(title string, value *string) *huh.Input {
	return huh.NewInput().
		Title(title).
		Placeholder("ÅÅÅÅ-MM-DD TT:MM").
		Value(value).
		Validate(validateOptionalDateTime)
}

func textInput(title string, value *string) *huh.Input {
	return huh.NewInput().Title(title).Value(value)
}

func requiredInput(title string, value *string) *huh.Input {
	return huh.NewInput().Title(title).Value(value).Validate(validateRequired(title))
}

func passwordInput(title string, value *string) *huh.Input {
	return huh.NewInput().Title(title).EchoMode(huh.EchoModePassword).Value(value)
}
