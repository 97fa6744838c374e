// Package prefs holds the application-scoped theme and language choice.
// A Store is created once at start-up and passed to whoever renders; it is
// never a package-level singleton.
package prefs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/trygginn/trygginn/internal/domain"
	"github.com/trygginn/trygginn/internal/repository"
)

// Storage keys.
const (
	KeyTheme    = "theme"
	KeyLanguage = "language"
)

// ErrInvalidValue is returned for an unknown theme or language.
var ErrInvalidValue = errors.New("invalid preference value")

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme validates s.
func ParseTheme(s string) (Theme, error) {
	switch Theme(s) {
	case ThemeLight, ThemeDark:
		return Theme(s), nil
	}
	return "", fmt.Errorf("%w: theme %q", ErrInvalidValue, s)
}

// Toggled returns the other theme.
func (t Theme) Toggled() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

type Language string

const (
	LanguageNB Language = "nb"
	LanguageEN Language = "en"
)

// ParseLanguage validates s.
func ParseLanguage(s string) (Language, error) {
	switch Language(s) {
	case LanguageNB, LanguageEN:
		return Language(s), nil
	}
	return "", fmt.Errorf("%w: language %q", ErrInvalidValue, s)
}

// FormatDate renders a calendar date the way readers of l expect.
func (l Language) FormatDate(t time.Time) string {
	if l == LanguageEN {
		return t.Format("Jan 2, 2006")
	}
	return t.Format(domain.DisplayDateLayout)
}

// Store is safe for concurrent use. Every mutation is written to durable
// storage before the in-memory value changes, so a failed write leaves
// both untouched.
type Store struct {
	mu    sync.RWMutex
	repo  repository.PreferenceRepo
	theme Theme
	lang  Language
}

// Open loads stored preferences. A missing or unreadable theme falls back
// to systemDark (the terminal's background), then light. A missing
// language falls back to nb.
func Open(ctx context.Context, repo repository.PreferenceRepo, systemDark func() bool) (*Store, error) {
	s := &Store{repo: repo}
	if err := s.load(ctx, systemDark); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load(ctx context.Context, systemDark func() bool) error {
	theme := ThemeLight
	if systemDark != nil && systemDark() {
		theme = ThemeDark
	}
	raw, err := s.repo.Get(ctx, KeyTheme)
	switch {
	case err == nil:
		if t, perr := ParseTheme(raw); perr == nil {
			theme = t
		}
	case !errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("loading theme: %w", err)
	}

	lang := LanguageNB
	raw, err = s.repo.Get(ctx, KeyLanguage)
	switch {
	case err == nil:
		if l, perr := ParseLanguage(raw); perr == nil {
			lang = l
		}
	case !errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("loading language: %w", err)
	}

	s.theme, s.lang = theme, lang
	return nil
}

func (s *Store) Theme() Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme
}

func (s *Store) Language() Language {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lang
}

func (s *Store) SetTheme(ctx context.Context, t Theme) error {
	if _, err := ParseTheme(string(t)); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.repo.Set(ctx, KeyTheme, string(t)); err != nil {
		return fmt.Errorf("saving theme: %w", err)
	}
	s.theme = t
	return nil
}

// ToggleTheme flips the theme and returns the new value.
func (s *Store) ToggleTheme(ctx context.Context) (Theme, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.theme.Toggled()
	if err := s.repo.Set(ctx, KeyTheme, string(next)); err != nil {
		return s.theme, fmt.Errorf("saving theme: %w", err)
	}
	s.theme = next
	return next, nil
}

func (s *Store) SetLanguage(ctx context.Context, l Language) error {
	if _, err := ParseLanguage(string(l)); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.repo.Set(ctx, KeyLanguage, string(l)); err != nil {
		return fmt.Errorf("saving language: %w", err)
	}
	s.lang = l
	return nil
}

// Reset forgets both stored values and re-derives the defaults.
func (s *Store) Reset(ctx context.Context, systemDark func() bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.repo.Delete(ctx, KeyTheme, KeyLanguage); err != nil {
		return fmt.Errorf("resetting preferences: %w", err)
	}
	return s.load(ctx, systemDark)
}
