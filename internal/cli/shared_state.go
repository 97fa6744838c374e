package cli

import (
	"context"

	"github.com/trygginn/trygginn/internal/domain"
)

// Daycare is the kindergarten selected with an access code.
type Daycare struct {
	ID   int64
	Name string
	Code string
}

// SharedState holds context shared across all views via pointer. It lives
// for one TUI run; nothing here is persisted.
type SharedState struct {
	App *App
	Ctx context.Context

	Daycare *Daycare
	Session *domain.Session

	// Terminal dimensions
	Width  int
	Height int

	Notice    string
	NoticeErr bool
}

// SignIn records the logged-in user for the selected daycare.
func (s *SharedState) SignIn(sess domain.Session) {
	if s.Daycare != nil && sess.DaycareID == 0 {
		sess.DaycareID = s.Daycare.ID
		sess.DaycareName = s.Daycare.Name
	}
	s.Session = &sess
}

// SignOut forgets the user but keeps the daycare.
func (s *SharedState) SignOut() {
	s.Session = nil
}

// ContentHeight returns the available height for view content,
// accounting for header (2 lines: title + separator) and
// status bar (2 lines: separator + hints).
func (s *SharedState) ContentHeight() int {
	h := s.Height - 4
	if s.Notice != "" {
		h--
	}
	if h < 1 {
		return 1
	}
	return h
}
