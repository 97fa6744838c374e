package cli

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// ViewID identifies each type of view in the TUI.
type ViewID int

const (
	ViewAccessCode ViewID = iota
	ViewWelcome
	ViewParent
	ViewStaff
	ViewForm
)

// View is the interface that all TUI views must implement.
// It extends tea.Model with navigation and help metadata.
type View interface {
	tea.Model
	ID() ViewID
	ShortHelp() []key.Binding // key hints shown in the bottom bar
	Title() string            // breadcrumb segment for this view
}

// backHandler is implemented by views with screens of their own. Back
// reports whether the view moved to its previous screen; when it did
// not, Esc pops the view stack.
type backHandler interface {
	Back() (bool, tea.Cmd)
}
