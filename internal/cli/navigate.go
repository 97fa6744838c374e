package cli

import tea "github.com/charmbracelet/bubbletea"

// Navigation messages used by views to request view transitions.
// The appModel handles these in its Update method.

// pushViewMsg pushes a new view onto the navigation stack.
type pushViewMsg struct {
	view View
}

// resetViewsMsg replaces the whole stack, e.g. after login or logout.
type resetViewsMsg struct {
	views []View
}

// noticeMsg shows a notification under the header until the next key.
type noticeMsg struct {
	text string
	err  bool
}

// refreshViewMsg asks every view on the stack to re-render from its
// controller after a mutation made in a view above it.
type refreshViewMsg struct{}

// wizardCompleteMsg is sent when a wizard form completes or is cancelled.
// The appModel handles it atomically: pop the wizard view, then run nextCmd.
type wizardCompleteMsg struct {
	nextCmd tea.Cmd
}

func pushView(v View) tea.Cmd {
	return func() tea.Msg { return pushViewMsg{view: v} }
}

func resetViews(views ...View) tea.Cmd {
	return func() tea.Msg { return resetViewsMsg{views: views} }
}

func notify(text string) tea.Cmd {
	return func() tea.Msg { return noticeMsg{text: text} }
}

func notifyErr(err error) tea.Cmd {
	return func() tea.Msg { return noticeMsg{text: errorText(err), err: true} }
}

func refresh() tea.Msg { return refreshViewMsg{} }
