package cli

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/teuprojeto/flowrev/internal/reconcile"
)

// Navigation and board messages passed between views and the root model.

type pushViewMsg struct{ view View }

type popViewMsg struct{}

// moveSettledMsg carries one settled reconciler result into the TUI loop.
type moveSettledMsg struct{ result reconcile.Result }

// boardStaleMsg signals that an edition's aggregates changed and the board
// should refetch.
type boardStaleMsg struct{ editionID string }

// flashMsg sets the transient status line.
type flashMsg struct{ text string }

// formDoneMsg pops the form view and runs the follow-up command.
type formDoneMsg struct{ nextCmd tea.Cmd }

func pushView(v View) tea.Cmd {
	return func() tea.Msg { return pushViewMsg{view: v} }
}

func popView() tea.Cmd {
	return func() tea.Msg { return popViewMsg{} }
}

func flash(text string) tea.Cmd {
	return func() tea.Msg { return flashMsg{text: text} }
}
