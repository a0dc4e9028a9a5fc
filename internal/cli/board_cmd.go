package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newBoardCmd(app *App) *cobra.Command {
	var cycle string

	cmd := &cobra.Command{
		Use:   "board PRODUCT_SLUG",
		Short: "Open the interactive production board",
		Long: `Open the kanban board for one production cycle. Cards are picked up
and dropped between workflow stages with the keyboard; every move is
written through immediately and rolled back if the write fails.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBoardSession(app, args[0], cycle, func(state *SharedState) View {
				return newBoardView(state)
			})
		},
	}

	cmd.Flags().StringVar(&cycle, "cycle", "", "Cycle (YYYY-MM, defaults to the current month)")

	return cmd
}

func newCalendarCmd(app *App) *cobra.Command {
	var cycle string

	cmd := &cobra.Command{
		Use:   "calendar PRODUCT_SLUG",
		Short: "Open the interactive due-date calendar",
		Long: `Open the month calendar for one production cycle. Cards sit on their
due day and are rescheduled by carrying them to another day.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBoardSession(app, args[0], cycle, func(state *SharedState) View {
				return newCalendarView(state)
			})
		},
	}

	cmd.Flags().StringVar(&cycle, "cycle", "", "Cycle (YYYY-MM, defaults to the current month)")

	return cmd
}

// runBoardSession resolves the edition, wires a reconciler session, and
// runs the TUI with the given home view until the user quits.
func runBoardSession(app *App, slug, cycle string, home func(*SharedState) View) error {
	if app.IsInteractive != nil && !app.IsInteractive() {
		return fmt.Errorf("the board needs an interactive terminal")
	}

	ctx := context.Background()
	product, edition, err := resolveEdition(ctx, app, slug, cycle)
	if err != nil {
		return err
	}

	state := newSharedState(app, product, edition)
	if err := state.Reconciler.Refresh(ctx, edition.ID); err != nil {
		return fmt.Errorf("loading board: %w", err)
	}

	p := tea.NewProgram(newAppModel(state, home(state)), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running board: %w", err)
	}
	return nil
}
