package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teuprojeto/flowrev/internal/board"
	"github.com/teuprojeto/flowrev/internal/cli/formatter"
	"github.com/teuprojeto/flowrev/internal/domain"
)

func newInsumoCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "insumo",
		Short: "Inspect and edit content items",
	}

	cmd.AddCommand(
		newInsumoListCmd(app),
		newInsumoShowCmd(app),
		newInsumoSetContentCmd(app),
		newInsumoMoveCmd(app),
		newInsumoAttachCmd(app),
	)

	return cmd
}

func newInsumoListCmd(app *App) *cobra.Command {
	var cycle string

	cmd := &cobra.Command{
		Use:   "list PRODUCT_SLUG",
		Short: "List a cycle's insumos",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			_, edition, err := resolveEdition(ctx, app, args[0], cycle)
			if err != nil {
				return err
			}
			insumos, err := app.Insumos.FetchInsumos(ctx, edition.ID)
			if err != nil {
				return err
			}
			if len(insumos) == 0 {
				fmt.Println("No insumos found.")
				return nil
			}
			fmt.Printf("%s\n", formatter.FormatInsumoList(insumos, todayUTC()))
			return nil
		},
	}

	cmd.Flags().StringVar(&cycle, "cycle", "", "Cycle (YYYY-MM, defaults to the current month)")

	return cmd
}

func newInsumoShowCmd(app *App) *cobra.Command {
	var cycle string

	cmd := &cobra.Command{
		Use:   "show PRODUCT_SLUG INSUMO",
		Short: "Show one insumo in detail",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			_, edition, err := resolveEdition(ctx, app, args[0], cycle)
			if err != nil {
				return err
			}
			insumo, err := resolveInsumo(ctx, app, edition.ID, args[1])
			if err != nil {
				return err
			}
			fmt.Printf("%s\n", formatter.FormatInsumoDetail(insumo, todayUTC()))
			return nil
		},
	}

	cmd.Flags().StringVar(&cycle, "cycle", "", "Cycle (YYYY-MM, defaults to the current month)")

	return cmd
}

func newInsumoSetContentCmd(app *App) *cobra.Command {
	var cycle, content, notes, fromFile string

	cmd := &cobra.Command{
		Use:   "set-content PRODUCT_SLUG INSUMO",
		Short: "Set an insumo's content text",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			_, edition, err := resolveEdition(ctx, app, args[0], cycle)
			if err != nil {
				return err
			}
			insumo, err := resolveInsumo(ctx, app, edition.ID, args[1])
			if err != nil {
				return err
			}

			var contentPtr, notesPtr *string
			if fromFile != "" {
				data, err := os.ReadFile(fromFile)
				if err != nil {
					return fmt.Errorf("reading %s: %w", fromFile, err)
				}
				text := string(data)
				contentPtr = &text
			} else if cmd.Flags().Changed("content") {
				contentPtr = &content
			}
			if cmd.Flags().Changed("notes") {
				notesPtr = &notes
			}
			if contentPtr == nil && notesPtr == nil {
				return fmt.Errorf("nothing to set: pass --content, --file or --notes")
			}

			updated, err := app.Insumos.UpdateInsumoContent(ctx, insumo.ID, contentPtr, notesPtr)
			if err != nil {
				return err
			}
			fmt.Printf("Updated %s\n", updated.Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&cycle, "cycle", "", "Cycle (YYYY-MM, defaults to the current month)")
	cmd.Flags().StringVar(&content, "content", "", "Content text")
	cmd.Flags().StringVar(&fromFile, "file", "", "Read content from a file")
	cmd.Flags().StringVar(&notes, "notes", "", "Internal notes")

	return cmd
}

func newInsumoMoveCmd(app *App) *cobra.Command {
	var cycle, reason string

	cmd := &cobra.Command{
		Use:   "move PRODUCT_SLUG INSUMO STATUS",
		Short: "Move an insumo to another workflow stage",
		Long: "Move an insumo to another workflow stage.\n\nStages: " +
			strings.Join(statusKeys(), ", "),
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			_, edition, err := resolveEdition(ctx, app, args[0], cycle)
			if err != nil {
				return err
			}
			insumo, err := resolveInsumo(ctx, app, edition.ID, args[1])
			if err != nil {
				return err
			}

			status := domain.InsumoStatus(args[2])
			if !domain.ValidStatus(status) {
				return fmt.Errorf("unknown stage %q, expected one of: %s", args[2], strings.Join(statusKeys(), ", "))
			}

			target := board.Target{Kind: board.TargetColumn, Status: status}
			if decision := app.Policy.Decide(insumo, target, app.Actor); !decision.Allowed {
				return fmt.Errorf("%s", decision.Reason)
			}

			updated, err := app.Insumos.UpdateInsumoStatus(ctx, insumo.ID, status, reason)
			if err != nil {
				return err
			}
			fmt.Printf("%s is now %s\n", updated.Title, domain.StatusLabels[updated.Status])
			return nil
		},
	}

	cmd.Flags().StringVar(&cycle, "cycle", "", "Cycle (YYYY-MM, defaults to the current month)")
	cmd.Flags().StringVar(&reason, "reason", "", "Adjustment reason (required for adjustment_requested)")

	return cmd
}

func newInsumoAttachCmd(app *App) *cobra.Command {
	var cycle, caption string

	cmd := &cobra.Command{
		Use:   "attach PRODUCT_SLUG INSUMO FILE",
		Short: "Attach a file reference to an insumo",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			_, edition, err := resolveEdition(ctx, app, args[0], cycle)
			if err != nil {
				return err
			}
			insumo, err := resolveInsumo(ctx, app, edition.ID, args[1])
			if err != nil {
				return err
			}

			path := args[2]
			info, err := os.Stat(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}

			a := &domain.Attachment{
				InsumoID:  insumo.ID,
				Filename:  info.Name(),
				URL:       "file://" + path,
				Caption:   caption,
				SizeBytes: info.Size(),
			}
			if app.Actor != nil {
				a.UploadedBy = app.Actor.ID
			}
			if err := app.Insumos.AddAttachment(ctx, a); err != nil {
				return err
			}
			fmt.Printf("Attached %s (%s)\n", a.Filename, a.Kind)
			return nil
		},
	}

	cmd.Flags().StringVar(&cycle, "cycle", "", "Cycle (YYYY-MM, defaults to the current month)")
	cmd.Flags().StringVar(&caption, "caption", "", "Attachment caption")

	return cmd
}

func statusKeys() []string {
	keys := make([]string, 0, len(domain.AllStatuses))
	for _, s := range domain.AllStatuses {
		keys = append(keys, string(s))
	}
	return keys
}
