package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teuprojeto/flowrev/internal/cli/formatter"
	"github.com/teuprojeto/flowrev/internal/domain"
)

func newEditionCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edition",
		Short: "Manage monthly production cycles",
	}

	cmd.AddCommand(
		newEditionStartCmd(app),
		newEditionSyncCmd(app),
		newEditionListCmd(app),
		newEditionPhaseCmd(app),
	)

	return cmd
}

func newEditionStartCmd(app *App) *cobra.Command {
	var cycle string

	cmd := &cobra.Command{
		Use:   "start PRODUCT_SLUG",
		Short: "Open a production cycle, seeding one insumo per active type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			product, err := resolveProduct(ctx, app, args[0])
			if err != nil {
				return err
			}
			year, month, err := parseCycle(cycle)
			if err != nil {
				return err
			}

			edition, err := app.Editions.Start(ctx, product.ID, year, month)
			if err != nil {
				return err
			}

			insumos, err := app.Insumos.FetchInsumos(ctx, edition.ID)
			if err != nil {
				return err
			}
			fmt.Printf("Started %s %s with %d insumos\n",
				product.Name, formatter.MonthLabel(year, month), len(insumos))
			return nil
		},
	}

	cmd.Flags().StringVar(&cycle, "cycle", "", "Cycle (YYYY-MM, defaults to the current month)")

	return cmd
}

func newEditionSyncCmd(app *App) *cobra.Command {
	var cycle string

	cmd := &cobra.Command{
		Use:   "sync PRODUCT_SLUG",
		Short: "Backfill insumos for types added after the cycle started",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			_, edition, err := resolveEdition(ctx, app, args[0], cycle)
			if err != nil {
				return err
			}
			created, err := app.Editions.Sync(ctx, edition.ID)
			if err != nil {
				return err
			}
			if created == 0 {
				fmt.Println("Already in sync.")
				return nil
			}
			fmt.Printf("Created %d insumo(s)\n", created)
			return nil
		},
	}

	cmd.Flags().StringVar(&cycle, "cycle", "", "Cycle (YYYY-MM, defaults to the current month)")

	return cmd
}

func newEditionListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list PRODUCT_SLUG",
		Short: "List a product's cycles",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			product, err := resolveProduct(ctx, app, args[0])
			if err != nil {
				return err
			}
			editions, err := app.Editions.ListByProduct(ctx, product.ID)
			if err != nil {
				return err
			}
			if len(editions) == 0 {
				fmt.Println("No editions found.")
				return nil
			}
			fmt.Printf("%s\n", formatter.FormatEditionList(editions))
			return nil
		},
	}
}

func newEditionPhaseCmd(app *App) *cobra.Command {
	var cycle string

	cmd := &cobra.Command{
		Use:   "phase PRODUCT_SLUG PHASE",
		Short: "Set a cycle's production phase",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			_, edition, err := resolveEdition(ctx, app, args[0], cycle)
			if err != nil {
				return err
			}
			phase := domain.ProductionPhase(args[1])
			valid := false
			for _, p := range domain.AllPhases {
				if p == phase {
					valid = true
					break
				}
			}
			if !valid {
				return fmt.Errorf("unknown phase %q", args[1])
			}
			if err := app.Editions.SetPhase(ctx, edition.ID, phase); err != nil {
				return err
			}
			fmt.Printf("Phase set to %s\n", phase)
			return nil
		},
	}

	cmd.Flags().StringVar(&cycle, "cycle", "", "Cycle (YYYY-MM, defaults to the current month)")

	return cmd
}
