package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/teuprojeto/flowrev/internal/cli/formatter"
)

func todayUTC() time.Time {
	return time.Now().UTC()
}

func newDashboardCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard PRODUCT_SLUG",
		Short: "Show per-cycle production progress for a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			product, err := resolveProduct(ctx, app, args[0])
			if err != nil {
				return err
			}
			overview, err := app.Dashboard.ProductOverview(ctx, product.ID, todayUTC())
			if err != nil {
				return err
			}
			if len(overview) == 0 {
				fmt.Println("No editions yet.")
				return nil
			}
			fmt.Printf("%s\n", formatter.FormatDashboard(product.Name, overview))
			return nil
		},
	}
}
