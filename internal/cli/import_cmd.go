package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Bulk-load products, insumo types, and users from a JSON catalog",
		Long: `Import a catalog file in one transaction. Entries whose slug or email
already exists are reused, so re-importing an updated file only adds
what is new.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sum, err := app.Import.ImportCatalog(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Imported %d product(s), %d type(s), %d user(s), %d grant(s)\n",
				sum.Products, sum.Types, sum.Users, sum.Grants)
			return nil
		},
	}
}
