package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teuprojeto/flowrev/internal/cli/formatter"
	"github.com/teuprojeto/flowrev/internal/domain"
)

func newProductCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "product",
		Short: "Manage publication products",
	}

	cmd.AddCommand(
		newProductAddCmd(app),
		newProductListCmd(app),
		newProductDisableCmd(app),
		newProductEnableCmd(app),
	)

	return cmd
}

func newProductAddCmd(app *App) *cobra.Command {
	var name, slug string
	var sortOrder int

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new product",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := &domain.Product{
				Name:      name,
				Slug:      slug,
				Active:    true,
				SortOrder: sortOrder,
			}
			if err := app.Products.Create(context.Background(), p); err != nil {
				return err
			}
			fmt.Printf("Created product %s [%s]\n", p.Name, p.Slug)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Product name")
	cmd.Flags().StringVar(&slug, "slug", "", "URL-safe identifier (derived from name when omitted)")
	cmd.Flags().IntVar(&sortOrder, "order", 0, "Sort position in listings")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newProductListCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products",
		RunE: func(cmd *cobra.Command, args []string) error {
			products, err := app.Products.List(context.Background(), all)
			if err != nil {
				return err
			}
			if len(products) == 0 {
				fmt.Println("No products found.")
				return nil
			}
			fmt.Printf("%s\n", formatter.FormatProductList(products))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include inactive products")

	return cmd
}

func newProductDisableCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "disable SLUG",
		Short: "Deactivate a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setProductActive(app, args[0], false)
		},
	}
}

func newProductEnableCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "enable SLUG",
		Short: "Reactivate a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setProductActive(app, args[0], true)
		},
	}
}

func setProductActive(app *App, slug string, active bool) error {
	ctx := context.Background()
	p, err := app.Products.GetBySlug(ctx, slug)
	if err != nil {
		return fmt.Errorf("product not found: %q", slug)
	}
	p.Active = active
	if err := app.Products.Update(ctx, p); err != nil {
		return err
	}
	state := "Disabled"
	if active {
		state = "Enabled"
	}
	fmt.Printf("%s product %s\n", state, p.Slug)
	return nil
}
