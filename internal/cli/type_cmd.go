package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teuprojeto/flowrev/internal/cli/formatter"
	"github.com/teuprojeto/flowrev/internal/domain"
)

func newTypeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "type",
		Short: "Manage insumo types",
	}

	cmd.AddCommand(
		newTypeAddCmd(app),
		newTypeListCmd(app),
	)

	return cmd
}

func newTypeAddCmd(app *App) *cobra.Command {
	var name, description string
	var sortOrder int
	var requiresImage, requiresCaption, requiresPDF bool

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new insumo type",
		RunE: func(cmd *cobra.Command, args []string) error {
			it := &domain.InsumoType{
				Name:            name,
				Description:     description,
				SortOrder:       sortOrder,
				RequiresImage:   requiresImage,
				RequiresCaption: requiresCaption,
				RequiresPDF:     requiresPDF,
				Active:          true,
			}
			if err := app.Types.Create(context.Background(), it); err != nil {
				return err
			}
			fmt.Printf("Created insumo type %s [%s]\n", it.Name, it.Slug)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Type name")
	cmd.Flags().StringVar(&description, "desc", "", "Description")
	cmd.Flags().IntVar(&sortOrder, "order", 0, "Sort position on the board")
	cmd.Flags().BoolVar(&requiresImage, "requires-image", false, "Approval requires an image attachment")
	cmd.Flags().BoolVar(&requiresCaption, "requires-caption", false, "Approval requires image captions")
	cmd.Flags().BoolVar(&requiresPDF, "requires-pdf", false, "Approval requires a PDF attachment")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newTypeListCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List insumo types",
		RunE: func(cmd *cobra.Command, args []string) error {
			types, err := app.Types.List(context.Background(), all)
			if err != nil {
				return err
			}
			if len(types) == 0 {
				fmt.Println("No insumo types found.")
				return nil
			}
			fmt.Printf("%s\n", formatter.FormatTypeList(types))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include inactive types")

	return cmd
}
