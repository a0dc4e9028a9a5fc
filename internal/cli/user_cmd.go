package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teuprojeto/flowrev/internal/cli/formatter"
	"github.com/teuprojeto/flowrev/internal/domain"
)

func newUserCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage team members and product access",
	}

	cmd.AddCommand(
		newUserAddCmd(app),
		newUserListCmd(app),
		newUserGrantCmd(app),
		newUserRevokeCmd(app),
	)

	return cmd
}

func newUserAddCmd(app *App) *cobra.Command {
	var name, email, role string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a team member",
		RunE: func(cmd *cobra.Command, args []string) error {
			u := &domain.User{
				Name:  name,
				Email: email,
				Role:  domain.Role(role),
			}
			if err := app.Users.Create(context.Background(), u); err != nil {
				return err
			}
			fmt.Printf("Created user %s (%s)\n", u.Name, u.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Full name")
	cmd.Flags().StringVar(&email, "email", "", "Email address (used for sign-in)")
	cmd.Flags().StringVar(&role, "role", "analyst", "Role (supervisor|mid_analyst|analyst|coordinator|manager)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newUserListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List team members",
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := app.Users.List(context.Background())
			if err != nil {
				return err
			}
			if len(users) == 0 {
				fmt.Println("No users found.")
				return nil
			}
			fmt.Printf("%s\n", formatter.FormatUserList(users))
			return nil
		},
	}
}

func newUserGrantCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "grant EMAIL PRODUCT_SLUG",
		Short: "Grant a user access to a product",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			u, err := app.Users.GetByEmail(ctx, args[0])
			if err != nil {
				return fmt.Errorf("user not found: %q", args[0])
			}
			p, err := app.Products.GetBySlug(ctx, args[1])
			if err != nil {
				return fmt.Errorf("product not found: %q", args[1])
			}
			if err := app.Users.GrantProduct(ctx, u.ID, p.ID); err != nil {
				return err
			}
			fmt.Printf("Granted %s access to %s\n", u.Name, p.Slug)
			return nil
		},
	}
}

func newUserRevokeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "revoke EMAIL PRODUCT_SLUG",
		Short: "Revoke a user's access to a product",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			u, err := app.Users.GetByEmail(ctx, args[0])
			if err != nil {
				return fmt.Errorf("user not found: %q", args[0])
			}
			p, err := app.Products.GetBySlug(ctx, args[1])
			if err != nil {
				return fmt.Errorf("product not found: %q", args[1])
			}
			if err := app.Users.RevokeProduct(ctx, u.ID, p.ID); err != nil {
				return err
			}
			fmt.Printf("Revoked %s's access to %s\n", u.Name, p.Slug)
			return nil
		},
	}
}
