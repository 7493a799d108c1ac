package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// loadCart mirrors the remote cart of the signed-in user.
func (c *cli) loadCart(cmd *cobra.Command) error {
	if err := c.requireSession(); err != nil {
		return err
	}

	return c.app.Cart.LoadCart(cmd.Context()) //nolint:wrapcheck
}

func (c *cli) newCartCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show and change the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.loadCart(cmd); err != nil {
				return err
			}

			return c.print(cmd, cartView(c.app.Cart.State()))
		},
	}

	addCmd := &cobra.Command{
		Use:   "add PRODUCT_ID",
		Short: "Add one item of a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireSession(); err != nil {
				return err
			}

			if err := c.app.Cart.AddToCart(cmd.Context(), args[0]); err != nil {
				return err //nolint:wrapcheck
			}

			return c.print(cmd, cartView(c.app.Cart.State()))
		},
	}

	updateCmd := &cobra.Command{
		Use:   "update LINE_ID COUNT",
		Short: "Set the quantity of a line; a count below one removes it",
		Long: `Set the quantity of a cart line. LINE_ID is the line id shown by
"storefront cart" or the product id of the line.

Flags must come before LINE_ID so that negative counts are read as arguments.`,
		Args: cobra.ExactArgs(2), //nolint:mnd
		RunE: func(cmd *cobra.Command, args []string) error {
			count, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid count %q: %w", args[1], err)
			}

			if err := c.loadCart(cmd); err != nil {
				return err
			}

			if err := c.app.Cart.UpdateQuantity(cmd.Context(), args[0], count); err != nil {
				return err //nolint:wrapcheck
			}

			return c.print(cmd, cartView(c.app.Cart.State()))
		},
	}

	removeCmd := &cobra.Command{
		Use:     "remove LINE_ID",
		Aliases: []string{"rm"},
		Short:   "Remove a line",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadCart(cmd); err != nil {
				return err
			}

			if err := c.app.Cart.RemoveFromCart(cmd.Context(), args[0]); err != nil {
				return err //nolint:wrapcheck
			}

			return c.print(cmd, cartView(c.app.Cart.State()))
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.requireSession(); err != nil {
				return err
			}

			if err := c.app.Cart.ClearCart(cmd.Context()); err != nil {
				return err //nolint:wrapcheck
			}

			return c.print(cmd, cartView(c.app.Cart.State()))
		},
	}

	updateCmd.Flags().SetInterspersed(false)

	cmd.AddCommand(addCmd, updateCmd, removeCmd, clearCmd)

	return cmd
}
