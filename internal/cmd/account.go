package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mkrupp/storefront/internal/domain"
)

func (c *cli) newWishlistCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wishlist",
		Short: "Show and change the wishlist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			products, err := c.app.Account.Wishlist(cmd.Context())
			if err != nil {
				return err //nolint:wrapcheck
			}

			return c.print(cmd, wishlistView(products))
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add PRODUCT_ID",
			Short: "Add a product to the wishlist",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ids, err := c.app.Account.AddToWishlist(cmd.Context(), args[0])
				if err != nil {
					return err //nolint:wrapcheck
				}

				return c.print(cmd, productIDsView(ids, "Added to wishlist"))
			},
		},
		&cobra.Command{
			Use:     "remove PRODUCT_ID",
			Aliases: []string{"rm"},
			Short:   "Remove a product from the wishlist",
			Args:    cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ids, err := c.app.Account.RemoveFromWishlist(cmd.Context(), args[0])
				if err != nil {
					return err //nolint:wrapcheck
				}

				return c.print(cmd, productIDsView(ids, "Removed from wishlist"))
			},
		},
	)

	return cmd
}

func (c *cli) newAddressesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "addresses",
		Aliases: []string{"address"},
		Short:   "Manage saved shipping addresses",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			addresses, err := c.app.Account.Addresses(cmd.Context())
			if err != nil {
				return err //nolint:wrapcheck
			}

			return c.print(cmd, addressesView(addresses))
		},
	}

	var address domain.Address

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Save an address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			addresses, err := c.app.Account.AddAddress(cmd.Context(), address)
			if err != nil {
				return err //nolint:wrapcheck
			}

			return c.print(cmd, addressesView(addresses))
		},
	}

	addCmd.Flags().StringVar(&address.Name, "name", "", "label, e.g. Home")
	addCmd.Flags().StringVar(&address.Details, "details", "", "street and building")
	addCmd.Flags().StringVar(&address.Phone, "phone", "", "contact phone")
	addCmd.Flags().StringVar(&address.City, "city", "", "city")

	getCmd := &cobra.Command{
		Use:   "get ADDRESS_ID",
		Short: "Show a saved address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			found, err := c.app.Account.GetAddress(cmd.Context(), args[0])
			if err != nil {
				return err //nolint:wrapcheck
			}

			return c.print(cmd, addressesView([]domain.Address{found}))
		},
	}

	removeCmd := &cobra.Command{
		Use:     "remove ADDRESS_ID",
		Aliases: []string{"rm"},
		Short:   "Delete a saved address",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addresses, err := c.app.Account.RemoveAddress(cmd.Context(), args[0])
			if err != nil {
				return err //nolint:wrapcheck
			}

			return c.print(cmd, addressesView(addresses))
		},
	}

	cmd.AddCommand(addCmd, getCmd, removeCmd)

	return cmd
}
