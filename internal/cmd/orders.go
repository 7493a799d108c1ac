package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mkrupp/storefront/internal/domain"
	"github.com/mkrupp/storefront/internal/infra/format"
)

func (c *cli) newOrdersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "List your orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			orders, err := c.app.Orders.UserOrders(cmd.Context())
			if err != nil {
				return err //nolint:wrapcheck
			}

			return c.print(cmd, ordersView(orders))
		},
	}

	var query domain.ListQuery

	allCmd := &cobra.Command{
		Use:   "all",
		Short: "List every order visible to your account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp, err := c.app.Orders.AllOrders(cmd.Context(), query)
			if err != nil {
				return err //nolint:wrapcheck
			}

			return c.print(cmd, ordersView(resp.Data))
		},
	}
	addListFlags(allCmd.Flags(), &query)

	cmd.AddCommand(allCmd)

	return cmd
}

type checkoutFlags struct {
	address   domain.ShippingAddress
	addressID string
}

func (f *checkoutFlags) register(flags *pflag.FlagSet) {
	flags.StringVar(&f.address.Details, "details", "", "street and building")
	flags.StringVar(&f.address.Phone, "phone", "", "contact phone")
	flags.StringVar(&f.address.City, "city", "", "city")
	flags.StringVar(&f.address.PostalCode, "postal-code", "", "postal code")
	flags.StringVar(&f.addressID, "address", "", "ship to a saved address instead")
}

// shippingAddress resolves the destination from the flags.
func (c *cli) shippingAddress(cmd *cobra.Command, f *checkoutFlags) (domain.ShippingAddress, error) {
	if f.addressID == "" {
		return f.address, nil
	}

	saved, err := c.app.Account.GetAddress(cmd.Context(), f.addressID)
	if err != nil {
		return domain.ShippingAddress{}, err //nolint:wrapcheck
	}

	return saved.AsShippingAddress(), nil
}

func (c *cli) newCheckoutCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Place an order for the cart",
	}

	var cash checkoutFlags

	cashCmd := &cobra.Command{
		Use:   "cash",
		Short: "Place a cash-on-delivery order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			address, err := c.shippingAddress(cmd, &cash)
			if err != nil {
				return err
			}

			if err := c.loadCart(cmd); err != nil {
				return err
			}

			order, err := c.app.Orders.CreateCashOrder(cmd.Context(), address)
			if err != nil {
				return err //nolint:wrapcheck
			}

			return c.print(cmd, orderView(order))
		},
	}
	cash.register(cashCmd.Flags())

	var (
		card      checkoutFlags
		returnURL string
	)

	cardCmd := &cobra.Command{
		Use:   "card",
		Short: "Open a hosted card payment and print its URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			address, err := c.shippingAddress(cmd, &card)
			if err != nil {
				return err
			}

			if err := c.loadCart(cmd); err != nil {
				return err
			}

			paymentURL, err := c.app.Orders.CreateCheckoutSession(cmd.Context(), address, returnURL)
			if err != nil {
				return err //nolint:wrapcheck
			}

			return c.print(cmd, format.NewView(map[string]string{"url": paymentURL}, func(*format.PriceFormatter) any {
				return "Complete the payment at " + paymentURL
			}))
		},
	}
	card.register(cardCmd.Flags())
	cardCmd.Flags().StringVar(&returnURL, "return-url", "", "where the payment page returns to")

	cmd.AddCommand(cashCmd, cardCmd)

	return cmd
}
