package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"pet-care-portal/internal/apiclient"
	"pet-care-portal/internal/domain/cart"
	"pet-care-portal/internal/domain/orders"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	cartQty int

	shipping orders.ShippingDetails
)

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Manage the shopping cart of the logged in user",
}

var cartAddCmd = &cobra.Command{
	Use:   "add PRODUCT_ID",
	Short: "Add a product to the cart",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runCartAdd),
}

var cartCountCmd = &cobra.Command{
	Use:   "count",
	Short: "Number of items in the cart (the header badge)",
	RunE: withApp(func(cmd *cobra.Command, _ []string, a *app) error {
		u, err := a.currentUser()
		if err != nil {
			return err
		}
		n, err := a.api.Cart.GetCount(cmd.Context(), u.ID)
		if err != nil {
			return err
		}
		printf(cmd.OutOrStdout(), "%d\n", n)
		return nil
	}),
}

var cartShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the cart with its totals",
	RunE: withApp(func(cmd *cobra.Command, _ []string, a *app) error {
		u, err := a.currentUser()
		if err != nil {
			return err
		}
		c, err := a.api.Cart.Get(cmd.Context(), u.ID)
		if err != nil {
			return err
		}
		return printCart(cmd.OutOrStdout(), c, a.taxRate())
	}),
}

var checkoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Place an order with the cart contents",
	RunE:  withApp(runCheckout),
}

func init() {
	rootCmd.AddCommand(cartCmd, checkoutCmd)
	cartCmd.AddCommand(cartAddCmd, cartCountCmd, cartShowCmd)

	cartAddCmd.Flags().IntVar(&cartQty, "qty", 1, "quantity")

	f := checkoutCmd.Flags()
	f.StringVar(&shipping.FullName, "full-name", "", "recipient (default: session user)")
	f.StringVar(&shipping.Email, "email", "", "contact email (default: session user)")
	f.StringVar(&shipping.Phone, "phone", "", "contact phone")
	f.StringVar(&shipping.Address, "address", "", "street address")
	f.StringVar(&shipping.City, "city", "", "city")
	f.StringVar(&shipping.State, "state", "", "state")
	f.StringVar(&shipping.ZipCode, "zip", "", "zip code")
	f.StringVar(&shipping.Country, "country", orders.DefaultCountry, "country")
}

func (a *app) taxRate() decimal.Decimal {
	return decimal.NewFromFloat(a.cfg.Checkout.TaxRate)
}

func runCartAdd(cmd *cobra.Command, args []string, a *app) error {
	u, err := a.currentUser()
	if err != nil {
		return err
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	item := cart.Item{ProductID: id, Quantity: cartQty}
	if err := item.Validate(); err != nil {
		return err
	}

	c, err := a.api.Cart.AddItem(cmd.Context(), u.ID, item)
	if err != nil {
		return err
	}
	printf(cmd.OutOrStdout(), "Added %d x product #%d (%d items in cart)\n", cartQty, id, c.TotalItemsCount)
	return nil
}

// runCheckout arma el pedido con los totales locales; el backend puede
// recalcularlos con el catálogo.
func runCheckout(cmd *cobra.Command, _ []string, a *app) error {
	u, err := a.currentUser()
	if err != nil {
		return err
	}
	c, err := a.api.Cart.Get(cmd.Context(), u.ID)
	if err != nil {
		return err
	}

	ship := shipping
	if ship.FullName == "" {
		ship.FullName = u.FullName()
	}
	if ship.Email == "" {
		ship.Email = u.Email
	}

	req, err := orders.NewCheckout(orders.KindCart, c.Lines(), ship, a.taxRate())
	if err != nil {
		return err
	}
	o, err := a.api.Orders.Checkout(cmd.Context(), req)
	if err != nil {
		printf(cmd.ErrOrStderr(), "%s\n", orders.MsgFailed)
		return err
	}

	out := cmd.OutOrStdout()
	printf(out, "%s\n", orders.MsgPlaced)
	printf(out, "order:    %s (#%d, %s)\n", o.OrderNumber, o.ID, o.Status)
	printf(out, "subtotal: %s\n", o.Subtotal.StringFixed(2))
	printf(out, "tax:      %s\n", o.TaxAmount.StringFixed(2))
	printf(out, "total:    %s\n", o.TotalAmount.StringFixed(2))
	return nil
}

func printCart(w io.Writer, c apiclient.Cart, taxRate decimal.Decimal) error {
	if len(c.Items) == 0 {
		printf(w, "Cart is empty\n")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ITEM\tPRODUCT\tQTY\tUNIT\tTOTAL")
	for _, e := range c.Items {
		name := fmt.Sprintf("#%d", e.ProductID)
		if e.Product != nil {
			name = e.Product.Name
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\n",
			e.ID, name, e.Quantity, e.UnitPrice.StringFixed(2), e.Total().StringFixed(2))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	sum := cart.Totals(c.Lines(), taxRate)
	printf(w, "items:    %d\n", sum.Items)
	printf(w, "subtotal: %s\n", sum.Subtotal.StringFixed(2))
	printf(w, "tax:      %s\n", sum.Tax.StringFixed(2))
	printf(w, "total:    %s\n", sum.Total.StringFixed(2))
	return nil
}
