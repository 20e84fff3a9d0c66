package orders

import (
	"errors"

	"pet-care-portal/internal/domain/cart"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyCart = errors.New("orders: no items to check out")
)

const (
	MsgPlaced = "Order placed successfully!"
	MsgFailed = "Failed to place order. Please try again."

	DefaultCountry = "United States"
)

// Kind distingue la compra directa de un producto del checkout del carrito.
type Kind string

const (
	KindCart   Kind = "cart"
	KindSingle Kind = "single"
)

// CheckoutRequest es el body de POST /orders.
type CheckoutRequest struct {
	Type            Kind            `json:"type"`
	ShippingDetails ShippingDetails `json:"shippingDetails"`
	Items           []cart.Item     `json:"items"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	TaxAmount       decimal.Decimal `json:"taxAmount"`
	FinalAmount     decimal.Decimal `json:"finalAmount"`
}

// NewCheckout arma el pedido con los montos calculados localmente.
func NewCheckout(kind Kind, items []cart.Item, ship ShippingDetails, taxRate decimal.Decimal) (CheckoutRequest, error) {
	if len(items) == 0 {
		return CheckoutRequest{}, ErrEmptyCart
	}
	for _, it := range items {
		if err := it.Validate(); err != nil {
			return CheckoutRequest{}, err
		}
	}
	if kind == "" {
		kind = KindCart
	}
	if ship.Country == "" {
		ship.Country = DefaultCountry
	}

	sum := cart.Totals(items, taxRate)
	return CheckoutRequest{
		Type:            kind,
		ShippingDetails: ship,
		Items:           items,
		TotalAmount:     sum.Subtotal,
		TaxAmount:       sum.Tax,
		FinalAmount:     sum.Total,
	}, nil
}
