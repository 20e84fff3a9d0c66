// Package cart calcula totales del carrito y del checkout.
package cart

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidQuantity = errors.New("cart: quantity must be positive")
	ErrInvalidPrice    = errors.New("cart: unit price must not be negative")
)

// DefaultTaxRate es el impuesto aplicado en checkout (8%).
var DefaultTaxRate = decimal.RequireFromString("0.08")

// Item es el body de POST /cart/add/{userId}.
type Item struct {
	ProductID int64           `json:"productId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

func (i Item) Validate() error {
	if i.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if i.UnitPrice.IsNegative() {
		return ErrInvalidPrice
	}
	return nil
}

func (i Item) Total() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Summary son los montos del checkout, redondeados a 2 decimales.
type Summary struct {
	Items    int             `json:"items"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// Totals: subtotal = Σ precio×cantidad, tax = subtotal×taxRate.
func Totals(items []Item, taxRate decimal.Decimal) Summary {
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.Total())
	}
	subtotal = subtotal.Round(2)
	tax := subtotal.Mul(taxRate).Round(2)

	return Summary{
		Items:    Count(items),
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}
}

// Count es el número del badge: suma de cantidades.
func Count(items []Item) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}

// Merge suma la cantidad si el producto ya está en el carrito.
func Merge(items []Item, add Item) []Item {
	out := make([]Item, 0, len(items)+1)
	merged := false
	for _, it := range items {
		if it.ProductID == add.ProductID && !merged {
			it.Quantity += add.Quantity
			it.UnitPrice = add.UnitPrice
			merged = true
		}
		out = append(out, it)
	}
	if !merged {
		out = append(out, add)
	}
	return out
}
