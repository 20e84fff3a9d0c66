package cart

import (
	"testing"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestTotals(t *testing.T) {
	items := []Item{
		{ProductID: 1, Quantity: 2, UnitPrice: d("1250.50")},
		{ProductID: 2, Quantity: 1, UnitPrice: d("99.99")},
	}
	s := Totals(items, DefaultTaxRate)

	if !s.Subtotal.Equal(d("2600.99")) {
		t.Fatalf("subtotal: %s", s.Subtotal)
	}
	// 2600.99 * 0.08 = 208.0792
	if !s.Tax.Equal(d("208.08")) {
		t.Fatalf("tax: %s", s.Tax)
	}
	if !s.Total.Equal(d("2809.07")) || s.Items != 3 {
		t.Fatalf("total: %s items: %d", s.Total, s.Items)
	}
}

func TestTotals_Empty(t *testing.T) {
	s := Totals(nil, DefaultTaxRate)
	if !s.Total.IsZero() || s.Items != 0 {
		t.Fatalf("expected zero summary, got %+v", s)
	}
}

func TestItem_Validate(t *testing.T) {
	if err := (Item{Quantity: 0, UnitPrice: d("1")}).Validate(); err != ErrInvalidQuantity {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
	if err := (Item{Quantity: 1, UnitPrice: d("-1")}).Validate(); err != ErrInvalidPrice {
		t.Fatalf("expected ErrInvalidPrice, got %v", err)
	}
}

func TestMerge(t *testing.T) {
	items := Merge(nil, Item{ProductID: 1, Quantity: 1, UnitPrice: d("10")})
	items = Merge(items, Item{ProductID: 2, Quantity: 2, UnitPrice: d("5")})
	items = Merge(items, Item{ProductID: 1, Quantity: 3, UnitPrice: d("10")})

	if len(items) != 2 || items[0].Quantity != 4 || Count(items) != 6 {
		t.Fatalf("unexpected merge result %+v", items)
	}
}
