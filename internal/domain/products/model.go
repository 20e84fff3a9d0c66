package products

import (
	"strings"

	"pet-care-portal/internal/platform/jsontime"
)

type Category string

const (
	CategoryFood        Category = "FOOD"
	CategoryToys        Category = "TOYS"
	CategoryMedicine    Category = "MEDICINE"
	CategoryAccessories Category = "ACCESSORIES"
	CategoryGrooming    Category = "GROOMING"
)

var Categories = []Category{
	CategoryFood, CategoryToys, CategoryMedicine, CategoryAccessories, CategoryGrooming,
}

// ParseCategory acepta cualquier casing ("food", "Food").
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Categories {
		if c == known {
			return c, true
		}
	}
	return "", false
}

// Product es un snapshot del catálogo; el backend es el dueño del ciclo de vida.
type Product struct {
	ID               int64             `json:"id"`
	Name             string            `json:"name"`
	Description      string            `json:"description,omitempty"`
	ShortDescription string            `json:"shortDescription,omitempty"`
	Category         Category          `json:"category"`
	Brand            string            `json:"brand,omitempty"`
	Price            float64           `json:"price"`
	DiscountPrice    *float64          `json:"discountPrice,omitempty"`
	StockQuantity    int               `json:"stockQuantity"`
	SKU              string            `json:"sku,omitempty"`
	PetType          string            `json:"petType,omitempty"`
	ImageURL         string            `json:"imageUrl,omitempty"`
	IsActive         bool              `json:"isActive"`
	IsFeatured       bool              `json:"isFeatured"`
	Rating           *float64          `json:"rating,omitempty"`
	TotalReviews     int               `json:"totalReviews"`
	CreatedAt        jsontime.DateTime `json:"createdAt"`
	UpdatedAt        jsontime.DateTime `json:"updatedAt"`
}

func (p Product) rating() float64 {
	if p.Rating == nil {
		return 0
	}
	return *p.Rating
}

func (p Product) createdUnix() int64 {
	if p.CreatedAt.IsZero() {
		return 0
	}
	return p.CreatedAt.UnixNano()
}
