package testimonials

import "pet-care-portal/internal/platform/jsontime"

type Testimonial struct {
	ID               int64             `json:"id"`
	CustomerName     string            `json:"customerName"`
	CustomerEmail    string            `json:"customerEmail"`
	CustomerImageURL string            `json:"customerImageUrl,omitempty"`
	Rating           int               `json:"rating"` // 1-5
	Title            string            `json:"title,omitempty"`
	Content          string            `json:"content"`
	PetName          string            `json:"petName,omitempty"`
	PetType          string            `json:"petType,omitempty"`
	ServiceType      string            `json:"serviceType,omitempty"`
	IsApproved       bool              `json:"isApproved"`
	IsFeatured       bool              `json:"isFeatured"`
	ApprovedAt       jsontime.DateTime `json:"approvedAt,omitzero"`
	CreatedAt        jsontime.DateTime `json:"createdAt,omitzero"`
}
