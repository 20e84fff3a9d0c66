package devapi

import (
	"context"
	"fmt"
	"time"

	"pet-care-portal/internal/domain/products"
	"pet-care-portal/internal/domain/session"
	"pet-care-portal/internal/domain/testimonials"
	"pet-care-portal/internal/domain/veterinarians"
	"pet-care-portal/internal/platform/jsontime"

	"github.com/shopspring/decimal"
)

// Credenciales de demo que crea Seed.
const (
	DemoUsername  = "demo"
	DemoPassword  = "demo123"
	AdminUsername = "admin"
	AdminPassword = "admin123"
)

func ptr[T any](v T) *T { return &v }

// Seed carga datos de demo: usuarios, veterinarios, productos y testimonios.
func (a *API) Seed(ctx context.Context) error {
	now := a.now()
	at := func(daysAgo int) jsontime.DateTime {
		return jsontime.DateTime{Time: now.Add(-time.Duration(daysAgo) * 24 * time.Hour).Truncate(time.Second)}
	}

	users := []struct {
		u  session.User
		pw string
	}{
		{session.User{Username: AdminUsername, Email: "admin@petcare.local", FirstName: "Ada", LastName: "Admin", Role: session.RoleAdmin}, AdminPassword},
		{session.User{Username: DemoUsername, Email: "demo@petcare.local", FirstName: "Dana", LastName: "Demo", Role: session.RoleUser}, DemoPassword},
	}
	for _, s := range users {
		if _, err := a.createUser(ctx, s.u, s.pw); err != nil {
			return fmt.Errorf("seed user %s: %w", s.u.Username, err)
		}
	}

	vets := []veterinarians.Veterinarian{
		{
			FullName: "Dr. Sarah Johnson", Email: "sarah.johnson@petcare.local", LicenseNumber: "VET-1001",
			Specialization: "General Practice", YearsOfExperience: 12,
			ConsultationFee: decimal.RequireFromString("75.00"), Rating: decimal.RequireFromString("4.8"),
			AvailableFrom: "09:00", AvailableTo: "17:00", WorkingDays: "MON,TUE,WED,THU,FRI", IsAvailable: true,
		},
		{
			FullName: "Dr. Michael Chen", Email: "michael.chen@petcare.local", LicenseNumber: "VET-1002",
			Specialization: "Surgery", YearsOfExperience: 15,
			ConsultationFee: decimal.RequireFromString("120.00"), Rating: decimal.RequireFromString("4.9"),
			AvailableFrom: "10:00", AvailableTo: "14:00", WorkingDays: "MON,WED,FRI", IsAvailable: true,
		},
		{
			FullName: "Dr. Emily Rodriguez", Email: "emily.rodriguez@petcare.local", LicenseNumber: "VET-1003",
			Specialization: "Dermatology", YearsOfExperience: 8,
			ConsultationFee: decimal.RequireFromString("90.00"), Rating: decimal.RequireFromString("4.7"),
			IsAvailable: false,
		},
	}
	for i, v := range vets {
		v.CreatedAt, v.UpdatedAt = at(90-i), at(90-i)
		a.store.Veterinarians.Create(ctx, func(id int64) veterinarians.Veterinarian {
			v.ID = id
			return v
		})
	}

	catalog := []products.Product{
		{Name: "Premium Dog Food", Brand: "NutriPaws", Category: products.CategoryFood, Price: 49.99, DiscountPrice: ptr(44.99), StockQuantity: 120, PetType: "Dog", IsFeatured: true, Rating: ptr(4.6), TotalReviews: 210},
		{Name: "Grain-Free Cat Food", Brand: "Whisker Co", Category: products.CategoryFood, Price: 34.50, StockQuantity: 80, PetType: "Cat", Rating: ptr(4.4), TotalReviews: 95},
		{Name: "Squeaky Bone Toy", Brand: "PlayPet", Category: products.CategoryToys, Price: 9.99, StockQuantity: 300, PetType: "Dog", Rating: ptr(4.1), TotalReviews: 48},
		{Name: "Flea & Tick Drops", Brand: "VetShield", Category: products.CategoryMedicine, Price: 29.00, StockQuantity: 60, IsFeatured: true, Rating: ptr(4.7), TotalReviews: 130},
		{Name: "Leather Collar", Brand: "UrbanTail", Category: products.CategoryAccessories, Price: 19.95, StockQuantity: 75, Rating: ptr(3.9), TotalReviews: 22},
		{Name: "Oatmeal Shampoo", Brand: "FreshCoat", Category: products.CategoryGrooming, Price: 12.49, StockQuantity: 140, Rating: ptr(4.3), TotalReviews: 64},
	}
	for i, p := range catalog {
		p.IsActive = true
		p.SKU = fmt.Sprintf("SKU-%04d", i+1)
		p.ShortDescription = p.Brand + " " + p.Name
		p.CreatedAt, p.UpdatedAt = at(len(catalog)-i), at(len(catalog)-i)
		a.store.Products.Create(ctx, func(id int64) products.Product {
			p.ID = id
			return p
		})
	}

	reviews := []testimonials.Testimonial{
		{CustomerName: "Laura P.", CustomerEmail: "laura@example.com", Rating: 5, Title: "Great care", Content: "The team took amazing care of Luna.", PetName: "Luna", PetType: "Dog", ServiceType: "Regular Checkup", IsApproved: true, IsFeatured: true},
		{CustomerName: "Tom B.", CustomerEmail: "tom@example.com", Rating: 4, Content: "Quick booking and friendly vets.", PetName: "Milo", PetType: "Cat", IsApproved: true},
		{CustomerName: "Anon", CustomerEmail: "anon@example.com", Rating: 2, Content: "Waiting room was crowded."},
	}
	for i, t := range reviews {
		t.CreatedAt = at(10 - i)
		if t.IsApproved {
			t.ApprovedAt = at(9 - i)
		}
		a.store.Testimonials.Create(ctx, func(id int64) testimonials.Testimonial {
			t.ID = id
			return t
		})
	}

	a.log.Info("seed data loaded", map[string]any{
		"users":         len(users),
		"veterinarians": len(vets),
		"products":      len(catalog),
		"testimonials":  len(reviews),
	})
	return nil
}
