package devapi

import (
	"pet-care-portal/internal/adapters/storage/memory"
	"pet-care-portal/internal/domain/appointments"
	"pet-care-portal/internal/domain/cart"
	"pet-care-portal/internal/domain/orders"
	"pet-care-portal/internal/domain/products"
	"pet-care-portal/internal/domain/session"
	"pet-care-portal/internal/domain/testimonials"
	"pet-care-portal/internal/domain/veterinarians"
)

// userRecord guarda el hash junto al usuario; el hash nunca sale por la API.
type userRecord struct {
	session.User
	PasswordHash string
}

type cartLine struct {
	ID int64 `json:"id"`
	cart.Item
	Product *products.Product `json:"product,omitempty"`
}

type cartRecord struct {
	ID     int64
	UserID int64
	Lines  []cartLine
	nextID int64
}

type cartView struct {
	ID              int64      `json:"id"`
	UserID          int64      `json:"userId"`
	Items           []cartLine `json:"cartItems"`
	TotalItemsCount int        `json:"totalItemsCount"`
}

func (c cartRecord) items() []cart.Item {
	out := make([]cart.Item, 0, len(c.Lines))
	for _, l := range c.Lines {
		out = append(out, l.Item)
	}
	return out
}

func (c cartRecord) view() cartView {
	lines := make([]cartLine, len(c.Lines))
	copy(lines, c.Lines)
	return cartView{
		ID:              c.ID,
		UserID:          c.UserID,
		Items:           lines,
		TotalItemsCount: cart.Count(c.items()),
	}
}

// Store agrupa las tablas in-memory del devapi.
type Store struct {
	Users         *memory.Table[userRecord]
	Products      *memory.Table[products.Product]
	Veterinarians *memory.Table[veterinarians.Veterinarian]
	Appointments  *memory.Table[appointments.Appointment]
	Testimonials  *memory.Table[testimonials.Testimonial]
	Carts         *memory.Table[cartRecord]
	Orders        *memory.Table[orders.Order]
}

func NewStore() *Store {
	return &Store{
		Users:         memory.NewTable[userRecord](),
		Products:      memory.NewTable[products.Product](),
		Veterinarians: memory.NewTable[veterinarians.Veterinarian](),
		Appointments:  memory.NewTable[appointments.Appointment](),
		Testimonials:  memory.NewTable[testimonials.Testimonial](),
		Carts:         memory.NewTable[cartRecord](),
		Orders:        memory.NewTable[orders.Order](),
	}
}
