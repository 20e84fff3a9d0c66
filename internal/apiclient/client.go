// Package apiclient expone un cliente por recurso de la API REST (/api).
package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"pet-care-portal/internal/domain/appointments"
	"pet-care-portal/internal/domain/cart"
	"pet-care-portal/internal/domain/orders"
	"pet-care-portal/internal/domain/products"
	"pet-care-portal/internal/domain/session"
	"pet-care-portal/internal/domain/testimonials"
	"pet-care-portal/internal/domain/veterinarians"
	"pet-care-portal/internal/platform/httpclient"
	"pet-care-portal/internal/platform/jsontime"
)

type Client struct {
	HTTP *httpclient.Client

	Auth          *AuthClient
	Users         *UsersClient
	Products      *ProductsClient
	Veterinarians *VeterinariansClient
	Appointments  *AppointmentsClient
	Testimonials  *TestimonialsClient
	Cart          *CartClient
	Orders        *OrdersClient
}

func New(hc *httpclient.Client) *Client {
	return &Client{
		HTTP:          hc,
		Auth:          &AuthClient{http: hc},
		Users:         &UsersClient{resource[session.User]{hc, "/users"}},
		Products:      &ProductsClient{resource[products.Product]{hc, "/products"}},
		Veterinarians: &VeterinariansClient{resource[veterinarians.Veterinarian]{hc, "/veterinarians"}},
		Appointments:  &AppointmentsClient{resource: resource[appointments.Appointment]{hc, "/appointments"}, now: time.Now},
		Testimonials:  &TestimonialsClient{resource[testimonials.Testimonial]{hc, "/testimonials"}},
		Cart:          &CartClient{http: hc},
		Orders:        &OrdersClient{resource[orders.Order]{hc, "/orders"}},
	}
}

// -------------------------
// Auth
// -------------------------

type AuthClient struct {
	http *httpclient.Client
}

// Login devuelve el body crudo: session.Holder interpreta sus distintas formas.
func (a *AuthClient) Login(ctx context.Context, c session.Credentials) (json.RawMessage, error) {
	return raw(ctx, a.http, http.MethodPost, "/auth/login", c)
}

func (a *AuthClient) Register(ctx context.Context, r session.Registration) (json.RawMessage, error) {
	return raw(ctx, a.http, http.MethodPost, "/auth/register", r)
}

func (a *AuthClient) GetProfile(ctx context.Context, userID int64) (session.User, error) {
	return call[session.User](ctx, a.http, http.MethodGet, "/auth/profile/"+id(userID), nil)
}

func (a *AuthClient) UpdateProfile(ctx context.Context, userID int64, p session.UserPatch) (session.User, error) {
	return call[session.User](ctx, a.http, http.MethodPut, "/auth/profile/"+id(userID), p)
}

var _ session.AuthAPI = (*AuthClient)(nil)

// -------------------------
// Users
// -------------------------

type UsersClient struct {
	resource[session.User]
}

func (u *UsersClient) Search(ctx context.Context, q string) ([]session.User, error) {
	return u.search(ctx, q)
}

// -------------------------
// Products
// -------------------------

type ProductsClient struct {
	resource[products.Product]
}

func (p *ProductsClient) Search(ctx context.Context, q string) ([]products.Product, error) {
	return p.search(ctx, q)
}

func (p *ProductsClient) GetByCategory(ctx context.Context, c products.Category) ([]products.Product, error) {
	return p.list(ctx, "category", string(c))
}

func (p *ProductsClient) GetFeatured(ctx context.Context) ([]products.Product, error) {
	return p.list(ctx, "featured")
}

// -------------------------
// Veterinarians
// -------------------------

type VeterinariansClient struct {
	resource[veterinarians.Veterinarian]
}

func (v *VeterinariansClient) GetByEmail(ctx context.Context, email string) (veterinarians.Veterinarian, error) {
	return call[veterinarians.Veterinarian](ctx, v.http, http.MethodGet, v.path("email", email), nil)
}

func (v *VeterinariansClient) Search(ctx context.Context, q string) ([]veterinarians.Veterinarian, error) {
	return v.search(ctx, q)
}

func (v *VeterinariansClient) GetBySpecialization(ctx context.Context, s string) ([]veterinarians.Veterinarian, error) {
	return v.list(ctx, "specialization", s)
}

func (v *VeterinariansClient) GetAvailable(ctx context.Context) ([]veterinarians.Veterinarian, error) {
	return v.list(ctx, "available")
}

func (v *VeterinariansClient) GetSpecializations(ctx context.Context) ([]string, error) {
	return call[[]string](ctx, v.http, http.MethodGet, v.path("specializations"), nil)
}

// -------------------------
// Appointments
// -------------------------

type AppointmentsClient struct {
	resource[appointments.Appointment]
	now func() time.Time
}

func (a *AppointmentsClient) GetByVeterinarian(ctx context.Context, vetID int64) ([]appointments.Appointment, error) {
	return a.list(ctx, "veterinarian", id(vetID))
}

func (a *AppointmentsClient) GetByUser(ctx context.Context, userID int64) ([]appointments.Appointment, error) {
	return a.list(ctx, "user", id(userID))
}

// GetToday filtra localmente: el backend no expone un endpoint para el día.
func (a *AppointmentsClient) GetToday(ctx context.Context) ([]appointments.Appointment, error) {
	all, err := a.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	today := a.now().Format(jsontime.DateLayout)
	out := make([]appointments.Appointment, 0)
	for _, ap := range all {
		if ap.AppointmentDate == today {
			out = append(out, ap)
		}
	}
	return out, nil
}

// CheckAvailability devuelve true si el turno sigue libre.
func (a *AppointmentsClient) CheckAvailability(ctx context.Context, vetID int64, date, tm string) (bool, error) {
	q := "?veterinarianId=" + id(vetID) + "&date=" + urlQuery(date) + "&time=" + urlQuery(tm)
	return call[bool](ctx, a.http, http.MethodGet, a.base+"/check-availability"+q, nil)
}

var _ appointments.API = (*AppointmentsClient)(nil)

// -------------------------
// Testimonials
// -------------------------

type TestimonialsClient struct {
	resource[testimonials.Testimonial]
}

func (t *TestimonialsClient) GetApproved(ctx context.Context) ([]testimonials.Testimonial, error) {
	return t.list(ctx, "approved")
}

func (t *TestimonialsClient) GetFeatured(ctx context.Context) ([]testimonials.Testimonial, error) {
	return t.list(ctx, "featured")
}

func (t *TestimonialsClient) Approve(ctx context.Context, v int64) (testimonials.Testimonial, error) {
	return call[testimonials.Testimonial](ctx, t.http, http.MethodPut, t.path(id(v), "approve"), nil)
}

// -------------------------
// Cart
// -------------------------

// Cart es la vista del carrito activo que devuelve el backend.
type Cart struct {
	ID              int64       `json:"id"`
	UserID          int64       `json:"userId"`
	Items           []CartEntry `json:"cartItems"`
	TotalItemsCount int         `json:"totalItemsCount"`
}

type CartEntry struct {
	ID int64 `json:"id"`
	cart.Item
	Product *products.Product `json:"product,omitempty"`
}

// Lines devuelve los ítems en la forma que usa el cálculo de totales.
func (c Cart) Lines() []cart.Item {
	out := make([]cart.Item, 0, len(c.Items))
	for _, e := range c.Items {
		it := e.Item
		if it.ProductID == 0 && e.Product != nil {
			it.ProductID = e.Product.ID
		}
		out = append(out, it)
	}
	return out
}

type CartClient struct {
	http *httpclient.Client
}

func (c *CartClient) Get(ctx context.Context, userID int64) (Cart, error) {
	return call[Cart](ctx, c.http, http.MethodGet, "/cart/"+id(userID), nil)
}

func (c *CartClient) AddItem(ctx context.Context, userID int64, it cart.Item) (Cart, error) {
	if err := it.Validate(); err != nil {
		return Cart{}, err
	}
	return call[Cart](ctx, c.http, http.MethodPost, "/cart/add/"+id(userID), it)
}

func (c *CartClient) UpdateItem(ctx context.Context, userID, itemID int64, quantity int) (Cart, error) {
	body := map[string]int{"quantity": quantity}
	return call[Cart](ctx, c.http, http.MethodPut, "/cart/"+id(userID)+"/items/"+id(itemID), body)
}

func (c *CartClient) RemoveItem(ctx context.Context, userID, itemID int64) (Cart, error) {
	return call[Cart](ctx, c.http, http.MethodDelete, "/cart/"+id(userID)+"/items/"+id(itemID), nil)
}

func (c *CartClient) Clear(ctx context.Context, userID int64) error {
	_, err := raw(ctx, c.http, http.MethodDelete, "/cart/"+id(userID)+"/clear", nil)
	return err
}

// GetCount es el número del badge del carrito.
func (c *CartClient) GetCount(ctx context.Context, userID int64) (int, error) {
	return call[int](ctx, c.http, http.MethodGet, "/cart/"+id(userID)+"/count", nil)
}

// -------------------------
// Orders
// -------------------------

type OrdersClient struct {
	resource[orders.Order]
}

func (o *OrdersClient) Checkout(ctx context.Context, req orders.CheckoutRequest) (orders.Order, error) {
	return call[orders.Order](ctx, o.http, http.MethodPost, o.base, req)
}

func (o *OrdersClient) GetByUser(ctx context.Context, userID int64) ([]orders.Order, error) {
	return o.list(ctx, "user", id(userID))
}

func (o *OrdersClient) UpdateStatus(ctx context.Context, v int64, s orders.Status) (orders.Order, error) {
	body := map[string]orders.Status{"status": s}
	return call[orders.Order](ctx, o.http, http.MethodPatch, o.path(id(v), "status"), body)
}

func (o *OrdersClient) Cancel(ctx context.Context, v int64, reason string) (orders.Order, error) {
	body := map[string]string{"reason": reason}
	return call[orders.Order](ctx, o.http, http.MethodPatch, o.path(id(v), "cancel"), body)
}
