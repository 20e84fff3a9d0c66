package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pet-care-portal/internal/domain/cart"
	"pet-care-portal/internal/domain/products"
	"pet-care-portal/internal/domain/session"
	"pet-care-portal/internal/platform/httpclient"

	"github.com/shopspring/decimal"
)

type recorded struct {
	method string
	path   string
	query  string
	body   string
}

func newTestClient(t *testing.T, routes map[string]string) (*Client, *[]recorded) {
	t.Helper()
	var calls []recorded
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		calls = append(calls, recorded{r.Method, r.URL.Path, r.URL.RawQuery, string(b)})

		body, ok := routes[r.Method+" "+r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)

	hc, err := httpclient.New(httpclient.Options{BaseURL: ts.URL + "/api"})
	if err != nil {
		t.Fatalf("httpclient: %v", err)
	}
	return New(hc), &calls
}

func TestProducts_UnwrapsEnvelope(t *testing.T) {
	c, _ := newTestClient(t, map[string]string{
		"GET /api/products": `{"success":true,"message":"ok","data":[{"id":1,"name":"Kibble","category":"FOOD","price":2500,"createdAt":"2025-01-02T10:00:00"}]}`,
	})

	list, err := c.Products.GetAll(context.Background())
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(list) != 1 || list[0].Category != products.CategoryFood || list[0].CreatedAt.Day() != 2 {
		t.Fatalf("unexpected products %+v", list)
	}
}

func TestProducts_SuccessFalseIsRejected(t *testing.T) {
	c, _ := newTestClient(t, map[string]string{
		"GET /api/products/9": `{"success":false,"message":"Product not found"}`,
	})
	_, err := c.Products.GetByID(context.Background(), 9)
	if !errors.Is(err, ErrRejected) {
		t.Fatalf("expected ErrRejected, got %v", err)
	}
}

func TestVeterinarians_BareJSONAndPaths(t *testing.T) {
	c, calls := newTestClient(t, map[string]string{
		"GET /api/veterinarians":                        `[{"id":3,"fullName":"Dr. Silva","availableFrom":"09:00:00","availableTo":"10:00:00"}]`,
		"GET /api/veterinarians/specialization/Surgery": `[]`,
		"GET /api/veterinarians/specializations":        `["Surgery","Dentistry"]`,
		"GET /api/veterinarians/search":                 `[]`,
	})
	ctx := context.Background()

	vets, err := c.Veterinarians.GetAll(ctx)
	if err != nil || len(vets) != 1 {
		t.Fatalf("GetAll: %v %v", vets, err)
	}
	if s, _ := vets[0].Slots(); len(s) != 2 {
		t.Fatalf("unexpected slots %v", s)
	}
	if _, err := c.Veterinarians.GetBySpecialization(ctx, "Surgery"); err != nil {
		t.Fatalf("GetBySpecialization: %v", err)
	}
	specs, err := c.Veterinarians.GetSpecializations(ctx)
	if err != nil || len(specs) != 2 {
		t.Fatalf("GetSpecializations: %v %v", specs, err)
	}
	if _, err := c.Veterinarians.Search(ctx, "dr silva&x"); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if last := (*calls)[len(*calls)-1]; last.query != "q=dr+silva%26x" {
		t.Fatalf("query not escaped: %q", last.query)
	}
}

func TestAppointments_CheckAvailabilityQuery(t *testing.T) {
	c, calls := newTestClient(t, map[string]string{
		"GET /api/appointments/check-availability": `false`,
	})

	ok, err := c.Appointments.CheckAvailability(context.Background(), 7, "2025-06-11", "09:30")
	if err != nil {
		t.Fatalf("CheckAvailability: %v", err)
	}
	if ok {
		t.Fatalf("expected slot taken")
	}
	if q := (*calls)[0].query; q != "veterinarianId=7&date=2025-06-11&time=09%3A30" {
		t.Fatalf("unexpected query %q", q)
	}
}

func TestAppointments_GetTodayFiltersLocally(t *testing.T) {
	c, _ := newTestClient(t, map[string]string{
		"GET /api/appointments": `[
			{"id":1,"appointmentDate":"2025-06-10","appointmentTime":"09:00:00"},
			{"id":2,"appointmentDate":"2025-06-11","appointmentTime":"09:00:00"}
		]`,
	})
	c.Appointments.now = func() time.Time { return time.Date(2025, 6, 10, 18, 0, 0, 0, time.Local) }

	got, err := c.Appointments.GetToday(context.Background())
	if err != nil {
		t.Fatalf("GetToday: %v", err)
	}
	if len(got) != 1 || got[0].ID != 1 || got[0].AppointmentTime != "09:00" {
		t.Fatalf("unexpected %+v", got)
	}
}

func TestCart_AddItemAndCount(t *testing.T) {
	c, calls := newTestClient(t, map[string]string{
		"POST /api/cart/add/4":  `{"id":1,"userId":4,"totalItemsCount":2,"cartItems":[{"id":10,"quantity":2,"unitPrice":12.5,"product":{"id":5,"name":"Ball","price":12.5}}]}`,
		"GET /api/cart/4/count": `2`,
	})
	ctx := context.Background()

	got, err := c.Cart.AddItem(ctx, 4, cart.Item{ProductID: 5, Quantity: 2, UnitPrice: decimal.RequireFromString("12.5")})
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	lines := got.Lines()
	if len(lines) != 1 || lines[0].ProductID != 5 || cart.Count(lines) != 2 {
		t.Fatalf("unexpected cart %+v", got)
	}

	var sent map[string]any
	_ = json.Unmarshal([]byte((*calls)[0].body), &sent)
	if sent["productId"] != float64(5) || sent["quantity"] != float64(2) || sent["unitPrice"] != "12.5" {
		t.Fatalf("unexpected body %s", (*calls)[0].body)
	}

	n, err := c.Cart.GetCount(ctx, 4)
	if err != nil || n != 2 {
		t.Fatalf("GetCount: %d %v", n, err)
	}

	if _, err := c.Cart.AddItem(ctx, 4, cart.Item{ProductID: 5}); !errors.Is(err, cart.ErrInvalidQuantity) {
		t.Fatalf("expected local validation, got %v", err)
	}
}

func TestAuth_LoginReturnsRawBody(t *testing.T) {
	body := `{"success":true,"user":{"id":1}}`
	c, calls := newTestClient(t, map[string]string{"POST /api/auth/login": body})

	raw, err := c.Auth.Login(context.Background(), session.Credentials{UsernameOrEmail: "ana", Password: "secret1"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if string(raw) != body {
		t.Fatalf("unexpected raw body %s", raw)
	}
	if (*calls)[0].body != `{"usernameOrEmail":"ana","password":"secret1"}` {
		t.Fatalf("unexpected request %s", (*calls)[0].body)
	}
}

func TestDelete_NotFoundSurfacesStatus(t *testing.T) {
	c, _ := newTestClient(t, map[string]string{})
	err := c.Testimonials.Delete(context.Background(), 3)
	if code, ok := httpclient.StatusCode(err); !ok || code != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
}
