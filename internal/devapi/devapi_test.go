package devapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"pet-care-portal/internal/domain/appointments"
	"pet-care-portal/internal/middleware"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"
)

// newTestServer usa AuthContext en modo dev: X-Debug-User-ID / X-Debug-Role.
func newTestServer(t *testing.T) (*httptest.Server, *API) {
	t.Helper()
	api := New(Options{BcryptCost: bcrypt.MinCost})
	api.now = func() time.Time { return time.Date(2025, 6, 2, 9, 0, 0, 0, time.Local) }
	if err := api.Seed(context.Background()); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.AuthContext(nil))
	r.Route("/api", api.Routes)

	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return ts, api
}

func doReq(t *testing.T, baseURL, method, path string, userID int64, role string, body any) (int, []byte) {
	t.Helper()

	var rd io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, baseURL+path, rd)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID > 0 {
		req.Header.Set("X-Debug-User-ID", strconv.FormatInt(userID, 10))
		req.Header.Set("X-Debug-Role", role)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, b
}

func TestLogin_WithoutIssuerHasNoToken(t *testing.T) {
	ts, _ := newTestServer(t)

	st, body := doReq(t, ts.URL, "POST", "/api/auth/login", 0, "", map[string]string{
		"usernameOrEmail": "demo@petcare.local",
		"password":        DemoPassword,
	})
	if st != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", st, body)
	}
	var resp loginResponse
	_ = json.Unmarshal(body, &resp)
	if !resp.Success || resp.User == nil || resp.User.Username != DemoUsername || resp.Token != "" {
		t.Fatalf("unexpected login response %s", body)
	}
	if bytes.Contains(body, []byte("PasswordHash")) {
		t.Fatalf("password hash leaked: %s", body)
	}
}

func TestLogin_EmptyFields(t *testing.T) {
	ts, _ := newTestServer(t)
	st, _ := doReq(t, ts.URL, "POST", "/api/auth/login", 0, "", map[string]string{"usernameOrEmail": "demo"})
	if st != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", st)
	}
}

func TestRegister_InvalidData(t *testing.T) {
	ts, _ := newTestServer(t)
	st, _ := doReq(t, ts.URL, "POST", "/api/auth/register", 0, "", map[string]string{
		"username": "x", "email": "not-an-email", "firstName": "a", "lastName": "b", "password": "abc12",
	})
	if st != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", st)
	}
}

func TestProfile_SelfOnly(t *testing.T) {
	ts, _ := newTestServer(t)

	if st, _ := doReq(t, ts.URL, "GET", "/api/auth/profile/2", 0, "", nil); st != http.StatusUnauthorized {
		t.Fatalf("expected 401 anonymous, got %d", st)
	}
	if st, _ := doReq(t, ts.URL, "GET", "/api/auth/profile/1", 2, "USER", nil); st != http.StatusForbidden {
		t.Fatalf("expected 403 foreign profile, got %d", st)
	}

	st, body := doReq(t, ts.URL, "PUT", "/api/auth/profile/2", 2, "USER", map[string]string{"firstName": "Dina"})
	if st != http.StatusOK || !bytes.Contains(body, []byte(`"firstName":"Dina"`)) {
		t.Fatalf("update profile: %d %s", st, body)
	}
}

func TestCheckAvailability(t *testing.T) {
	ts, api := newTestServer(t)

	for _, bad := range []string{
		"?date=2025-06-03&time=10:00",
		"?veterinarianId=1&date=03/06/2025&time=10:00",
		"?veterinarianId=1&date=2025-06-03&time=late",
	} {
		if st, _ := doReq(t, ts.URL, "GET", "/api/appointments/check-availability"+bad, 0, "", nil); st != http.StatusBadRequest {
			t.Fatalf("expected 400 for %s, got %d", bad, st)
		}
	}

	st, body := doReq(t, ts.URL, "GET", "/api/appointments/check-availability?veterinarianId=1&date=2025-06-03&time=10:00:00", 0, "", nil)
	if st != http.StatusOK || string(bytes.TrimSpace(body)) != "true" {
		t.Fatalf("expected free slot, got %d %s", st, body)
	}

	ap := map[string]any{
		"veterinarianId": 1, "clientName": "Ana", "clientEmail": "ana@example.com",
		"petName": "Milo", "petType": "Dog", "appointmentDate": "2025-06-03",
		"appointmentTime": "10:00", "reasonForVisit": "Vaccination",
	}
	if st, body := doReq(t, ts.URL, "POST", "/api/appointments", 0, "", ap); st != http.StatusCreated {
		t.Fatalf("create: %d %s", st, body)
	}

	st, body = doReq(t, ts.URL, "GET", "/api/appointments/check-availability?veterinarianId=1&date=2025-06-03&time=10:00", 0, "", nil)
	if st != http.StatusOK || string(bytes.TrimSpace(body)) != "false" {
		t.Fatalf("expected taken slot, got %d %s", st, body)
	}

	// cancelado libera el horario
	_, _ = api.store.Appointments.Update(context.Background(), 1, func(ap appointments.Appointment) (appointments.Appointment, error) {
		ap.Status = appointments.StatusCancelled
		return ap, nil
	})
	_, body = doReq(t, ts.URL, "GET", "/api/appointments/check-availability?veterinarianId=1&date=2025-06-03&time=10:00", 0, "", nil)
	if string(bytes.TrimSpace(body)) != "true" {
		t.Fatalf("cancelled appointment must free the slot, got %s", body)
	}
}

func TestCreateAppointment_Validation(t *testing.T) {
	ts, _ := newTestServer(t)

	cases := map[string]map[string]any{
		"past date": {
			"veterinarianId": 1, "clientName": "Ana", "clientEmail": "ana@example.com", "petName": "Milo",
			"petType": "Dog", "appointmentDate": "2025-06-01", "appointmentTime": "10:00", "reasonForVisit": "Other",
		},
		"outside hours": {
			"veterinarianId": 2, "clientName": "Ana", "clientEmail": "ana@example.com", "petName": "Milo",
			"petType": "Dog", "appointmentDate": "2025-06-03", "appointmentTime": "09:00", "reasonForVisit": "Other",
		},
		"day off": {
			"veterinarianId": 2, "clientName": "Ana", "clientEmail": "ana@example.com", "petName": "Milo",
			"petType": "Dog", "appointmentDate": "2025-06-03", "appointmentTime": "10:00", "reasonForVisit": "Other",
		},
		"unknown vet": {
			"veterinarianId": 99, "clientName": "Ana", "clientEmail": "ana@example.com", "petName": "Milo",
			"petType": "Dog", "appointmentDate": "2025-06-03", "appointmentTime": "10:00", "reasonForVisit": "Other",
		},
	}
	for name, body := range cases {
		st, resp := doReq(t, ts.URL, "POST", "/api/appointments", 0, "", body)
		if st != http.StatusBadRequest || !bytes.Contains(resp, []byte(`"errors"`)) {
			t.Fatalf("%s: expected 400 with errors, got %d %s", name, st, resp)
		}
	}

	// el vet 2 atiende lunes, miércoles y viernes
	body := cases["day off"]
	if _, resp := doReq(t, ts.URL, "POST", "/api/appointments", 0, "", body); !bytes.Contains(resp, []byte(msgDayOff)) {
		t.Fatalf("expected day off message, got %s", resp)
	}
	body["appointmentDate"] = "2025-06-04"
	if st, resp := doReq(t, ts.URL, "POST", "/api/appointments", 0, "", body); st != http.StatusCreated {
		t.Fatalf("wednesday booking: %d %s", st, resp)
	}
}

func TestUpdateAppointment_SlotConflict(t *testing.T) {
	ts, _ := newTestServer(t)

	book := func(tm string) appointments.Appointment {
		t.Helper()
		st, body := doReq(t, ts.URL, "POST", "/api/appointments", 0, "", map[string]any{
			"veterinarianId": 1, "clientName": "Ana", "clientEmail": "ana@example.com", "petName": "Milo",
			"petType": "Dog", "appointmentDate": "2025-06-03", "appointmentTime": tm, "reasonForVisit": "Other",
		})
		var ap appointments.Appointment
		if st != http.StatusCreated || json.Unmarshal(body, &ap) != nil {
			t.Fatalf("create %s: %d %s", tm, st, body)
		}
		return ap
	}
	book("10:00")
	second := book("10:30")

	move := map[string]any{
		"veterinarianId": 1, "clientName": "Ana", "clientEmail": "ana@example.com", "petName": "Milo",
		"petType": "Dog", "appointmentDate": "2025-06-03", "appointmentTime": "10:00", "reasonForVisit": "Other",
	}
	path := "/api/appointments/" + strconv.FormatInt(second.ID, 10)
	st, body := doReq(t, ts.URL, "PUT", path, 1, "ADMIN", move)
	if st != http.StatusConflict || !bytes.Contains(body, []byte(msgSlotTaken)) {
		t.Fatalf("expected 409 moving into a taken slot, got %d %s", st, body)
	}

	move["status"] = string(appointments.StatusCancelled)
	if st, body := doReq(t, ts.URL, "PUT", path, 1, "ADMIN", move); st != http.StatusOK {
		t.Fatalf("a cancelled appointment does not hold the slot: %d %s", st, body)
	}
}

func TestProducts_AdminOnlyMutations(t *testing.T) {
	ts, _ := newTestServer(t)
	p := map[string]any{"name": "Catnip", "category": "toys", "price": 4.5, "stockQuantity": 10}

	if st, _ := doReq(t, ts.URL, "POST", "/api/products", 2, "USER", p); st != http.StatusForbidden {
		t.Fatalf("expected 403 for user, got %d", st)
	}
	st, body := doReq(t, ts.URL, "POST", "/api/products", 1, "ADMIN", p)
	if st != http.StatusCreated || !bytes.Contains(body, []byte(`"category":"TOYS"`)) {
		t.Fatalf("admin create: %d %s", st, body)
	}

	if st, _ := doReq(t, ts.URL, "DELETE", "/api/products/7", 1, "ADMIN", nil); st != http.StatusOK {
		t.Fatalf("admin delete: %d", st)
	}
	_, body = doReq(t, ts.URL, "GET", "/api/products", 0, "", nil)
	if bytes.Contains(body, []byte("Catnip")) {
		t.Fatalf("deleted product must not be listed")
	}

	if st, _ := doReq(t, ts.URL, "GET", "/api/products/category/birds", 0, "", nil); st != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown category, got %d", st)
	}
}

func TestVeterinarians_Lookups(t *testing.T) {
	ts, _ := newTestServer(t)

	_, body := doReq(t, ts.URL, "GET", "/api/veterinarians/specializations", 0, "", nil)
	var specs []string
	_ = json.Unmarshal(body, &specs)
	if len(specs) != 3 || specs[0] != "Dermatology" {
		t.Fatalf("unexpected specializations %v", specs)
	}

	_, body = doReq(t, ts.URL, "GET", "/api/veterinarians/available", 0, "", nil)
	var avail []map[string]any
	_ = json.Unmarshal(body, &avail)
	if len(avail) != 2 {
		t.Fatalf("expected 2 available vets, got %d", len(avail))
	}

	if st, _ := doReq(t, ts.URL, "GET", "/api/veterinarians/email/MICHAEL.CHEN@petcare.local", 0, "", nil); st != http.StatusOK {
		t.Fatalf("email lookup must be case-insensitive, got %d", st)
	}
	if st, _ := doReq(t, ts.URL, "GET", "/api/veterinarians/99", 0, "", nil); st != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", st)
	}
}

func TestCart_MergeUpdateRemove(t *testing.T) {
	ts, _ := newTestServer(t)

	add := func(productID, qty int) cartView {
		st, body := doReq(t, ts.URL, "POST", "/api/cart/add/2", 2, "USER", map[string]any{"productId": productID, "quantity": qty})
		if st != http.StatusOK {
			t.Fatalf("add: %d %s", st, body)
		}
		var v cartView
		_ = json.Unmarshal(body, &v)
		return v
	}

	add(2, 1)
	v := add(2, 2)
	if len(v.Items) != 1 || v.Items[0].Quantity != 3 || v.TotalItemsCount != 3 {
		t.Fatalf("expected merged line, got %#v", v)
	}

	itemID := strconv.FormatInt(v.Items[0].ID, 10)
	st, body := doReq(t, ts.URL, "PUT", "/api/cart/2/items/"+itemID, 2, "USER", map[string]int{"quantity": 5})
	if st != http.StatusOK || !bytes.Contains(body, []byte(`"totalItemsCount":5`)) {
		t.Fatalf("update: %d %s", st, body)
	}
	if st, _ := doReq(t, ts.URL, "PUT", "/api/cart/2/items/"+itemID, 2, "USER", map[string]int{"quantity": 0}); st != http.StatusBadRequest {
		t.Fatalf("expected 400 for zero quantity, got %d", st)
	}

	if st, _ := doReq(t, ts.URL, "DELETE", "/api/cart/2/items/"+itemID, 2, "USER", nil); st != http.StatusOK {
		t.Fatalf("remove: %d", st)
	}
	if st, _ := doReq(t, ts.URL, "DELETE", "/api/cart/2/items/"+itemID, 2, "USER", nil); st != http.StatusNotFound {
		t.Fatalf("expected 404 removing twice, got %d", st)
	}

	if st, _ := doReq(t, ts.URL, "POST", "/api/cart/add/2", 2, "USER", map[string]any{"productId": 99, "quantity": 1}); st != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown product, got %d", st)
	}
}

func TestOrders_StatusIsAdminOnly(t *testing.T) {
	ts, _ := newTestServer(t)

	st, body := doReq(t, ts.URL, "POST", "/api/orders", 2, "USER", map[string]any{
		"type":  "single",
		"items": []map[string]any{{"productId": 4, "quantity": 1}},
	})
	if st != http.StatusCreated || !bytes.Contains(body, []byte(`"orderNumber":"ORD-`)) {
		t.Fatalf("create order: %d %s", st, body)
	}

	if st, _ := doReq(t, ts.URL, "PATCH", "/api/orders/1/status", 2, "USER", map[string]string{"status": "SENT"}); st != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", st)
	}
	if st, _ := doReq(t, ts.URL, "PATCH", "/api/orders/1/status", 1, "ADMIN", map[string]string{"status": "BOGUS"}); st != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown status, got %d", st)
	}
	st, body = doReq(t, ts.URL, "PATCH", "/api/orders/1/status", 1, "ADMIN", map[string]string{"status": "SENT"})
	if st != http.StatusOK || !bytes.Contains(body, []byte(`"status":"SENT"`)) {
		t.Fatalf("admin status: %d %s", st, body)
	}

	// enviado ya no se puede cancelar
	if st, _ := doReq(t, ts.URL, "PATCH", "/api/orders/1/cancel", 2, "USER", map[string]string{}); st != http.StatusConflict {
		t.Fatalf("expected 409, got %d", st)
	}
	if st, _ := doReq(t, ts.URL, "POST", "/api/orders", 2, "USER", map[string]any{"type": "cart"}); st != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty order, got %d", st)
	}
}
