package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"pet-care-portal/internal/platform/httpclient"

	"github.com/golang-jwt/jwt/v5"
)

// -------------------------
// Fakes
// -------------------------

type testStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newTestStore() *testStore { return &testStore{data: map[string]string{}} }

func (s *testStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (s *testStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *testStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

type testAPI struct {
	loginBody    string
	loginErr     error
	registerBody string
	registerErr  error

	gotCreds Credentials
}

func (a *testAPI) Login(ctx context.Context, c Credentials) (json.RawMessage, error) {
	a.gotCreds = c
	if a.loginErr != nil {
		return nil, a.loginErr
	}
	return json.RawMessage(a.loginBody), nil
}

func (a *testAPI) Register(ctx context.Context, r Registration) (json.RawMessage, error) {
	if a.registerErr != nil {
		return nil, a.registerErr
	}
	return json.RawMessage(a.registerBody), nil
}

var fixedNow = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

func newTestHolder(store Store, api AuthAPI) *Holder {
	h := NewHolder(store, api, nil)
	h.now = func() time.Time { return fixedNow }
	return h
}

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return tok
}

// -------------------------
// Init
// -------------------------

func TestInit_RestoresValidSession(t *testing.T) {
	store := newTestStore()
	store.data[KeyToken] = "opaque-123"
	store.data[KeyUser] = `{"id":4,"username":"ana","firstName":"Ana","lastName":"Pérez","email":"ana@example.com","role":"USER"}`

	h := newTestHolder(store, &testAPI{})
	if !h.Loading() {
		t.Fatalf("expected loading before Init")
	}
	if err := h.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if h.Loading() || !h.IsAuthenticated() {
		t.Fatalf("expected authenticated after Init")
	}
	u, _ := h.CurrentUser()
	if u.FullName() != "Ana Pérez" || h.Token() != "opaque-123" {
		t.Fatalf("unexpected restored state %+v token=%q", u, h.Token())
	}
}

func TestInit_MalformedUserClearsStorage(t *testing.T) {
	store := newTestStore()
	store.data[KeyToken] = "abc"
	store.data[KeyUser] = `{"id":4,`

	h := newTestHolder(store, &testAPI{})
	if err := h.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if h.IsAuthenticated() {
		t.Fatalf("expected unauthenticated")
	}
	if len(store.data) != 0 {
		t.Fatalf("expected storage cleared, got %v", store.data)
	}
}

func TestInit_MissingTokenStaysLoggedOut(t *testing.T) {
	store := newTestStore()
	store.data[KeyUser] = `{"id":4}`

	h := newTestHolder(store, &testAPI{})
	_ = h.Init(context.Background())
	if h.IsAuthenticated() {
		t.Fatalf("user without token must not authenticate")
	}
}

func TestInit_ExpiredJWTIsDiscarded(t *testing.T) {
	store := newTestStore()
	store.data[KeyToken] = signed(t, fixedNow.Add(-time.Minute))
	store.data[KeyUser] = `{"id":4,"username":"ana"}`

	h := newTestHolder(store, &testAPI{})
	_ = h.Init(context.Background())
	if h.IsAuthenticated() || len(store.data) != 0 {
		t.Fatalf("expired token should clear the session")
	}

	store.data[KeyToken] = signed(t, fixedNow.Add(time.Hour))
	store.data[KeyUser] = `{"id":4,"username":"ana"}`
	_ = h.Init(context.Background())
	if !h.IsAuthenticated() {
		t.Fatalf("valid token should restore the session")
	}
}

// -------------------------
// Login
// -------------------------

func TestLoginWithCredentials_ResponseShapes(t *testing.T) {
	cases := []struct {
		name      string
		body      string
		wantToken string
	}{
		{"success envelope", `{"success":true,"user":{"id":1,"username":"ana"},"token":"t1"}`, "t1"},
		{"success without token", `{"success":true,"message":"Login successful","user":{"id":1,"username":"ana"}}`, TempToken},
		{"token and user", `{"token":"t2","user":{"id":1,"username":"ana"}}`, "t2"},
		{"bare user with accessToken", `{"id":1,"username":"ana","accessToken":"t3"}`, "t3"},
		{"bare user", `{"id":1,"username":"ana"}`, TempToken},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newTestStore()
			h := newTestHolder(store, &testAPI{loginBody: tc.body})

			u, err := h.LoginWithCredentials(context.Background(), Credentials{UsernameOrEmail: "ana", Password: "secret1"})
			if err != nil {
				t.Fatalf("login: %v", err)
			}
			if u.ID != 1 || u.Username != "ana" {
				t.Fatalf("unexpected user %+v", u)
			}
			if store.data[KeyToken] != tc.wantToken {
				t.Fatalf("expected stored token %q, got %q", tc.wantToken, store.data[KeyToken])
			}
			if !h.IsAuthenticated() {
				t.Fatalf("expected authenticated")
			}
		})
	}
}

func TestLoginWithCredentials_SuccessFalseUsesServerMessage(t *testing.T) {
	h := newTestHolder(newTestStore(), &testAPI{loginBody: `{"success":false,"message":"Invalid username/email or password"}`})

	_, err := h.LoginWithCredentials(context.Background(), Credentials{UsernameOrEmail: "x", Password: "y"})
	var ae *AuthError
	if !errors.As(err, &ae) || ae.Message != "Invalid username/email or password" {
		t.Fatalf("unexpected error %v", err)
	}
	if h.IsAuthenticated() {
		t.Fatalf("must stay logged out")
	}
}

func TestLoginWithCredentials_StatusMessages(t *testing.T) {
	cases := map[int]string{
		http.StatusBadRequest:          "Invalid credentials format.",
		http.StatusUnauthorized:        "Invalid email/username or password.",
		http.StatusForbidden:           "Account is disabled.",
		http.StatusNotFound:            "User not found.",
		http.StatusInternalServerError: "db down",
	}
	for status, want := range cases {
		api := &testAPI{loginErr: &httpclient.HTTPError{StatusCode: status, Body: `{"message":"db down"}`}}
		h := newTestHolder(newTestStore(), api)
		_, err := h.LoginWithCredentials(context.Background(), Credentials{})
		var ae *AuthError
		if !errors.As(err, &ae) || ae.Message != want || ae.Status != status {
			t.Fatalf("status %d: expected %q, got %v", status, want, err)
		}
	}

	api := &testAPI{loginErr: &httpclient.HTTPError{StatusCode: http.StatusBadGateway}}
	h := newTestHolder(newTestStore(), api)
	if _, err := h.LoginWithCredentials(context.Background(), Credentials{}); err.Error() != "Login failed." {
		t.Fatalf("expected generic fallback, got %v", err)
	}

	api = &testAPI{loginErr: errors.New("dial tcp: connection refused")}
	h = newTestHolder(newTestStore(), api)
	if _, err := h.LoginWithCredentials(context.Background(), Credentials{}); err.Error() != MsgLoginFailed {
		t.Fatalf("expected network message, got %v", err)
	}
}

func TestLoginWithUser_KeepsStoredToken(t *testing.T) {
	store := newTestStore()
	store.data[KeyToken] = "stored"
	h := newTestHolder(store, &testAPI{})

	if _, err := h.LoginWithUser(context.Background(), User{ID: 9, Username: "vet"}, ""); err != nil {
		t.Fatalf("LoginWithUser: %v", err)
	}
	if h.Token() != "stored" || !h.IsAuthenticated() {
		t.Fatalf("unexpected token %q", h.Token())
	}
	var u User
	_ = json.Unmarshal([]byte(store.data[KeyUser]), &u)
	if u.ID != 9 {
		t.Fatalf("user not persisted: %q", store.data[KeyUser])
	}
}

// -------------------------
// Register / Logout / UpdateUser
// -------------------------

func TestRegister_StatusMessages(t *testing.T) {
	cases := map[int]string{
		http.StatusBadRequest:          "Invalid registration data.",
		http.StatusConflict:            "Email already exists.",
		http.StatusUnprocessableEntity: "Validation error.",
		http.StatusInternalServerError: "Registration failed.",
	}
	for status, want := range cases {
		h := newTestHolder(newTestStore(), &testAPI{registerErr: &httpclient.HTTPError{StatusCode: status}})
		if err := h.Register(context.Background(), Registration{}); err == nil || err.Error() != want {
			t.Fatalf("status %d: expected %q, got %v", status, want, err)
		}
	}

	h := newTestHolder(newTestStore(), &testAPI{registerErr: errors.New("timeout")})
	if err := h.Register(context.Background(), Registration{}); err.Error() != MsgRegisterFailed {
		t.Fatalf("unexpected %v", err)
	}

	h = newTestHolder(newTestStore(), &testAPI{registerBody: `{"success":false,"message":"Username already exists"}`})
	if err := h.Register(context.Background(), Registration{}); err.Error() != "Username already exists" {
		t.Fatalf("unexpected %v", err)
	}

	h = newTestHolder(newTestStore(), &testAPI{registerBody: `{"success":true}`})
	if err := h.Register(context.Background(), Registration{}); err != nil {
		t.Fatalf("unexpected %v", err)
	}
	if h.IsAuthenticated() {
		t.Fatalf("register must not log in")
	}
}

func TestLogout_ClearsBothKeys(t *testing.T) {
	store := newTestStore()
	h := newTestHolder(store, &testAPI{loginBody: `{"token":"t","user":{"id":1}}`})
	if _, err := h.LoginWithCredentials(context.Background(), Credentials{UsernameOrEmail: "a", Password: "b"}); err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := h.Logout(context.Background()); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if h.IsAuthenticated() || h.Token() != "" || len(store.data) != 0 {
		t.Fatalf("expected everything cleared")
	}
}

func TestUpdateUser_MergesAndPersists(t *testing.T) {
	store := newTestStore()
	h := newTestHolder(store, &testAPI{})

	if _, err := h.UpdateUser(context.Background(), UserPatch{}); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}

	_, _ = h.LoginWithUser(context.Background(), User{ID: 1, FirstName: "Ana", LastName: "Pérez"}, "t")
	last := "Gómez"
	u, err := h.UpdateUser(context.Background(), UserPatch{LastName: &last})
	if err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	if u.FullName() != "Ana Gómez" {
		t.Fatalf("unexpected %q", u.FullName())
	}

	// un holder nuevo sobre el mismo store ve el cambio
	h2 := newTestHolder(store, &testAPI{})
	_ = h2.Init(context.Background())
	if got, _ := h2.CurrentUser(); got.LastName != "Gómez" {
		t.Fatalf("update not persisted: %+v", got)
	}
}

func TestToken_HidesTempToken(t *testing.T) {
	h := newTestHolder(newTestStore(), &testAPI{loginBody: `{"id":1,"username":"ana"}`})
	_, _ = h.LoginWithCredentials(context.Background(), Credentials{UsernameOrEmail: "a", Password: "b"})
	if h.Token() != "" {
		t.Fatalf("placeholder token must not be sent as bearer")
	}
}
