// Package session mantiene la identidad del usuario logueado y su
// persistencia (token + usuario serializado).
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"pet-care-portal/internal/platform/logger"

	"github.com/golang-jwt/jwt/v5"
)

// Holder se crea una vez por proceso y se inyecta a quien lo necesite.
type Holder struct {
	store Store
	api   AuthAPI
	log   logger.Logger
	now   func() time.Time

	mu      sync.RWMutex
	user    *User
	token   string
	loading bool
}

func NewHolder(store Store, api AuthAPI, log logger.Logger) *Holder {
	if log == nil {
		log = logger.Nop()
	}
	return &Holder{
		store:   store,
		api:     api,
		log:     log.With(map[string]any{"component": "session"}),
		now:     time.Now,
		loading: true,
	}
}

// Init restaura token+usuario del Store. Entradas corruptas o un JWT vencido
// se descartan en silencio; solo fallas de I/O del Store devuelven error.
func (h *Holder) Init(ctx context.Context) error {
	defer h.setLoading(false)

	token, err := h.store.Get(ctx, KeyToken)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("session: read token: %w", err)
	}
	rawUser, err := h.store.Get(ctx, KeyUser)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("session: read user: %w", err)
	}
	if strings.TrimSpace(token) == "" || strings.TrimSpace(rawUser) == "" {
		return nil
	}

	var u User
	if err := json.Unmarshal([]byte(rawUser), &u); err != nil {
		h.log.Warn("discarding corrupted session", map[string]any{"error": err})
		return h.clear(ctx)
	}
	if h.expired(token) {
		h.log.Info("stored token expired", nil)
		return h.clear(ctx)
	}

	h.mu.Lock()
	h.user = &u
	h.token = token
	h.mu.Unlock()

	h.log.Debug("session restored", map[string]any{"user_id": u.ID})
	return nil
}

// expired solo aplica a JWT con claim exp; tokens opacos nunca vencen acá.
func (h *Holder) expired(token string) bool {
	if strings.Count(token, ".") != 2 {
		return false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !h.now().Before(exp.Time)
}

// LoginWithCredentials hace el round trip al backend y persiste la sesión.
// Los errores son siempre *AuthError.
func (h *Holder) LoginWithCredentials(ctx context.Context, c Credentials) (User, error) {
	raw, err := h.api.Login(ctx, c)
	if err != nil {
		h.log.Warn("login failed", map[string]any{"error": err})
		return User{}, loginError(err)
	}

	u, token, err := parseLogin(raw)
	if err != nil {
		h.log.Warn("login rejected", map[string]any{"error": err})
		return User{}, asAuthError(err, MsgLoginFailed)
	}

	if err := h.persist(ctx, u, token); err != nil {
		return User{}, &AuthError{Message: MsgLoginFailed, Err: err}
	}
	h.log.Info("logged in", map[string]any{"user_id": u.ID})
	return u, nil
}

// LoginWithUser adopta un usuario ya resuelto por otro flujo.
// token "" conserva el token que ya estuviera guardado.
func (h *Holder) LoginWithUser(ctx context.Context, u User, token string) (User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		h.mu.RLock()
		token = h.token
		h.mu.RUnlock()
	}
	if token == "" {
		stored, err := h.store.Get(ctx, KeyToken)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return User{}, fmt.Errorf("session: read token: %w", err)
		}
		token = stored
	}

	if err := h.persist(ctx, u, token); err != nil {
		return User{}, err
	}
	return u, nil
}

// Register no inicia sesión.
func (h *Holder) Register(ctx context.Context, r Registration) error {
	raw, err := h.api.Register(ctx, r)
	if err != nil {
		h.log.Warn("register failed", map[string]any{"error": err})
		return registerError(err)
	}
	if err := parseRegister(raw); err != nil {
		return asAuthError(err, MsgRegisterFailed)
	}
	h.log.Info("registered", map[string]any{"username": r.Username})
	return nil
}

// Logout borra ambas claves y la identidad en memoria.
func (h *Holder) Logout(ctx context.Context) error {
	return h.clear(ctx)
}

// UpdateUser mezcla el patch sobre el usuario actual y lo persiste.
func (h *Holder) UpdateUser(ctx context.Context, p UserPatch) (User, error) {
	h.mu.RLock()
	cur := h.user
	h.mu.RUnlock()
	if cur == nil {
		return User{}, ErrNotAuthenticated
	}

	u := p.Apply(*cur)
	b, err := json.Marshal(u)
	if err != nil {
		return User{}, err
	}
	if err := h.store.Set(ctx, KeyUser, string(b)); err != nil {
		return User{}, fmt.Errorf("session: write user: %w", err)
	}

	h.mu.Lock()
	h.user = &u
	h.mu.Unlock()
	return u, nil
}

func (h *Holder) CurrentUser() (User, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.user == nil {
		return User{}, false
	}
	return *h.user, true
}

func (h *Holder) IsAuthenticated() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.user != nil
}

// Token implementa httpclient.TokenSource.
func (h *Holder) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.token == TempToken {
		return ""
	}
	return h.token
}

// Loading es true hasta que Init termina.
func (h *Holder) Loading() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.loading
}

func (h *Holder) setLoading(v bool) {
	h.mu.Lock()
	h.loading = v
	h.mu.Unlock()
}

func (h *Holder) persist(ctx context.Context, u User, token string) error {
	b, err := json.Marshal(u)
	if err != nil {
		return err
	}
	if token != "" {
		if err := h.store.Set(ctx, KeyToken, token); err != nil {
			return fmt.Errorf("session: write token: %w", err)
		}
	}
	if err := h.store.Set(ctx, KeyUser, string(b)); err != nil {
		return fmt.Errorf("session: write user: %w", err)
	}

	h.mu.Lock()
	h.user = &u
	h.token = token
	h.mu.Unlock()
	return nil
}

func (h *Holder) clear(ctx context.Context) error {
	h.mu.Lock()
	h.user = nil
	h.token = ""
	h.mu.Unlock()

	var errs []error
	for _, k := range []string{KeyToken, KeyUser} {
		if err := h.store.Delete(ctx, k); err != nil && !errors.Is(err, ErrNotFound) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
