// Package devapi es un backend de desarrollo que implementa el subconjunto de
// /api que usa el cliente, sobre tablas in-memory.
package devapi

import (
	"context"
	"net/http"
	"time"

	"pet-care-portal/internal/adapters/capabilities/roles"
	"pet-care-portal/internal/domain/cart"
	"pet-care-portal/internal/middleware"
	"pet-care-portal/internal/platform/logger"
	"pet-care-portal/internal/ports/auth"
	"pet-care-portal/internal/ports/capabilities"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

type Options struct {
	Store        *Store
	Issuer       auth.TokenIssuer // nil = login sin token (como el backend real)
	Capabilities capabilities.CapabilitiesResolver
	Logger       logger.Logger

	TokenTTL   time.Duration
	TaxRate    decimal.Decimal
	BcryptCost int
}

type API struct {
	store  *Store
	issuer auth.TokenIssuer
	caps   capabilities.CapabilitiesResolver
	log    logger.Logger

	ttl     time.Duration
	taxRate decimal.Decimal
	cost    int
	now     func() time.Time
}

func New(opts Options) *API {
	st := opts.Store
	if st == nil {
		st = NewStore()
	}
	caps := opts.Capabilities
	if caps == nil {
		caps = roles.NewResolver(roles.DefaultTable(), false)
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	tax := opts.TaxRate
	if tax.IsZero() {
		tax = cart.DefaultTaxRate
	}
	cost := opts.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	return &API{
		store:   st,
		issuer:  opts.Issuer,
		caps:    caps,
		log:     log.With(map[string]any{"component": "devapi"}),
		ttl:     opts.TokenTTL,
		taxRate: tax,
		cost:    cost,
		now:     time.Now,
	}
}

// Store expone las tablas (seed y tests).
func (a *API) Store() *Store { return a.store }

// Routes monta todos los recursos; el router lo cuelga de /api.
func (a *API) Routes(r chi.Router) {
	a.authRoutes(r)
	a.userRoutes(r)
	a.productRoutes(r)
	a.veterinarianRoutes(r)
	a.appointmentRoutes(r)
	a.testimonialRoutes(r)
	a.cartRoutes(r)
	a.orderRoutes(r)
}

// requireUser corta con 401 si el request no trae claims.
func (a *API) requireUser(w http.ResponseWriter, r *http.Request) (auth.Claims, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return auth.Claims{}, false
	}
	return claims, true
}

func (a *API) can(ctx context.Context, claims auth.Claims, c capabilities.Capability) bool {
	ok, err := a.caps.HasFeature(ctx, capabilities.CapabilityCheck{Claims: claims, Capability: c})
	if err != nil {
		a.log.Warn("capability check failed", map[string]any{"capability": string(c), "error": err})
		return false
	}
	return ok
}

// requireCapability protege un grupo de rutas.
func (a *API) requireCapability(c capabilities.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := a.requireUser(w, r)
			if !ok {
				return
			}
			if !a.can(r.Context(), claims, c) {
				writeError(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requireSelf: el propio usuario o quien tenga la capability.
func (a *API) requireSelf(w http.ResponseWriter, r *http.Request, userID int64, c capabilities.Capability) bool {
	claims, ok := a.requireUser(w, r)
	if !ok {
		return false
	}
	if claims.UserID == userID || a.can(r.Context(), claims, c) {
		return true
	}
	writeError(w, http.StatusForbidden, "forbidden")
	return false
}
