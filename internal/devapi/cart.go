package devapi

import (
	"context"
	"errors"
	"net/http"

	"pet-care-portal/internal/adapters/storage/memory"
	"pet-care-portal/internal/domain/cart"
	"pet-care-portal/internal/domain/products"
	"pet-care-portal/internal/ports/capabilities"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

var errItemNotFound = errors.New("cart item not found")

func (a *API) cartRoutes(r chi.Router) {
	r.Route("/cart", func(cr chi.Router) {
		cr.Post("/add/{userID}", a.addCartItem)
		cr.Get("/{userID}", a.getCart)
		cr.Get("/{userID}/count", a.cartCount)
		cr.Put("/{userID}/items/{itemID}", a.updateCartItem)
		cr.Delete("/{userID}/items/{itemID}", a.removeCartItem)
		cr.Delete("/{userID}/clear", a.clearCart)
	})
}

// cartOwner valida {userID} contra el token.
func (a *API) cartOwner(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, ok := idParam(r, "userID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return 0, false
	}
	if !a.requireSelf(w, r, userID, capabilities.ManageOrders) {
		return 0, false
	}
	return userID, true
}

// cartFor devuelve el carrito activo del usuario, creándolo si no existe.
func (a *API) cartFor(ctx context.Context, userID int64) cartRecord {
	if c, err := a.store.Carts.Find(ctx, func(c cartRecord) bool { return c.UserID == userID }); err == nil {
		return c
	}
	c, err := a.store.Carts.CreateIf(ctx,
		func(c cartRecord) bool { return c.UserID == userID },
		func(id int64) cartRecord { return cartRecord{ID: id, UserID: userID} },
	)
	if errors.Is(err, memory.ErrConflict) {
		c, _ = a.store.Carts.Find(ctx, func(c cartRecord) bool { return c.UserID == userID })
	}
	return c
}

func (a *API) getCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.cartOwner(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, a.cartFor(r.Context(), userID).view())
}

func (a *API) cartCount(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.cartOwner(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, cart.Count(a.cartFor(r.Context(), userID).items()))
}

func (a *API) addCartItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.cartOwner(w, r)
	if !ok {
		return
	}
	var in cart.Item
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := in.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	p, err := a.store.Products.Get(r.Context(), in.ProductID)
	if err != nil || !p.IsActive {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}
	// El precio lo decide el catálogo, no el cliente.
	in.UnitPrice = unitPrice(p)

	c := a.cartFor(r.Context(), userID)
	c, err = a.store.Carts.Update(r.Context(), c.ID, func(cur cartRecord) (cartRecord, error) {
		merged := cart.Merge(cur.items(), in)
		lines := make([]cartLine, 0, len(merged))
		for i, it := range merged {
			if i < len(cur.Lines) {
				l := cur.Lines[i]
				l.Item = it
				lines = append(lines, l)
				continue
			}
			cur.nextID++
			prod := p
			lines = append(lines, cartLine{ID: cur.nextID, Item: it, Product: &prod})
		}
		cur.Lines = lines
		return cur, nil
	})
	if err != nil {
		writeStoreError(w, err, "cart")
		return
	}
	writeJSON(w, http.StatusOK, c.view())
}

func unitPrice(p products.Product) decimal.Decimal {
	if p.DiscountPrice != nil && *p.DiscountPrice < p.Price {
		return decimal.NewFromFloat(*p.DiscountPrice)
	}
	return decimal.NewFromFloat(p.Price)
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

func (a *API) updateCartItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.cartOwner(w, r)
	if !ok {
		return
	}
	itemID, ok := idParam(r, "itemID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}
	var in quantityRequest
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if in.Quantity <= 0 {
		writeError(w, http.StatusBadRequest, cart.ErrInvalidQuantity.Error())
		return
	}

	c := a.cartFor(r.Context(), userID)
	c, err := a.store.Carts.Update(r.Context(), c.ID, func(cur cartRecord) (cartRecord, error) {
		lines := make([]cartLine, len(cur.Lines))
		copy(lines, cur.Lines)
		for i := range lines {
			if lines[i].ID == itemID {
				lines[i].Quantity = in.Quantity
				cur.Lines = lines
				return cur, nil
			}
		}
		return cur, errItemNotFound
	})
	if errors.Is(err, errItemNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeStoreError(w, err, "cart")
		return
	}
	writeJSON(w, http.StatusOK, c.view())
}

func (a *API) removeCartItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.cartOwner(w, r)
	if !ok {
		return
	}
	itemID, ok := idParam(r, "itemID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	c := a.cartFor(r.Context(), userID)
	c, err := a.store.Carts.Update(r.Context(), c.ID, func(cur cartRecord) (cartRecord, error) {
		lines := make([]cartLine, 0, len(cur.Lines))
		for _, l := range cur.Lines {
			if l.ID != itemID {
				lines = append(lines, l)
			}
		}
		if len(lines) == len(cur.Lines) {
			return cur, errItemNotFound
		}
		cur.Lines = lines
		return cur, nil
	})
	if errors.Is(err, errItemNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeStoreError(w, err, "cart")
		return
	}
	writeJSON(w, http.StatusOK, c.view())
}

func (a *API) clearCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.cartOwner(w, r)
	if !ok {
		return
	}
	a.emptyCart(r.Context(), userID)
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) emptyCart(ctx context.Context, userID int64) {
	c := a.cartFor(ctx, userID)
	_, _ = a.store.Carts.Update(ctx, c.ID, func(cur cartRecord) (cartRecord, error) {
		cur.Lines = nil
		return cur, nil
	})
}
