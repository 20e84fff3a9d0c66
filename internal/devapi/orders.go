package devapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"pet-care-portal/internal/domain/cart"
	"pet-care-portal/internal/domain/orders"
	"pet-care-portal/internal/platform/jsontime"
	"pet-care-portal/internal/ports/capabilities"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var errNotCancellable = errors.New("order can no longer be cancelled")

type statusRequest struct {
	Status orders.Status `json:"status"`
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

func (a *API) orderRoutes(r chi.Router) {
	r.Route("/orders", func(or chi.Router) {
		or.Post("/", a.createOrder)
		or.Get("/user/{userID}", a.ordersByUser)
		or.Get("/{orderID}", a.getOrder)
		or.Patch("/{orderID}/cancel", a.cancelOrder)

		or.Group(func(admin chi.Router) {
			admin.Use(a.requireCapability(capabilities.ManageOrders))
			admin.Get("/", a.listOrders)
			admin.Patch("/{orderID}/status", a.updateOrderStatus)
		})
	})
}

// orderNumber: ORD-<8 hex>, legible en soporte.
func orderNumber() string {
	return "ORD-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

// createOrder recalcula los montos con el catálogo y vacía el carrito si el
// pedido viene de él.
func (a *API) createOrder(w http.ResponseWriter, r *http.Request) {
	claims, ok := a.requireUser(w, r)
	if !ok {
		return
	}
	var req orders.CheckoutRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, orders.ErrEmptyCart.Error())
		return
	}

	lines := make([]cart.Item, 0, len(req.Items))
	items := make([]orders.Item, 0, len(req.Items))
	for _, it := range req.Items {
		if err := it.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		p, err := a.store.Products.Get(r.Context(), it.ProductID)
		if err != nil || !p.IsActive {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("product %d not available", it.ProductID))
			return
		}
		it.UnitPrice = unitPrice(p)
		lines = append(lines, it)
		items = append(items, orders.Item{
			ProductID:   p.ID,
			ProductName: p.Name,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TotalPrice:  it.Total().Round(2),
		})
	}

	ship := req.ShippingDetails
	if strings.TrimSpace(ship.Country) == "" {
		ship.Country = orders.DefaultCountry
	}
	sum := cart.Totals(lines, a.taxRate)
	now := jsontime.DateTime{Time: a.now()}
	uid := claims.UserID

	o := a.store.Orders.Create(r.Context(), func(id int64) orders.Order {
		return orders.Order{
			ID:            id,
			UserID:        &uid,
			OrderNumber:   orderNumber(),
			Items:         items,
			Subtotal:      sum.Subtotal,
			TaxAmount:     sum.Tax,
			ShippingCost:  decimal.Zero,
			TotalAmount:   sum.Total,
			Status:        orders.StatusPending,
			PaymentStatus: "PENDING",
			Shipping:      ship,
			OrderDate:     now,
			CreatedAt:     now,
		}
	})

	if req.Type != orders.KindSingle {
		a.emptyCart(r.Context(), uid)
	}

	a.log.Info("order placed", map[string]any{"order_id": o.ID, "order_number": o.OrderNumber, "total": o.TotalAmount.String()})
	writeJSON(w, http.StatusCreated, o)
}

func (a *API) listOrders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.store.Orders.List(r.Context(), nil))
}

func (a *API) ordersByUser(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "userID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	if !a.requireSelf(w, r, id, capabilities.ManageOrders) {
		return
	}
	list := a.store.Orders.List(r.Context(), func(o orders.Order) bool {
		return o.UserID != nil && *o.UserID == id
	})
	writeJSON(w, http.StatusOK, list)
}

// loadOwnOrder carga el pedido si el request es del dueño o de un admin.
func (a *API) loadOwnOrder(w http.ResponseWriter, r *http.Request) (orders.Order, bool) {
	id, ok := idParam(r, "orderID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return orders.Order{}, false
	}
	o, err := a.store.Orders.Get(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "order")
		return orders.Order{}, false
	}
	var owner int64
	if o.UserID != nil {
		owner = *o.UserID
	}
	if !a.requireSelf(w, r, owner, capabilities.ManageOrders) {
		return orders.Order{}, false
	}
	return o, true
}

func (a *API) getOrder(w http.ResponseWriter, r *http.Request) {
	o, ok := a.loadOwnOrder(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (a *API) cancelOrder(w http.ResponseWriter, r *http.Request) {
	o, ok := a.loadOwnOrder(w, r)
	if !ok {
		return
	}
	var req cancelRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	o, err := a.store.Orders.Update(r.Context(), o.ID, func(cur orders.Order) (orders.Order, error) {
		if cur.Status != orders.StatusPending && cur.Status != orders.StatusConfirmed {
			return cur, errNotCancellable
		}
		cur.Status = orders.StatusCancelled
		cur.Cancellation = strings.TrimSpace(req.Reason)
		return cur, nil
	})
	if errors.Is(err, errNotCancellable) {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		writeStoreError(w, err, "order")
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (a *API) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "orderID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}
	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if !req.Status.Valid() {
		writeError(w, http.StatusBadRequest, "invalid status")
		return
	}

	o, err := a.store.Orders.Update(r.Context(), id, func(cur orders.Order) (orders.Order, error) {
		cur.Status = req.Status
		return cur, nil
	})
	if err != nil {
		writeStoreError(w, err, "order")
		return
	}
	writeJSON(w, http.StatusOK, o)
}
