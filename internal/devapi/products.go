package devapi

import (
	"math"
	"net/http"
	"strings"

	"pet-care-portal/internal/domain/products"
	"pet-care-portal/internal/platform/jsontime"
	"pet-care-portal/internal/ports/capabilities"

	"github.com/go-chi/chi/v5"
)

func (a *API) productRoutes(r chi.Router) {
	r.Route("/products", func(pr chi.Router) {
		pr.Get("/", a.listProducts)
		pr.Get("/search", a.searchProducts)
		pr.Get("/featured", a.featuredProducts)
		pr.Get("/category/{category}", a.productsByCategory)
		pr.Get("/{productID}", a.getProduct)

		pr.Group(func(admin chi.Router) {
			admin.Use(a.requireCapability(capabilities.ManageProducts))
			admin.Post("/", a.createProduct)
			admin.Put("/{productID}", a.updateProduct)
			admin.Delete("/{productID}", a.deleteProduct)
		})
	})
}

func activeProduct(p products.Product) bool { return p.IsActive }

func (a *API) listProducts(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, a.store.Products.List(r.Context(), activeProduct), "")
}

// searchProducts usa el mismo matching que el filtro del cliente.
func (a *API) searchProducts(w http.ResponseWriter, r *http.Request) {
	f := products.DefaultFilter()
	f.PriceMax = math.MaxFloat64
	f.SearchTerm = queryParam(r, "q")

	list := a.store.Products.List(r.Context(), activeProduct)
	writeData(w, http.StatusOK, products.Apply(list, f), "")
}

func (a *API) featuredProducts(w http.ResponseWriter, r *http.Request) {
	list := a.store.Products.List(r.Context(), func(p products.Product) bool {
		return p.IsActive && p.IsFeatured
	})
	writeData(w, http.StatusOK, list, "")
}

func (a *API) productsByCategory(w http.ResponseWriter, r *http.Request) {
	c, ok := products.ParseCategory(chi.URLParam(r, "category"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid category")
		return
	}
	list := a.store.Products.List(r.Context(), func(p products.Product) bool {
		return p.IsActive && p.Category == c
	})
	writeData(w, http.StatusOK, list, "")
}

func (a *API) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "productID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	p, err := a.store.Products.Get(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "product")
		return
	}
	writeData(w, http.StatusOK, p, "")
}

func validProduct(p products.Product) string {
	if strings.TrimSpace(p.Name) == "" {
		return "Product name is required"
	}
	if _, ok := products.ParseCategory(string(p.Category)); !ok {
		return "invalid category"
	}
	if p.Price < 0 || (p.DiscountPrice != nil && *p.DiscountPrice < 0) {
		return "price must not be negative"
	}
	if p.StockQuantity < 0 {
		return "stock must not be negative"
	}
	return ""
}

func (a *API) createProduct(w http.ResponseWriter, r *http.Request) {
	var in products.Product
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if msg := validProduct(in); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	now := jsontime.DateTime{Time: a.now()}
	p := a.store.Products.Create(r.Context(), func(id int64) products.Product {
		in.ID = id
		in.Category, _ = products.ParseCategory(string(in.Category))
		in.IsActive = true
		in.CreatedAt, in.UpdatedAt = now, now
		return in
	})
	writeData(w, http.StatusCreated, p, "Product created successfully")
}

func (a *API) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "productID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	var in products.Product
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if msg := validProduct(in); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	p, err := a.store.Products.Update(r.Context(), id, func(cur products.Product) (products.Product, error) {
		in.ID = cur.ID
		in.Category, _ = products.ParseCategory(string(in.Category))
		in.CreatedAt = cur.CreatedAt
		in.UpdatedAt = jsontime.DateTime{Time: a.now()}
		return in, nil
	})
	if err != nil {
		writeStoreError(w, err, "product")
		return
	}
	writeData(w, http.StatusOK, p, "Product updated successfully")
}

// deleteProduct es un soft delete: el producto deja de listarse.
func (a *API) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "productID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	_, err := a.store.Products.Update(r.Context(), id, func(cur products.Product) (products.Product, error) {
		cur.IsActive = false
		cur.UpdatedAt = jsontime.DateTime{Time: a.now()}
		return cur, nil
	})
	if err != nil {
		writeStoreError(w, err, "product")
		return
	}
	writeData(w, http.StatusOK, nil, "Product deleted successfully")
}
