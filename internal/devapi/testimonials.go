package devapi

import (
	"net/http"
	"strings"

	"pet-care-portal/internal/domain/testimonials"
	"pet-care-portal/internal/domain/validation"
	"pet-care-portal/internal/platform/jsontime"
	"pet-care-portal/internal/ports/capabilities"

	"github.com/go-chi/chi/v5"
)

func (a *API) testimonialRoutes(r chi.Router) {
	r.Route("/testimonials", func(tr chi.Router) {
		tr.Get("/", a.listTestimonials)
		tr.Post("/", a.createTestimonial)
		tr.Get("/approved", a.approvedTestimonials)
		tr.Get("/featured", a.featuredTestimonials)
		tr.Get("/{testimonialID}", a.getTestimonial)

		tr.Group(func(admin chi.Router) {
			admin.Use(a.requireCapability(capabilities.ApproveTestimonials))
			admin.Put("/{testimonialID}", a.updateTestimonial)
			admin.Put("/{testimonialID}/approve", a.approveTestimonial)
			admin.Delete("/{testimonialID}", a.deleteTestimonial)
		})
	})
}

func (a *API) listTestimonials(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.store.Testimonials.List(r.Context(), nil))
}

func (a *API) approvedTestimonials(w http.ResponseWriter, r *http.Request) {
	list := a.store.Testimonials.List(r.Context(), func(t testimonials.Testimonial) bool {
		return t.IsApproved
	})
	writeJSON(w, http.StatusOK, list)
}

func (a *API) featuredTestimonials(w http.ResponseWriter, r *http.Request) {
	list := a.store.Testimonials.List(r.Context(), func(t testimonials.Testimonial) bool {
		return t.IsApproved && t.IsFeatured
	})
	writeJSON(w, http.StatusOK, list)
}

func (a *API) getTestimonial(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "testimonialID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid testimonial id")
		return
	}
	t, err := a.store.Testimonials.Get(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "testimonial")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func validTestimonial(t testimonials.Testimonial) string {
	switch {
	case strings.TrimSpace(t.CustomerName) == "":
		return "Name is required"
	case !validation.IsValidEmail(strings.TrimSpace(t.CustomerEmail)):
		return "Please enter a valid email address"
	case strings.TrimSpace(t.Content) == "":
		return "Content is required"
	case t.Rating < 1 || t.Rating > 5:
		return "Rating must be between 1 and 5"
	}
	return ""
}

// createTestimonial: queda pendiente hasta que un admin lo apruebe.
func (a *API) createTestimonial(w http.ResponseWriter, r *http.Request) {
	var in testimonials.Testimonial
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if msg := validTestimonial(in); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	t := a.store.Testimonials.Create(r.Context(), func(id int64) testimonials.Testimonial {
		in.ID = id
		in.IsApproved, in.IsFeatured = false, false
		in.ApprovedAt = jsontime.DateTime{}
		in.CreatedAt = jsontime.DateTime{Time: a.now()}
		return in
	})
	writeJSON(w, http.StatusCreated, t)
}

func (a *API) updateTestimonial(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "testimonialID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid testimonial id")
		return
	}
	var in testimonials.Testimonial
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if msg := validTestimonial(in); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	t, err := a.store.Testimonials.Update(r.Context(), id, func(cur testimonials.Testimonial) (testimonials.Testimonial, error) {
		in.ID = cur.ID
		in.CreatedAt = cur.CreatedAt
		if in.IsApproved && cur.ApprovedAt.IsZero() {
			in.ApprovedAt = jsontime.DateTime{Time: a.now()}
		} else {
			in.ApprovedAt = cur.ApprovedAt
		}
		return in, nil
	})
	if err != nil {
		writeStoreError(w, err, "testimonial")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (a *API) approveTestimonial(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "testimonialID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid testimonial id")
		return
	}
	t, err := a.store.Testimonials.Update(r.Context(), id, func(cur testimonials.Testimonial) (testimonials.Testimonial, error) {
		if !cur.IsApproved {
			cur.IsApproved = true
			cur.ApprovedAt = jsontime.DateTime{Time: a.now()}
		}
		return cur, nil
	})
	if err != nil {
		writeStoreError(w, err, "testimonial")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (a *API) deleteTestimonial(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "testimonialID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid testimonial id")
		return
	}
	if err := a.store.Testimonials.Delete(r.Context(), id); err != nil {
		writeStoreError(w, err, "testimonial")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
