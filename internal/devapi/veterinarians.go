package devapi

import (
	"net/http"
	"sort"
	"strings"

	"pet-care-portal/internal/domain/validation"
	"pet-care-portal/internal/domain/veterinarians"
	"pet-care-portal/internal/platform/jsontime"
	"pet-care-portal/internal/ports/capabilities"

	"github.com/go-chi/chi/v5"
)

func (a *API) veterinarianRoutes(r chi.Router) {
	r.Route("/veterinarians", func(vr chi.Router) {
		vr.Get("/", a.listVets)
		vr.Get("/search", a.searchVets)
		vr.Get("/available", a.availableVets)
		vr.Get("/specializations", a.listSpecializations)
		vr.Get("/specialization/{specialization}", a.vetsBySpecialization)
		vr.Get("/email/{email}", a.vetByEmail)
		vr.Get("/{vetID}", a.getVet)

		vr.Group(func(admin chi.Router) {
			admin.Use(a.requireCapability(capabilities.ManageVeterinarians))
			admin.Post("/", a.createVet)
			admin.Put("/{vetID}", a.updateVet)
			admin.Delete("/{vetID}", a.deleteVet)
		})
	})
}

func (a *API) listVets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.store.Veterinarians.List(r.Context(), nil))
}

func (a *API) searchVets(w http.ResponseWriter, r *http.Request) {
	q := queryParam(r, "q")
	list := a.store.Veterinarians.List(r.Context(), func(v veterinarians.Veterinarian) bool {
		return q == "" || containsFold(v.FullName, q) || containsFold(v.Specialization, q)
	})
	writeJSON(w, http.StatusOK, list)
}

func (a *API) availableVets(w http.ResponseWriter, r *http.Request) {
	list := a.store.Veterinarians.List(r.Context(), func(v veterinarians.Veterinarian) bool {
		return v.IsAvailable
	})
	writeJSON(w, http.StatusOK, list)
}

func (a *API) listSpecializations(w http.ResponseWriter, r *http.Request) {
	seen := map[string]struct{}{}
	out := make([]string, 0)
	for _, v := range a.store.Veterinarians.List(r.Context(), nil) {
		s := strings.TrimSpace(v.Specialization)
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	writeJSON(w, http.StatusOK, out)
}

func (a *API) vetsBySpecialization(w http.ResponseWriter, r *http.Request) {
	s := strings.TrimSpace(chi.URLParam(r, "specialization"))
	list := a.store.Veterinarians.List(r.Context(), func(v veterinarians.Veterinarian) bool {
		return strings.EqualFold(v.Specialization, s)
	})
	writeJSON(w, http.StatusOK, list)
}

func (a *API) vetByEmail(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(chi.URLParam(r, "email"))
	v, err := a.store.Veterinarians.Find(r.Context(), func(v veterinarians.Veterinarian) bool {
		return strings.EqualFold(v.Email, email)
	})
	if err != nil {
		writeStoreError(w, err, "veterinarian")
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (a *API) getVet(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "vetID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid veterinarian id")
		return
	}
	v, err := a.store.Veterinarians.Get(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "veterinarian")
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func validVet(v veterinarians.Veterinarian) string {
	if strings.TrimSpace(v.FullName) == "" {
		return "Full name is required"
	}
	if !validation.IsValidEmail(strings.TrimSpace(v.Email)) {
		return "Please enter a valid email address"
	}
	if strings.TrimSpace(v.LicenseNumber) == "" {
		return "License number is required"
	}
	if _, err := v.Slots(); err != nil {
		return "availableFrom/availableTo must be HH:MM"
	}
	return ""
}

func (a *API) createVet(w http.ResponseWriter, r *http.Request) {
	var in veterinarians.Veterinarian
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if msg := validVet(in); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	now := jsontime.DateTime{Time: a.now()}
	v, err := a.store.Veterinarians.CreateIf(r.Context(),
		func(ex veterinarians.Veterinarian) bool {
			return strings.EqualFold(ex.Email, in.Email) || ex.LicenseNumber == in.LicenseNumber
		},
		func(id int64) veterinarians.Veterinarian {
			in.ID = id
			in.CreatedAt, in.UpdatedAt = now, now
			return in
		},
	)
	if err != nil {
		writeStoreError(w, err, "veterinarian")
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

func (a *API) updateVet(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "vetID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid veterinarian id")
		return
	}
	var in veterinarians.Veterinarian
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if msg := validVet(in); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	v, err := a.store.Veterinarians.Update(r.Context(), id, func(cur veterinarians.Veterinarian) (veterinarians.Veterinarian, error) {
		in.ID = cur.ID
		in.CreatedAt = cur.CreatedAt
		in.UpdatedAt = jsontime.DateTime{Time: a.now()}
		return in, nil
	})
	if err != nil {
		writeStoreError(w, err, "veterinarian")
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (a *API) deleteVet(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "vetID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid veterinarian id")
		return
	}
	if err := a.store.Veterinarians.Delete(r.Context(), id); err != nil {
		writeStoreError(w, err, "veterinarian")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
