package devapi

import (
	"errors"
	"net/http"
	"strings"

	"pet-care-portal/internal/domain/session"
	"pet-care-portal/internal/domain/validation"
	"pet-care-portal/internal/ports/capabilities"

	"github.com/go-chi/chi/v5"
)

type createUserRequest struct {
	session.User
	Password string `json:"password"`
}

func (a *API) userRoutes(r chi.Router) {
	r.Route("/users", func(ur chi.Router) {
		ur.Use(a.requireCapability(capabilities.ManageUsers))

		ur.Get("/", a.listUsers)
		ur.Post("/", a.createUserHandler)
		ur.Get("/search", a.searchUsers)
		ur.Get("/{userID}", a.getUser)
		ur.Put("/{userID}", a.updateUser)
		ur.Delete("/{userID}", a.deleteUser)
	})
}

func usersOf(recs []userRecord) []session.User {
	out := make([]session.User, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.User)
	}
	return out
}

func (a *API) listUsers(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, usersOf(a.store.Users.List(r.Context(), nil)), "")
}

func (a *API) searchUsers(w http.ResponseWriter, r *http.Request) {
	q := queryParam(r, "q")
	recs := a.store.Users.List(r.Context(), func(u userRecord) bool {
		return q == "" || containsFold(u.Username, q) || containsFold(u.Email, q) || containsFold(u.FullName(), q)
	})
	writeData(w, http.StatusOK, usersOf(recs), "")
}

func (a *API) getUser(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "userID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	rec, err := a.store.Users.Get(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "user")
		return
	}
	writeData(w, http.StatusOK, rec.User, "")
}

func (a *API) createUserHandler(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if errs := validation.ValidateSignup(validation.SignupDraft{
		Username:        req.Username,
		Email:           req.Email,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Password:        req.Password,
		ConfirmPassword: req.Password,
	}); !errs.Empty() {
		writeError(w, http.StatusBadRequest, errs.Error())
		return
	}
	if req.Role == "" {
		req.Role = session.RoleUser
	}

	u, err := a.createUser(r.Context(), req.User, req.Password)
	if errors.Is(err, errDuplicateUser) {
		writeError(w, http.StatusConflict, "Email already exists")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeData(w, http.StatusCreated, u, "User created successfully")
}

func (a *API) updateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "userID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	var in session.User
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	rec, err := a.store.Users.Update(r.Context(), id, func(cur userRecord) (userRecord, error) {
		in.ID = cur.ID
		if strings.TrimSpace(string(in.Role)) == "" {
			in.Role = cur.Role
		}
		cur.User = in
		return cur, nil
	})
	if err != nil {
		writeStoreError(w, err, "user")
		return
	}
	writeData(w, http.StatusOK, rec.User, "User updated successfully")
}

func (a *API) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "userID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	if err := a.store.Users.Delete(r.Context(), id); err != nil {
		writeStoreError(w, err, "user")
		return
	}
	writeData(w, http.StatusOK, nil, "User deleted successfully")
}
