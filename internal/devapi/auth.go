package devapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"pet-care-portal/internal/adapters/storage/memory"
	"pet-care-portal/internal/domain/session"
	"pet-care-portal/internal/domain/validation"
	"pet-care-portal/internal/ports/auth"
	"pet-care-portal/internal/ports/capabilities"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"
)

var errDuplicateUser = errors.New("user already exists")

type loginResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	User    *session.User `json:"user,omitempty"`
	Token   string        `json:"token,omitempty"`
}

func (a *API) authRoutes(r chi.Router) {
	r.Route("/auth", func(ar chi.Router) {
		ar.Post("/login", a.login)
		ar.Post("/register", a.register)
		ar.Get("/profile/{userID}", a.getProfile)
		ar.Put("/profile/{userID}", a.updateProfile)
	})
}

func (a *API) login(w http.ResponseWriter, r *http.Request) {
	var req session.Credentials
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if errs := validation.ValidateLogin(validation.LoginDraft{
		UsernameOrEmail: req.UsernameOrEmail,
		Password:        req.Password,
	}); !errs.Empty() {
		writeError(w, http.StatusBadRequest, "Please fill in all fields")
		return
	}

	who := strings.TrimSpace(req.UsernameOrEmail)
	rec, err := a.store.Users.Find(r.Context(), func(u userRecord) bool {
		return strings.EqualFold(u.Username, who) || strings.EqualFold(u.Email, who)
	})
	if err != nil || bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(req.Password)) != nil {
		writeJSON(w, http.StatusUnauthorized, loginResponse{Message: "Invalid username/email or password"})
		return
	}

	resp := loginResponse{Success: true, Message: "Login successful", User: &rec.User}
	if a.issuer != nil {
		tok, err := a.issuer.Issue(auth.Claims{UserID: rec.ID, Email: rec.Email, Role: string(rec.Role)}, a.ttl)
		if err != nil {
			a.log.Error("issue token failed", map[string]any{"user_id": rec.ID, "error": err})
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		resp.Token = tok
	}

	a.log.Info("user logged in", map[string]any{"user_id": rec.ID})
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) register(w http.ResponseWriter, r *http.Request) {
	var req session.Registration
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

	u, err := a.createUser(r.Context(), session.User{
		Username:  strings.TrimSpace(req.Username),
		Email:     strings.TrimSpace(req.Email),
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Role:      session.RoleUser,
	}, req.Password)
	switch {
	case errors.Is(err, errDuplicateUser):
		writeError(w, http.StatusConflict, "Email already exists")
		return
	case err != nil:
		a.log.Error("register failed", map[string]any{"error": err})
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, loginResponse{Success: true, Message: "User registered successfully", User: &u})
}

// createUser hashea el password y crea el usuario si username y email están libres.
func (a *API) createUser(ctx context.Context, u session.User, password string) (session.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.cost)
	if err != nil {
		return session.User{}, err
	}

	rec, err := a.store.Users.CreateIf(ctx,
		func(ex userRecord) bool {
			return strings.EqualFold(ex.Email, u.Email) || strings.EqualFold(ex.Username, u.Username)
		},
		func(id int64) userRecord {
			u.ID = id
			return userRecord{User: u, PasswordHash: string(hash)}
		},
	)
	if errors.Is(err, memory.ErrConflict) {
		return session.User{}, errDuplicateUser
	}
	if err != nil {
		return session.User{}, err
	}
	return rec.User, nil
}

func (a *API) getProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "userID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	if !a.requireSelf(w, r, id, capabilities.ManageUsers) {
		return
	}

	rec, err := a.store.Users.Get(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "user")
		return
	}
	writeData(w, http.StatusOK, rec.User, "")
}

func (a *API) updateProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "userID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	if !a.requireSelf(w, r, id, capabilities.ManageUsers) {
		return
	}

	var p session.UserPatch
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if p.Email != nil && !validation.IsValidEmail(strings.TrimSpace(*p.Email)) {
		writeError(w, http.StatusBadRequest, "Please enter a valid email address")
		return
	}

	rec, err := a.store.Users.Update(r.Context(), id, func(cur userRecord) (userRecord, error) {
		cur.User = p.Apply(cur.User)
		return cur, nil
	})
	if err != nil {
		writeStoreError(w, err, "user")
		return
	}
	writeData(w, http.StatusOK, rec.User, "Profile updated successfully")
}
