package devapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"pet-care-portal/internal/adapters/storage/memory"

	"github.com/go-chi/chi/v5"
)

const maxBody = 1 << 20

// envelope es la forma {success, data, message} de productos y usuarios.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, status int, data any, msg string) {
	writeJSON(w, status, envelope{Success: true, Data: data, Message: msg})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{Success: false, Message: msg})
}

// writeStoreError traduce errores de las tablas a status HTTP.
func writeStoreError(w http.ResponseWriter, err error, what string) {
	switch {
	case errors.Is(err, memory.ErrNotFound):
		writeError(w, http.StatusNotFound, what+" not found")
	case errors.Is(err, memory.ErrConflict):
		writeError(w, http.StatusConflict, what+" already exists")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(io.LimitReader(r.Body, maxBody)).Decode(v)
}

func idParam(r *http.Request, name string) (int64, bool) {
	v, err := strconv.ParseInt(strings.TrimSpace(chi.URLParam(r, name)), 10, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

func queryParam(r *http.Request, name string) string {
	return strings.TrimSpace(r.URL.Query().Get(name))
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
