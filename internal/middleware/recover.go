package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"pet-care-portal/internal/platform/logger"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// Recover convierte un panic en 500 con el envelope {success:false} y lo loguea
// con el request id.
func Recover(log logger.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = logger.Nop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				log.Error("panic recovered", map[string]any{
					"request_id": chimw.GetReqID(r.Context()),
					"panic":      fmt.Sprint(rec),
					"stack":      string(debug.Stack()),
				})
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"success":false,"message":"internal error"}`))
			}()
			next.ServeHTTP(w, r)
		})
	}
}
