package middleware

import (
	"net/http"
	"time"

	"pet-care-portal/internal/platform/logger"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// HeaderRequestID es el mismo header que manda el cliente HTTP.
const HeaderRequestID = "X-Request-ID"

// RequestID devuelve el id del request (chimw.RequestID ya lo tomó del header
// entrante o lo generó) y loguea cada request al terminar.
func RequestID(log logger.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = logger.Nop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			id := chimw.GetReqID(r.Context())
			if id != "" {
				w.Header().Set(HeaderRequestID, id)
			}

			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			log.Debug("request served", map[string]any{
				"request_id":  id,
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      ww.Status(),
				"duration_ms": time.Since(start).Milliseconds(),
			})
		})
	}
}
