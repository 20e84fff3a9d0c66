package router

import (
	"net/http"

	"pet-care-portal/internal/devapi"
	_ "pet-care-portal/internal/devapi/docs"
	"pet-care-portal/internal/middleware"
	"pet-care-portal/internal/platform/logger"
	"pet-care-portal/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev: X-Debug-User-ID)

	// Opcional: si no viene, se crea un devapi vacío.
	API *devapi.API

	Logger logger.Logger

	// Opcional: registry propio para /metrics (tests). nil = uno nuevo.
	Registry *prometheus.Registry
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	api := opts.API
	if api == nil {
		api = devapi.New(devapi.Options{Logger: log})
	}
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "petcare",
		Subsystem: "devapi",
		Name:      "http_requests_total",
		Help:      "Requests served by the dev API, by status code and method.",
	}, []string{"code", "method"})
	reg.MustRegister(requests)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID(log))
	r.Use(middleware.Recover(log))
	r.Use(func(next http.Handler) http.Handler {
		return promhttp.InstrumentHandlerCounter(requests, next)
	})

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Route("/api", api.Routes)

	return r
}
