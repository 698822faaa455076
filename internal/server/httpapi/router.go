package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"personnel/internal/server/service"
)

// Options tune the router. The zero value is usable.
type Options struct {
	MaxRequestBytes int64
	// CORSOrigins defaults to every origin.
	CORSOrigins []string
	// Registry receives the HTTP metrics; a private registry is used when nil.
	Registry *prometheus.Registry
	// Health, when set, is consulted by GET /health.
	Health func(context.Context) error
}

type Router struct {
	services        *service.Services
	logger          *zap.Logger
	maxRequestBytes int64
	health          func(context.Context) error
}

func NewRouter(services *service.Services, logger *zap.Logger, opts Options) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r := &Router{services: services, logger: logger, maxRequestBytes: opts.MaxRequestBytes, health: opts.Health}
	m := newMetrics(reg)

	mux := chi.NewRouter()
	mux.Use(r.requestLogger)
	mux.Use(m.middleware)
	mux.Use(middleware.Recoverer)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{RequestIDHeader},
		MaxAge:         300,
	}))

	mux.Get("/", r.handleRoot)
	mux.Get("/health", r.handleHealth)
	mux.Get("/openapi.yaml", r.handleOpenAPI)
	mux.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	mux.Route("/personnel", func(pr chi.Router) {
		pr.Get("/", r.handleListPersonnel)
		pr.Post("/", r.handleCreatePersonnel)
		pr.Get("/{id}", r.handleGetPersonnel)
		pr.Put("/{id}", r.handleUpdatePersonnel)
		pr.Delete("/{id}", r.handleDeletePersonnel)
	})

	mux.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not Found"})
	})
	mux.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"detail": "Method Not Allowed"})
	})

	return mux
}

func (r *Router) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Welcome to the Personnel API"})
}

func (r *Router) handleHealth(w http.ResponseWriter, req *http.Request) {
	if r.health != nil {
		if err := r.health(req.Context()); err != nil {
			r.logger.Warn("health check failed", zap.Error(err), zap.String("request_id", requestID(req.Context())))
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps service failures to FastAPI-compatible error bodies.
func (r *Router) writeError(w http.ResponseWriter, req *http.Request, err error) {
	var verrs service.ValidationErrors
	var svcErr *service.Error
	switch {
	case errors.As(err, &verrs):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": verrs})
	case errors.As(err, &svcErr):
		writeJSON(w, svcErr.Status, map[string]string{"detail": svcErr.Detail})
	default:
		r.logger.Error("request failed",
			zap.Error(err),
			zap.String("request_id", requestID(req.Context())),
			zap.String("path", req.URL.Path),
		)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "Internal Server Error"})
	}
}
