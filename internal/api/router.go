package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	apiMiddleware "github.com/phrazzld/anyapi/internal/api/middleware"
	"github.com/phrazzld/anyapi/internal/api/shared"
	"github.com/phrazzld/anyapi/internal/service"
	"github.com/phrazzld/anyapi/internal/service/auth"
)

// RouterConfig holds the dependencies of the HTTP router.
type RouterConfig struct {
	ProxyService service.ProxyService
	Logger       *slog.Logger

	// AuthEnabled protects the /api routes. When set, at least one of
	// JWTService and ClientKeys should be configured.
	AuthEnabled bool
	JWTService  auth.JWTService
	ClientKeys  *auth.ClientKeyVerifier

	// HealthCheck, when set, is consulted by GET /health.
	HealthCheck func(ctx context.Context) error
}

// HealthResponse is the payload of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// NewRouter creates the application router with all routes and middleware.
func NewRouter(cfg RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(apiMiddleware.NewTraceMiddleware(log))
	r.Use(chimw.Recoverer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithError(w, r, http.StatusNotFound, "Route not found: "+r.Method+" "+r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithError(w, r, http.StatusMethodNotAllowed, "Method not allowed: "+r.Method+" "+r.URL.Path)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if cfg.HealthCheck != nil {
			if err := cfg.HealthCheck(r.Context()); err != nil {
				shared.RespondWithErrorAndLog(w, r, http.StatusServiceUnavailable, "Service unavailable", err)
				return
			}
		}
		shared.RespondWithData(w, r, http.StatusOK, HealthResponse{Status: "ok"})
	})

	proxyHandler := NewProxyHandler(cfg.ProxyService, log)

	r.Route("/api", func(r chi.Router) {
		if cfg.AuthEnabled {
			r.Use(apiMiddleware.NewAuthMiddleware(cfg.JWTService, cfg.ClientKeys).Authenticate)
		}

		r.Get("/apis", proxyHandler.ListAPIs)
		r.Get("/apis/{apiID}", proxyHandler.GetAPIDocumentation)
		r.Post("/calls", proxyHandler.MakeAPICall)

		r.Get("/tools", proxyHandler.ListTools)
		r.Post("/tools/{tool}", proxyHandler.CallTool)
	})

	return r
}
