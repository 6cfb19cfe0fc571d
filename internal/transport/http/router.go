package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"bpd/internal/platform/metrics"
	"bpd/pkg/platform/httputil"
	"bpd/pkg/platform/middleware/admin"
	"bpd/pkg/platform/middleware/auth"
	"bpd/pkg/platform/middleware/metadata"
	"bpd/pkg/platform/middleware/request"
	"bpd/pkg/platform/middleware/requesttime"
)

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

// Registrar mounts a group of authenticated routes.
type Registrar interface {
	Register(r chi.Router)
}

// Dependencies are the pieces the router wires together.
type Dependencies struct {
	Logger       *slog.Logger
	Metrics      *metrics.Metrics
	Validator    auth.TokenValidator
	MetricsToken string
	HealthChecks map[string]HealthCheck
	Handlers     []Registrar
}

// NewRouter builds the public router: request scoped middleware for every
// route, open health and metrics endpoints, and bearer-authenticated API
// routes.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)
	r.Use(request.Logger(deps.Logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(countRequests(deps.Metrics))

	r.Get("/health", health(deps.HealthChecks, deps.Logger))
	r.With(admin.RequireAdminToken(deps.MetricsToken, deps.Logger)).Handle("/metrics", metrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(deps.Validator, deps.Logger))
		for _, h := range deps.Handlers {
			h.Register(r)
		}
	})
	return r
}

func health(checks map[string]HealthCheck, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		report := map[string]string{}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				logger.WarnContext(ctx, "health check failed", "dependency", name, "error", err)
				report[name] = "down"
				status = http.StatusServiceUnavailable
				continue
			}
			report[name] = "up"
		}
		httputil.WriteJSON(w, status, map[string]any{
			"status":       http.StatusText(status),
			"dependencies": report,
		})
	}
}

// countRequests labels by route pattern so ids in paths never become labels.
func countRequests(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			route := "unmatched"
			if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
				route = rc.RoutePattern()
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			m.IncrementHTTPRequest(route, strconv.Itoa(status/100)+"xx")
		})
	}
}
