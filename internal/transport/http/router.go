// Package httptransport wires the HTTP surface: middleware stack, public
// directory reads, auth endpoints, and the authenticated profile routes.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authhandler "helpy/internal/auth/handler"
	directoryhandler "helpy/internal/directory/handler"
	"helpy/internal/platform/health"
	"helpy/internal/platform/metrics"
	"helpy/internal/platform/middleware"
	profilehandler "helpy/internal/profile/handler"
)

// Dependencies carries everything the router mounts.
type Dependencies struct {
	Logger    *slog.Logger
	Metrics   *metrics.Metrics
	Health    *health.Handler
	Directory *directoryhandler.Handler
	Auth      *authhandler.Handler
	Profile   *profilehandler.Handler
	Verifier  middleware.TokenVerifier
}

// NewRouter assembles the full HTTP handler. Directory reads are public;
// profile routes sit behind bearer auth.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.Metrics(deps.Metrics))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.BodyLimit(1 << 20))

	deps.Health.Register(r)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.ContentTypeJSON)

		deps.Directory.Register(api)
		deps.Auth.Register(api)

		api.Group(func(private chi.Router) {
			private.Use(middleware.RequireAuth(deps.Verifier, deps.Logger))
			deps.Profile.Register(private)
		})
	})

	return r
}
